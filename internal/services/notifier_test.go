package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierDispatch(t *testing.T) {
	var received NotificationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/notifications/dispatch", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	notifier := &NotifierService{baseURL: server.URL, client: server.Client()}

	err := notifier.Dispatch(context.Background(), NotificationRequest{
		RiderID:  42,
		Type:     NotifyPaymentOverdue,
		Channels: []NotificationChannel{ChannelSMS, ChannelWhatsapp},
		Data:     map[string]interface{}{"payment_id": 9, "amount": 5000.0},
	})
	require.NoError(t, err)

	assert.Equal(t, uint(42), received.RiderID)
	assert.Equal(t, NotifyPaymentOverdue, received.Type)
	assert.Len(t, received.Channels, 2)
	assert.Equal(t, 5000.0, received.Data["amount"])
}

func TestNotifierDispatchDefaultsChannel(t *testing.T) {
	var received NotificationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
	}))
	defer server.Close()

	notifier := &NotifierService{baseURL: server.URL, client: server.Client()}

	err := notifier.Dispatch(context.Background(), NotificationRequest{
		RiderID: 1,
		Type:    NotifyPaymentReminder,
	})
	require.NoError(t, err)
	assert.Equal(t, []NotificationChannel{ChannelSMS}, received.Channels)
}

func TestNotifierDispatchRejectsMissingRider(t *testing.T) {
	notifier := &NotifierService{baseURL: "http://unused", client: http.DefaultClient}
	err := notifier.Dispatch(context.Background(), NotificationRequest{Type: NotifyRentalEnding})
	require.Error(t, err)
	assert.Equal(t, ErrCodeValidation, Code(err))
}

func TestNotifierDispatchSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "template missing", http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := &NotifierService{baseURL: server.URL, client: server.Client()}
	err := notifier.Dispatch(context.Background(), NotificationRequest{RiderID: 1, Type: NotifyPaymentReminder})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
