package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// NotificationType identifies the template a dispatch request maps to.
type NotificationType string

const (
	NotifyPaymentReminder NotificationType = "PAYMENT_REMINDER"
	NotifyPaymentOverdue  NotificationType = "PAYMENT_OVERDUE"
	NotifyRentalEnding    NotificationType = "RENTAL_ENDING"
	NotifyPaymentDeducted NotificationType = "PAYMENT_DEDUCTED"
)

// NotificationChannel is a delivery channel handled by the dispatch
// service. Delivery itself is not this service's concern.
type NotificationChannel string

const (
	ChannelSMS      NotificationChannel = "sms"
	ChannelEmail    NotificationChannel = "email"
	ChannelWhatsapp NotificationChannel = "whatsapp"
	ChannelPush     NotificationChannel = "push"
)

// NotificationRequest is the structured payload handed to the
// notification dispatch service.
type NotificationRequest struct {
	RiderID  uint                   `json:"rider_id"`
	Type     NotificationType       `json:"type"`
	Channels []NotificationChannel  `json:"channels"`
	Data     map[string]interface{} `json:"data"`
}

// NotifierService hands notification payloads to the dispatch service
// over HTTP.
type NotifierService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewNotifierService() *NotifierService {
	url := os.Getenv("NOTIFICATION_BASE_URL")
	if url == "" {
		url = "http://notification-service:8080"
	}
	return &NotifierService{
		baseURL: url,
		apiKey:  os.Getenv("NOTIFICATION_API_KEY"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Dispatch posts one notification request. Errors are returned to the
// caller so batch jobs can count and retry failed items.
func (s *NotifierService) Dispatch(ctx context.Context, req NotificationRequest) error {
	if req.RiderID == 0 {
		return NewError(ErrCodeValidation, "rider id is required")
	}
	if len(req.Channels) == 0 {
		req.Channels = []NotificationChannel{ChannelSMS}
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/notifications/dispatch", s.baseURL), bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", s.apiKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send notification request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notification dispatch returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
