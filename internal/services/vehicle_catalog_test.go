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

func TestGetVehicleModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/vehicle-models/ev-city-90", r.URL.Path)
		_ = json.NewEncoder(w).Encode(VehicleModel{
			ID:             "ev-city-90",
			Name:           "City 90",
			BaseRentalRate: 5000,
			AgeMonths:      8,
			Available:      true,
		})
	}))
	defer server.Close()

	catalog := &VehicleCatalogService{baseURL: server.URL, client: server.Client()}

	model, err := catalog.GetVehicleModel(context.Background(), "ev-city-90")
	require.NoError(t, err)
	assert.Equal(t, "City 90", model.Name)
	assert.Equal(t, 5000.0, model.BaseRentalRate)
	assert.Equal(t, 8, model.AgeMonths)
	assert.True(t, model.Available)
}

func TestGetVehicleModelNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	catalog := &VehicleCatalogService{baseURL: server.URL, client: server.Client()}

	_, err := catalog.GetVehicleModel(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, ErrCodeNotFound, Code(err))
}

func TestListAvailableModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "true", r.URL.Query().Get("available"))
		_ = json.NewEncoder(w).Encode([]VehicleModel{
			{ID: "m1", BaseRentalRate: 5000, Available: true},
			{ID: "m2", BaseRentalRate: 8000, Available: true},
		})
	}))
	defer server.Close()

	catalog := &VehicleCatalogService{baseURL: server.URL, client: server.Client()}

	vehicleModels, err := catalog.ListAvailableModels(context.Background())
	require.NoError(t, err)
	assert.Len(t, vehicleModels, 2)
}

func TestCatalogDownReturnsError(t *testing.T) {
	// Pricing lookups must fail with an error, not panic, when the
	// catalog service is unreachable.
	catalog := &VehicleCatalogService{baseURL: "http://127.0.0.1:1", client: http.DefaultClient}

	_, err := catalog.GetVehicleModel(context.Background(), "any")
	require.Error(t, err)
}
