package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// VehicleModel is the catalog service's view of a rentable model.
type VehicleModel struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	BaseRentalRate float64 `json:"base_rental_rate"`
	AgeMonths      int     `json:"age_months"`
	Available      bool    `json:"available"`
}

// VehicleCatalogService talks to the vehicle catalog/hub service. The
// catalog is a read-only dependency; if it is down, pricing lookups
// fail but nothing else does.
type VehicleCatalogService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   *RedisCache
}

const vehicleModelCacheTTL = 15 * time.Minute

// NewVehicleCatalogService reads configuration from the environment.
// The cache is optional; pass nil to always hit the catalog directly.
func NewVehicleCatalogService(cache *RedisCache) *VehicleCatalogService {
	url := os.Getenv("VEHICLE_CATALOG_BASE_URL")
	if url == "" {
		url = "http://vehicle-catalog:8080"
	}
	return &VehicleCatalogService{
		baseURL: url,
		apiKey:  os.Getenv("VEHICLE_CATALOG_API_KEY"),
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
	}
}

func (s *VehicleCatalogService) getJSON(ctx context.Context, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s%s", s.baseURL, endpoint), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("vehicle catalog unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return NewError(ErrCodeNotFound, "vehicle model not found")
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("vehicle catalog returned status %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

// GetVehicleModel fetches one model's metadata, cached for 15 minutes.
func (s *VehicleCatalogService) GetVehicleModel(ctx context.Context, modelID string) (*VehicleModel, error) {
	fetch := func() (*VehicleModel, error) {
		var model VehicleModel
		if err := s.getJSON(ctx, "/api/vehicle-models/"+modelID, &model); err != nil {
			return nil, err
		}
		return &model, nil
	}

	if s.cache == nil {
		return fetch()
	}
	return GetOrSet(s.cache, ctx, "vehicle-model:"+modelID, vehicleModelCacheTTL, fetch)
}

// ListAvailableModels fetches all models currently offered for rent.
func (s *VehicleCatalogService) ListAvailableModels(ctx context.Context) ([]VehicleModel, error) {
	fetch := func() ([]VehicleModel, error) {
		var models []VehicleModel
		if err := s.getJSON(ctx, "/api/vehicle-models?available=true", &models); err != nil {
			return nil, err
		}
		return models, nil
	}

	if s.cache == nil {
		return fetch()
	}
	return GetOrSet(s.cache, ctx, "vehicle-models:available", vehicleModelCacheTTL, fetch)
}
