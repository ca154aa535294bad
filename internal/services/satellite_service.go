package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"claim-triage-service/internal/config"
	"claim-triage-service/internal/database/redis"
	"claim-triage-service/internal/models"
)

// Documented fallback NDVI used when the satellite feed is degraded. The
// value is deliberately mid-range; provenance tagging ensures it is never
// used to incriminate or clear a claim.
const fallbackNDVI = 0.45

// Side length, in degrees, of the sampling square drawn around the claim
// coordinate for the Agro API polygon (~500m at the equator).
const samplePolygonSizeDeg = 0.0045

type ISatelliteService interface {
	// GetIndex resolves the latest NDVI reading for a coordinate. Never
	// returns an error: upstream failure degrades to the documented
	// fallback signal.
	GetIndex(ctx context.Context, lat, lng float64) models.SatelliteSignal
}

// SatelliteService reads vegetation index data from the OpenWeather Agro
// API. The API is polygon-based, so a small sampling square is registered
// around the claim coordinate and its id cached per coordinate.
type SatelliteService struct {
	cfg        config.ProviderConfig
	httpClient *http.Client
	cache      *redis.Client
}

func NewSatelliteService(cfg config.ProviderConfig, cache *redis.Client) *SatelliteService {
	return &SatelliteService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
		cache:      cache,
	}
}

type agroPolygonResponse struct {
	ID string `json:"id"`
}

type agroNDVIPoint struct {
	Dt   int64 `json:"dt"`
	Data struct {
		Mean float64 `json:"mean"`
	} `json:"data"`
}

func (s *SatelliteService) GetIndex(ctx context.Context, lat, lng float64) models.SatelliteSignal {
	signal, err := s.fetchIndex(ctx, lat, lng)
	if err != nil {
		slog.Warn("Satellite NDVI fetch failed, using fallback value",
			"lat", lat, "lng", lng, "error", err)
		return models.SatelliteSignal{
			NDVI:        fallbackNDVI,
			LastUpdated: time.Now(),
			Source:      models.SourceFallback,
		}
	}
	return signal
}

func (s *SatelliteService) fetchIndex(ctx context.Context, lat, lng float64) (models.SatelliteSignal, error) {
	var signal models.SatelliteSignal

	if s.cfg.AgroAPIKey == "" {
		return signal, fmt.Errorf("agro API key not configured")
	}

	polygonID, err := s.ensurePolygon(ctx, lat, lng)
	if err != nil {
		return signal, fmt.Errorf("failed to resolve sampling polygon: %w", err)
	}

	end := time.Now().Unix()
	start := time.Now().AddDate(0, 0, -30).Unix()

	url := fmt.Sprintf("%s/ndvi/history?polyid=%s&start=%d&end=%d&appid=%s",
		s.cfg.AgroBaseURL, polygonID, start, end, s.cfg.AgroAPIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return signal, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return signal, fmt.Errorf("failed to call Agro API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return signal, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return signal, fmt.Errorf("Agro API returned non-200 status: %d, body: %s", resp.StatusCode, string(body))
	}

	var points []agroNDVIPoint
	if err := json.Unmarshal(body, &points); err != nil {
		return signal, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if len(points) == 0 {
		return signal, fmt.Errorf("no NDVI data points returned")
	}

	// Latest reading wins.
	latest := points[0]
	for _, p := range points[1:] {
		if p.Dt > latest.Dt {
			latest = p
		}
	}

	return models.SatelliteSignal{
		NDVI:        latest.Data.Mean,
		LastUpdated: time.Unix(latest.Dt, 0),
		Source:      models.SourceLive,
	}, nil
}

// ensurePolygon returns the Agro API polygon id for the sampling square
// around a coordinate, registering it on first use.
func (s *SatelliteService) ensurePolygon(ctx context.Context, lat, lng float64) (string, error) {
	cacheKey := fmt.Sprintf("satellite:polygon:%.4f:%.4f", lat, lng)

	if s.cache != nil {
		if id, err := s.cache.GetClient().Get(ctx, cacheKey).Result(); err == nil && id != "" {
			return id, nil
		}
	}

	half := samplePolygonSizeDeg / 2
	// GeoJSON expects [lng, lat] and a closed ring.
	ring := [][]float64{
		{lng - half, lat - half},
		{lng + half, lat - half},
		{lng + half, lat + half},
		{lng - half, lat + half},
		{lng - half, lat - half},
	}

	requestBody := map[string]any{
		"name": fmt.Sprintf("claim-sample-%.4f-%.4f", lat, lng),
		"geo_json": map[string]any{
			"type":       "Feature",
			"properties": map[string]any{},
			"geometry": map[string]any{
				"type":        "Polygon",
				"coordinates": [][][]float64{ring},
			},
		},
	}

	payload, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal polygon request: %w", err)
	}

	url := fmt.Sprintf("%s/polygons?appid=%s&duplicated=true", s.cfg.AgroBaseURL, s.cfg.AgroAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Agro API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("Agro API returned non-200 status: %d, body: %s", resp.StatusCode, string(body))
	}

	var polygon agroPolygonResponse
	if err := json.Unmarshal(body, &polygon); err != nil {
		return "", fmt.Errorf("failed to parse JSON: %w", err)
	}
	if polygon.ID == "" {
		return "", fmt.Errorf("polygon id missing in response")
	}

	if s.cache != nil {
		if err := s.cache.GetClient().Set(ctx, cacheKey, polygon.ID, 0).Err(); err != nil {
			slog.Warn("Failed to cache polygon id", "key", cacheKey, "error", err)
		}
	}

	return polygon.ID, nil
}
