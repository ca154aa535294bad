package services

import (
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

// Documented fallback values substituted when the weather feed is degraded.
// The fallback is tagged so downstream consistency checks know to stand down.
const (
	fallbackRainSum7Days = 0.0
	fallbackMaxTemp7Days = 30.0
)

type IWeatherService interface {
	// GetHistory resolves the trailing 7-day weather history for a
	// coordinate. Never returns an error: upstream failure degrades to the
	// documented fallback signal.
	GetHistory(ctx context.Context, lat, lng float64) models.WeatherSignal
}

// WeatherService fetches historical weather from the Open-Meteo forecast API.
// The forecast endpoint with past_days=7 provides modeled history for the
// immediate past; the archive API lags by 5 days, which is too stale for
// fresh claims.
type WeatherService struct {
	cfg        config.ProviderConfig
	httpClient *http.Client
	cache      *redis.Client
}

func NewWeatherService(cfg config.ProviderConfig, cache *redis.Client) *WeatherService {
	return &WeatherService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
		cache:      cache,
	}
}

type openMeteoDailyResponse struct {
	Daily struct {
		Temperature2mMax []float64 `json:"temperature_2m_max"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

func (w *WeatherService) GetHistory(ctx context.Context, lat, lng float64) models.WeatherSignal {
	cacheKey := fmt.Sprintf("weather:history:%.4f:%.4f", lat, lng)

	if cached, ok := w.fromCache(ctx, cacheKey); ok {
		return cached
	}

	signal, err := w.fetchHistory(ctx, lat, lng)
	if err != nil {
		slog.Warn("Weather history fetch failed, using fallback values",
			"lat", lat, "lng", lng, "error", err)
		return models.WeatherSignal{
			RainSum7Days: fallbackRainSum7Days,
			MaxTemp7Days: fallbackMaxTemp7Days,
			Source:       models.SourceFallback,
		}
	}

	w.toCache(ctx, cacheKey, signal)
	return signal
}

func (w *WeatherService) fetchHistory(ctx context.Context, lat, lng float64) (models.WeatherSignal, error) {
	var signal models.WeatherSignal

	// past_days=7 returns the past days first, forecast days after.
	url := fmt.Sprintf("%s/forecast?latitude=%f&longitude=%f&daily=temperature_2m_max,precipitation_sum&past_days=7&timezone=auto",
		w.cfg.OpenMeteoBaseURL, lat, lng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return signal, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return signal, fmt.Errorf("failed to call Open-Meteo API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return signal, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return signal, fmt.Errorf("Open-Meteo returned non-200 status: %d, body: %s", resp.StatusCode, string(body))
	}

	var data openMeteoDailyResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return signal, fmt.Errorf("failed to parse JSON: %w", err)
	}

	rains := data.Daily.PrecipitationSum
	temps := data.Daily.Temperature2mMax
	if len(rains) == 0 || len(temps) == 0 {
		return signal, fmt.Errorf("weather data unavailable")
	}

	// Only the trailing 7 past days, excluding forecast days.
	if len(rains) > 7 {
		rains = rains[:7]
	}
	if len(temps) > 7 {
		temps = temps[:7]
	}

	var rainSum float64
	for _, r := range rains {
		rainSum += r
	}

	maxTemp := temps[0]
	for _, t := range temps[1:] {
		if t > maxTemp {
			maxTemp = t
		}
	}

	return models.WeatherSignal{
		RainSum7Days: rainSum,
		MaxTemp7Days: maxTemp,
		Source:       models.SourceLive,
	}, nil
}

func (w *WeatherService) fromCache(ctx context.Context, key string) (models.WeatherSignal, bool) {
	var signal models.WeatherSignal
	if w.cache == nil {
		return signal, false
	}

	raw, err := w.cache.GetClient().Get(ctx, key).Result()
	if err != nil {
		return signal, false
	}
	if err := json.Unmarshal([]byte(raw), &signal); err != nil {
		return signal, false
	}
	return signal, true
}

func (w *WeatherService) toCache(ctx context.Context, key string, signal models.WeatherSignal) {
	if w.cache == nil {
		return
	}

	raw, err := json.Marshal(signal)
	if err != nil {
		return
	}

	ttl := w.cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if err := w.cache.GetClient().Set(ctx, key, raw, ttl).Err(); err != nil {
		slog.Warn("Failed to cache weather signal", "key", key, "error", err)
	}
}
