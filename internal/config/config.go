package config

import (
	"os"
	"strconv"
	"time"
)

type TriageServiceConfig struct {
	Port         string
	PostgresCfg  PostgresConfig
	RedisCfg     RedisConfig
	MinioCfg     MinioConfig
	RabbitMQCfg  RabbitMQConfig
	GeminiAPICfg GeminiAPIConfig
	ProviderCfg  ProviderConfig
	TriageCfg    TriageConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MinioConfig struct {
	MinioURL         string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioLocation    string
	MinioSecure      string
	MinioResourceURL string
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type GeminiAPIConfig struct {
	APIKey    string
	FlashName string
	ProName   string
}

// ProviderConfig holds the ground-truth provider settings. Fetches that blow
// the timeout degrade to the documented fallback values, they never block a
// claim.
type ProviderConfig struct {
	OpenMeteoBaseURL string
	AgroAPIKey       string
	AgroBaseURL      string
	FetchTimeout     time.Duration
	CacheTTL         time.Duration
}

// TriageConfig holds the adjudication rule switches.
//
// DroughtOnAccountCap enables the Clause 15.5 on-account payment cap: drought
// payouts are limited to 25% of sum insured pending final yield-loss data.
// Whether to run with the cap is a product decision, so it ships as a switch
// with the full-payout behavior as the default.
type TriageConfig struct {
	DroughtOnAccountCap bool
}

func New() *TriageServiceConfig {
	return &TriageServiceConfig{
		Port: getEnvOrDefault("PORT", "8086"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "claim_triage"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		MinioCfg: MinioConfig{
			MinioURL:         getEnvOrDefault("MINIO_ENDPOINT", "http://localhost:9407"),
			MinioAccessKey:   getEnvOrDefault("MINIO_ACCESS_KEY", "minio"),
			MinioSecretKey:   getEnvOrDefault("MINIO_SECRET_KEY", "minio123"),
			MinioLocation:    getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			MinioSecure:      getEnvOrDefault("MINIO_SECURE", "false"),
			MinioResourceURL: getEnvOrDefault("MINIO_RESOURCE_URL", "http://localhost:9407/"),
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		GeminiAPICfg: GeminiAPIConfig{
			APIKey:    getEnvOrDefault("GEMINI_KEY", ""),
			FlashName: getEnvOrDefault("GEMINI_FLASH_MODEL", "gemini-2.5-flash"),
			ProName:   getEnvOrDefault("GEMINI_PRO_MODEL", "gemini-2.5-pro"),
		},
		ProviderCfg: ProviderConfig{
			OpenMeteoBaseURL: getEnvOrDefault("OPEN_METEO_BASE_URL", "https://api.open-meteo.com/v1"),
			AgroAPIKey:       getEnvOrDefault("AGRO_API_KEY", ""),
			AgroBaseURL:      getEnvOrDefault("AGRO_BASE_URL", "http://api.agromonitoring.com/agro/1.0"),
			FetchTimeout:     getEnvDuration("GROUND_TRUTH_TIMEOUT", 10*time.Second),
			CacheTTL:         getEnvDuration("GROUND_TRUTH_CACHE_TTL", 30*time.Minute),
		},
		TriageCfg: TriageConfig{
			DroughtOnAccountCap: getEnvBool("DROUGHT_ON_ACCOUNT_CAP", false),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
