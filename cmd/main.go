package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"claim-triage-service/internal/ai/gemini"
	"claim-triage-service/internal/config"
	"claim-triage-service/internal/database/minio"
	"claim-triage-service/internal/database/postgres"
	"claim-triage-service/internal/database/redis"
	"claim-triage-service/internal/event"
	"claim-triage-service/internal/handlers"
	"claim-triage-service/internal/repository"
	"claim-triage-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

func setupLogging() (*os.File, error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic: %v\n", r)
		}
	}()

	logDir := filepath.Join("/agrisa", "log", "claim_triage_service")
	fmt.Println("Log directory:", logDir)
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Error setting up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()
	log.Printf("Connecting to PostgreSQL with: host=%s, port=%s, user=%s, dbname=%s",
		cfg.PostgresCfg.Host, cfg.PostgresCfg.Port, cfg.PostgresCfg.Username, cfg.PostgresCfg.DBname)

	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connect to database: %s", err)
		go postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	redisClient, err := redis.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		log.Printf("error connect to redis, ground-truth caching disabled: %s", err)
		redisClient = nil
	}

	minioClient, err := minio.NewMinioClient(cfg.MinioCfg)
	if err != nil {
		log.Printf("error connect to minio, evidence storage disabled: %s", err)
		minioClient = nil
	}

	var publisher *event.DecisionPublisher
	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		log.Printf("error connect to rabbitmq, decision events disabled: %s", err)
	} else {
		defer rabbitConn.Close()
		publisher = event.NewDecisionPublisher(rabbitConn)
	}

	var classifier services.DisasterClassifier
	geminiClient, err := gemini.NewGenAIClient(cfg.GeminiAPICfg.APIKey, cfg.GeminiAPICfg.FlashName, cfg.GeminiAPICfg.ProName)
	if err != nil {
		log.Fatalf("Error creating Gemini client: %v", err)
	}
	selector := gemini.NewGeminiClientSelector([]gemini.GeminiClient{*geminiClient})
	classifier = services.NewLiveClassifier(selector)

	// repositories
	policyRepository := repository.NewPolicyRepository(db)
	claimRepository := repository.NewClaimRepository(db)

	// services
	payoutCalculator := services.NewPayoutCalculator(cfg.TriageCfg.DroughtOnAccountCap)
	weatherService := services.NewWeatherService(cfg.ProviderCfg, redisClient)
	satelliteService := services.NewSatelliteService(cfg.ProviderCfg, redisClient)
	adjudicationService := services.NewAdjudicationService(
		payoutCalculator,
		policyRepository,
		claimRepository,
		weatherService,
		satelliteService,
		classifier,
		minioClient,
		publisher,
		cfg.ProviderCfg.FetchTimeout,
	)

	// handlers
	claimHandler := handlers.NewClaimHandler(adjudicationService, claimRepository)
	policyHandler := handlers.NewPolicyHandler(policyRepository)

	app := fiber.New(fiber.Config{
		BodyLimit: 15 * 1024 * 1024,
	})
	app.Get("/checkhealth", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Claim triage service is healthy")
	})
	claimHandler.Register(app)
	policyHandler.Register(app)

	log.Printf("Starting claim-triage-service on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
