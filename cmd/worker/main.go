package main

import (
	"log"

	"storefront-service/internal/config"
	"storefront-service/internal/consumers"
	"storefront-service/internal/database"
	"storefront-service/internal/services"
	"storefront-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect DB
	database.Connect(cfg.DB)
	db := database.DB

	// Processor
	processor := consumers.NewAffiliateProcessor(
		services.NewCommissionService(db, cfg.Affiliate),
		services.NewNotificationService(db, cfg.NotificationWebhookURL),
	)

	// Redis
	redisOpt, err := worker.RedisOpt(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}

	log.Println("Starting Asynq Worker...")
	worker.StartWorker(redisOpt, processor)
}
