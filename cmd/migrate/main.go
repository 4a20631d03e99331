package main

import (
	"log"

	"storefront-service/internal/config"
	"storefront-service/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Database
	database.Connect(cfg.DB)

	// Run Migrations
	log.Println("Running database migrations...")
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully!")
}
