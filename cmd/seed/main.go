package main

import (
	"log"

	"lead-radar/internal/database"
	"lead-radar/internal/settings"

	"github.com/joho/godotenv"
)

// Seeds the app_config table with the default monitoring configuration.
// Existing keys are left untouched, so this is safe to re-run.

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Seeding default configuration...")
	if err := settings.SeedDefaults(database.DB); err != nil {
		log.Fatal("Failed to seed default settings:", err)
	}

	cfg := settings.Load(database.DB)
	log.Printf("Monitoring subreddits: %v", cfg.Subreddits)
	log.Printf("Keywords: %d, intent phrases: %d, negative terms: %d",
		len(cfg.KeywordsInclude), len(cfg.KeywordsIntent), len(cfg.KeywordsNegative))
	log.Println("Seeding complete")
}
