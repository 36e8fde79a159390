package main

import (
	"context"
	"log"
	"os"
	"strings"

	"lead-radar/internal/database"
	"lead-radar/internal/genai"
	"lead-radar/internal/ingest"
	"lead-radar/internal/models"
	"lead-radar/internal/reddit"
	"lead-radar/internal/settings"

	"github.com/joho/godotenv"
)

// One-shot ingestion run. Intended to be invoked on a schedule (cron or
// similar); each invocation is one row in the run ledger.

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

	if err := settings.SeedDefaults(database.DB); err != nil {
		log.Fatal("Failed to seed default settings:", err)
	}

	redditConfig := reddit.LoadConfig()
	if missing := redditConfig.Validate(); len(missing) > 0 {
		log.Fatalf("Missing Reddit credentials: %s", strings.Join(missing, ", "))
	}
	collector := reddit.NewClient(redditConfig)

	// Without an API key the run still ingests and rule-checks, it just
	// skips classification and finishes partial.
	var classifier genai.Classifier
	if os.Getenv("OPENAI_API_KEY") != "" {
		client, err := genai.NewClient("")
		if err != nil {
			log.Fatal("Failed to create classification client:", err)
		}
		classifier = client
	} else {
		log.Println("OPENAI_API_KEY not set, classification disabled for this run")
	}

	service := ingest.NewService(database.DB, collector, classifier)
	run, err := service.Run(context.Background())
	if err != nil {
		log.Fatalf("Run %s failed: %v", run.ID, err)
	}

	if run.Status != models.RunStatusSuccess {
		log.Printf("Run %s finished with status %s", run.ID, run.Status)
	}
}
