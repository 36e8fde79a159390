package main

import (
	"log"
	"strings"

	"lead-radar/internal/cleanup"
	"lead-radar/internal/database"
	"lead-radar/internal/reddit"

	"github.com/joho/godotenv"
)

// Compliance cleanup: hard-deletes locally stored threads and comments
// whose content has been deleted or removed at the source. Run on a
// schedule.

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

	redditConfig := reddit.LoadConfig()
	if missing := redditConfig.Validate(); len(missing) > 0 {
		log.Fatalf("Missing Reddit credentials: %s", strings.Join(missing, ", "))
	}
	checker := reddit.NewClient(redditConfig)

	service := cleanup.NewService(database.DB, checker)
	stats, err := service.Run()
	if err != nil {
		log.Fatal("Cleanup failed:", err)
	}

	log.Printf("Cleanup finished: %d threads checked (%d purged), %d comments checked (%d purged), %d errors",
		stats.ThreadsChecked, stats.ThreadsPurged, stats.CommentsChecked, stats.CommentsPurged, stats.Errors)
}
