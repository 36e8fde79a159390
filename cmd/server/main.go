package main

import (
	"log"
	"os"

	"lead-radar/internal/database"
	"lead-radar/internal/handlers"
	"lead-radar/internal/settings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load database configuration
	dbConfig := database.LoadConfig()

	// Connect to database
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

	setupServer()
}

func setupServer() {
	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Initialize handlers
	queueHandler := handlers.NewQueueHandler(database.DB)
	reviewHandler := handlers.NewReviewHandler(database.DB)
	docsHandler := handlers.NewDocsHandler()

	// Health check
	r.GET("/health", queueHandler.HealthCheck)

	// Serve Markdown documentation as HTML
	r.GET("/doc/:doc", docsHandler.ServeMarkdownAsHTML)

	// API routes
	api := r.Group("/api")
	{
		queue := api.Group("/queue")
		{
			queue.GET("", queueHandler.GetQueue)
			queue.GET("/:id", queueHandler.GetThreadDetail)
			queue.POST("/:id/draft", reviewHandler.SaveDraft)
			queue.POST("/:id/dismiss", reviewHandler.Dismiss)
			queue.POST("/:id/snooze", reviewHandler.Snooze)
		}

		api.GET("/threads", queueHandler.GetRecentThreads)
		api.GET("/runs", queueHandler.GetRecentRuns)
	}

	// Get port from environment or default to 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
