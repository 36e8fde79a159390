package settings

import (
	"testing"

	"lead-radar/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.AppConfig{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestLoadDefaults(t *testing.T) {
	db := setupTestDB(t)

	cfg := Load(db)

	if len(cfg.Subreddits) != 1 || cfg.Subreddits[0] != "Atlanta" {
		t.Errorf("Expected default subreddit Atlanta, got %v", cfg.Subreddits)
	}
	if !cfg.IncludeUnknownLocation {
		t.Error("Expected unknown locations included by default")
	}
	if cfg.ActiveWindowDays != 5 {
		t.Errorf("Expected 5 day active window, got %d", cfg.ActiveWindowDays)
	}
	if cfg.MaxGenaiEvalsPerThread != 5 {
		t.Errorf("Expected eval budget of 5, got %d", cfg.MaxGenaiEvalsPerThread)
	}
	if cfg.GenaiCooldownMinutes != 120 {
		t.Errorf("Expected 120 minute cooldown, got %d", cfg.GenaiCooldownMinutes)
	}
	if cfg.DeltaMinNewComments != 1 {
		t.Errorf("Expected delta threshold of 1, got %d", cfg.DeltaMinNewComments)
	}
	if cfg.MaxDeltaCommentsSent != 25 {
		t.Errorf("Expected delta cap of 25, got %d", cfg.MaxDeltaCommentsSent)
	}
}

func TestLoadOverlaysStoredValues(t *testing.T) {
	db := setupTestDB(t)

	rows := []models.AppConfig{
		{ConfigKey: "subreddits", ConfigValue: `["Atlanta", "Decatur"]`},
		{ConfigKey: "keywords_include", ConfigValue: `["plumber"]`},
		{ConfigKey: "include_unknown_location", ConfigValue: `false`},
		{ConfigKey: "genai_cooldown_minutes", ConfigValue: `30`},
		{ConfigKey: "business_context", ConfigValue: `{"name": "Peach Plumbing", "service_area": "Atlanta metro"}`},
	}
	for _, row := range rows {
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("Failed to insert config row: %v", err)
		}
	}

	cfg := Load(db)

	if len(cfg.Subreddits) != 2 {
		t.Errorf("Expected 2 subreddits, got %v", cfg.Subreddits)
	}
	if len(cfg.KeywordsInclude) != 1 || cfg.KeywordsInclude[0] != "plumber" {
		t.Errorf("Expected keyword overlay, got %v", cfg.KeywordsInclude)
	}
	if cfg.IncludeUnknownLocation {
		t.Error("Expected include_unknown_location to be overridden to false")
	}
	if cfg.GenaiCooldownMinutes != 30 {
		t.Errorf("Expected 30 minute cooldown, got %d", cfg.GenaiCooldownMinutes)
	}
	if cfg.BusinessContext.Name != "Peach Plumbing" {
		t.Errorf("Expected business context overlay, got %+v", cfg.BusinessContext)
	}
	// Untouched keys keep their defaults.
	if cfg.ActiveWindowDays != 5 {
		t.Errorf("Expected default active window, got %d", cfg.ActiveWindowDays)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	db := setupTestDB(t)

	rows := []models.AppConfig{
		{ConfigKey: "subreddits", ConfigValue: `not json`},
		{ConfigKey: "active_window_days", ConfigValue: `"five"`},
		{ConfigKey: "max_delta_comments_sent", ConfigValue: `-3`},
		{ConfigKey: "some_future_key", ConfigValue: `123`},
	}
	for _, row := range rows {
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("Failed to insert config row: %v", err)
		}
	}

	cfg := Load(db)

	if len(cfg.Subreddits) != 1 || cfg.Subreddits[0] != "Atlanta" {
		t.Errorf("Expected malformed subreddits to fall back, got %v", cfg.Subreddits)
	}
	if cfg.ActiveWindowDays != 5 {
		t.Errorf("Expected malformed window to fall back, got %d", cfg.ActiveWindowDays)
	}
	if cfg.MaxDeltaCommentsSent != 25 {
		t.Errorf("Expected non-positive delta cap to fall back, got %d", cfg.MaxDeltaCommentsSent)
	}
}

func TestSeedDefaults(t *testing.T) {
	db := setupTestDB(t)

	// Pre-existing rows must survive seeding.
	existing := models.AppConfig{ConfigKey: "subreddits", ConfigValue: `["Decatur"]`}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("Failed to insert config row: %v", err)
	}

	if err := SeedDefaults(db); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}

	var count int64
	db.Model(&models.AppConfig{}).Count(&count)
	if count != 14 {
		t.Errorf("Expected 14 config rows, got %d", count)
	}

	cfg := Load(db)
	if len(cfg.Subreddits) != 1 || cfg.Subreddits[0] != "Decatur" {
		t.Errorf("Expected existing row preserved, got %v", cfg.Subreddits)
	}

	// Re-running is a no-op.
	if err := SeedDefaults(db); err != nil {
		t.Fatalf("Second SeedDefaults failed: %v", err)
	}
	db.Model(&models.AppConfig{}).Count(&count)
	if count != 14 {
		t.Errorf("Expected 14 config rows after reseed, got %d", count)
	}
}
