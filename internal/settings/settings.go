// Package settings loads the tunable pipeline configuration from the
// app_config table. Every value has a documented default; a missing or
// malformed row falls back to the default for that key instead of failing
// the run.
package settings

import (
	"encoding/json"
	"fmt"
	"log"

	"lead-radar/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BusinessContext describes the local service business the pipeline is
// monitoring for. It is passed verbatim to the classification service.
type BusinessContext struct {
	Name        string   `json:"name"`
	Services    []string `json:"services"`
	ServiceArea string   `json:"service_area"`
	Tone        string   `json:"tone"`
	BookingURL  string   `json:"booking_url"`
}

// Settings is the typed pipeline configuration, validated once at load
// time rather than coerced field-by-field at each read.
type Settings struct {
	Subreddits       []string `json:"subreddits"`
	KeywordsInclude  []string `json:"keywords_include"`
	KeywordsIntent   []string `json:"keywords_intent"`
	KeywordsNegative []string `json:"keywords_negative"`

	GeoServiceArea  []string       `json:"geo_service_area"`
	GeoOutOfArea    []string       `json:"geo_out_of_area"`
	SubredditGeoMap map[string]any `json:"subreddit_geo_map"` // bool or string per subreddit

	IncludeUnknownLocation bool `json:"include_unknown_location"`
	ActiveWindowDays       int  `json:"active_window_days"`
	MaxGenaiEvalsPerThread int  `json:"max_genai_evals_per_thread"`
	GenaiCooldownMinutes   int  `json:"genai_cooldown_minutes"`
	DeltaMinNewComments    int  `json:"delta_min_new_comments"`
	MaxDeltaCommentsSent   int  `json:"max_delta_comments_sent"`

	BusinessContext BusinessContext `json:"business_context"`
}

// Defaults returns the documented default settings.
func Defaults() Settings {
	return Settings{
		Subreddits:             []string{"Atlanta"},
		KeywordsInclude:        []string{},
		KeywordsIntent:         []string{},
		KeywordsNegative:       []string{},
		GeoServiceArea:         []string{},
		GeoOutOfArea:           []string{},
		SubredditGeoMap:        map[string]any{},
		IncludeUnknownLocation: true,
		ActiveWindowDays:       5,
		MaxGenaiEvalsPerThread: 5,
		GenaiCooldownMinutes:   120,
		DeltaMinNewComments:    1,
		MaxDeltaCommentsSent:   25,
	}
}

// Load reads all settings rows and overlays them on the defaults. Keys
// that fail to parse are logged and ignored.
func Load(db *gorm.DB) Settings {
	s := Defaults()

	var rows []models.AppConfig
	if err := db.Find(&rows).Error; err != nil {
		log.Printf("Failed to read app_config, using defaults: %v", err)
		return s
	}

	for _, row := range rows {
		if err := applyKey(&s, row.ConfigKey, row.ConfigValue); err != nil {
			log.Printf("Ignoring malformed config value for %q: %v", row.ConfigKey, err)
		}
	}

	if s.ActiveWindowDays <= 0 {
		s.ActiveWindowDays = Defaults().ActiveWindowDays
	}
	if s.MaxDeltaCommentsSent <= 0 {
		s.MaxDeltaCommentsSent = Defaults().MaxDeltaCommentsSent
	}

	return s
}

func applyKey(s *Settings, key, raw string) error {
	switch key {
	case "subreddits":
		return parseJSON(raw, &s.Subreddits)
	case "keywords_include":
		return parseJSON(raw, &s.KeywordsInclude)
	case "keywords_intent":
		return parseJSON(raw, &s.KeywordsIntent)
	case "keywords_negative":
		return parseJSON(raw, &s.KeywordsNegative)
	case "geo_service_area":
		return parseJSON(raw, &s.GeoServiceArea)
	case "geo_out_of_area":
		return parseJSON(raw, &s.GeoOutOfArea)
	case "subreddit_geo_map":
		return parseJSON(raw, &s.SubredditGeoMap)
	case "include_unknown_location":
		return parseJSON(raw, &s.IncludeUnknownLocation)
	case "active_window_days":
		return parseJSON(raw, &s.ActiveWindowDays)
	case "max_genai_evals_per_thread":
		return parseJSON(raw, &s.MaxGenaiEvalsPerThread)
	case "genai_cooldown_minutes":
		return parseJSON(raw, &s.GenaiCooldownMinutes)
	case "delta_min_new_comments":
		return parseJSON(raw, &s.DeltaMinNewComments)
	case "max_delta_comments_sent":
		return parseJSON(raw, &s.MaxDeltaCommentsSent)
	case "business_context":
		return parseJSON(raw, &s.BusinessContext)
	}
	// Unknown keys are allowed; older deployments may carry extra rows.
	return nil
}

func parseJSON(raw string, out any) error {
	if raw == "" {
		return fmt.Errorf("empty value")
	}
	return json.Unmarshal([]byte(raw), out)
}

// SeedDefaults writes the default value for every settings key that does
// not already have a row. Existing rows are left untouched.
func SeedDefaults(db *gorm.DB) error {
	d := Defaults()
	values := map[string]any{
		"subreddits":                 d.Subreddits,
		"keywords_include":           d.KeywordsInclude,
		"keywords_intent":            d.KeywordsIntent,
		"keywords_negative":          d.KeywordsNegative,
		"geo_service_area":           d.GeoServiceArea,
		"geo_out_of_area":            d.GeoOutOfArea,
		"subreddit_geo_map":          d.SubredditGeoMap,
		"include_unknown_location":   d.IncludeUnknownLocation,
		"active_window_days":         d.ActiveWindowDays,
		"max_genai_evals_per_thread": d.MaxGenaiEvalsPerThread,
		"genai_cooldown_minutes":     d.GenaiCooldownMinutes,
		"delta_min_new_comments":     d.DeltaMinNewComments,
		"max_delta_comments_sent":    d.MaxDeltaCommentsSent,
		"business_context":           d.BusinessContext,
	}

	for key, value := range values {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode default for %s: %w", key, err)
		}
		row := models.AppConfig{ConfigKey: key, ConfigValue: string(encoded)}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "config_key"}},
			DoNothing: true,
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("failed to seed config key %s: %w", key, err)
		}
	}
	return nil
}
