package models

import (
	"time"
)

// AppConfig is one keyed pipeline setting stored as a JSON value. The
// settings package reads these rows and falls back to documented defaults
// for anything missing or malformed.
type AppConfig struct {
	ConfigKey   string `json:"config_key" db:"config_key" gorm:"primaryKey"`
	ConfigValue string `json:"config_value" db:"config_value" gorm:"type:text"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the AppConfig model
func (AppConfig) TableName() string {
	return "app_config"
}
