package store

import (
	"fmt"

	"lead-radar/internal/models"
)

// ListRecentRuns returns the most recent ingestion runs, newest first.
func (s *Service) ListRecentRuns(limit int) ([]models.Run, error) {
	var runs []models.Run
	err := s.db.
		Order("started_utc DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent runs: %w", err)
	}
	return runs, nil
}
