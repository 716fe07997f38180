package services

import (
	"github.com/codyseavey/tcg-catalog/internal/models"
	"gorm.io/gorm"
)

// RefreshHistory persists refresh attempts. A nil db disables it.
type RefreshHistory struct {
	db *gorm.DB
}

func NewRefreshHistory(db *gorm.DB) *RefreshHistory {
	return &RefreshHistory{db: db}
}

// Record stores one refresh attempt
func (h *RefreshHistory) Record(rec *models.RefreshRecord) error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Create(rec).Error
}

// Latest returns the most recent attempt, or nil when none was recorded
func (h *RefreshHistory) Latest() *models.RefreshRecord {
	if h == nil || h.db == nil {
		return nil
	}
	var rec models.RefreshRecord
	if err := h.db.Order("id DESC").First(&rec).Error; err != nil {
		return nil
	}
	return &rec
}

// Recent returns up to limit attempts, newest first
func (h *RefreshHistory) Recent(limit int) ([]models.RefreshRecord, error) {
	if h == nil || h.db == nil {
		return []models.RefreshRecord{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	var records []models.RefreshRecord
	if err := h.db.Order("id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
