package models

import (
	"time"
)

// RefreshRecord stores the outcome of one dataset refresh attempt
type RefreshRecord struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	StartedAt  time.Time `json:"started_at" gorm:"index;not null"`
	DurationMS int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	Trigger    string    `json:"trigger"` // "startup", "manual", "scheduled"
	Cards      int       `json:"cards"`
	Slabs      int       `json:"slabs"`
	LogEntries int       `json:"log_entries"`
	Categories int       `json:"categories"`
}

// RefreshStatus is the API response for the refresh status endpoint
type RefreshStatus struct {
	LoadedAt   *time.Time     `json:"loaded_at"`
	Cards      int            `json:"cards"`
	Slabs      int            `json:"slabs"`
	LogEntries int            `json:"log_entries"`
	Last       *RefreshRecord `json:"last,omitempty"`
}
