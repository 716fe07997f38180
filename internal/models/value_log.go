package models

import (
	"time"
)

// ValueLogEntry is one row of the value tracking sheet
type ValueLogEntry struct {
	Time      time.Time `json:"time"`
	Type      string    `json:"type"`
	CardValue float64   `json:"card_value"`
	SlabValue float64   `json:"slab_value"`
}

// ValuePoint is one sample of a per-type series
type ValuePoint struct {
	Time      time.Time `json:"time"`
	CardValue float64   `json:"card_value"`
	SlabValue float64   `json:"slab_value"`
}

// ValueSample is a single projected value for charting
type ValueSample struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// ValueHistoryResponse is the API response for the tracking view
type ValueHistoryResponse struct {
	AvailableTypes []string                 `json:"available_types"`
	SelectedTypes  []string                 `json:"selected_types"`
	Series         map[string][]ValuePoint  `json:"series"`
	CardValues     map[string][]ValueSample `json:"card_values"`
	SlabValues     map[string][]ValueSample `json:"slab_values"`
}
