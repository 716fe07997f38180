package catalog

import (
	"sort"
	"strings"

	"github.com/codyseavey/tcg-catalog/internal/models"
)

// TimeSeries is the value log grouped by type, each series in source order
type TimeSeries struct {
	Types  []string
	Series map[string][]models.ValuePoint
}

// Aggregate groups log entries by type. Only types in selected are kept;
// an empty selection keeps every type. The log is not re-sorted.
func Aggregate(log []models.ValueLogEntry, selected []string) TimeSeries {
	wanted := make(map[string]bool, len(selected))
	for _, t := range selected {
		if t = strings.TrimSpace(t); t != "" {
			wanted[t] = true
		}
	}

	ts := TimeSeries{Types: []string{}, Series: make(map[string][]models.ValuePoint)}
	for _, entry := range log {
		if len(wanted) > 0 && !wanted[entry.Type] {
			continue
		}
		if _, ok := ts.Series[entry.Type]; !ok {
			ts.Types = append(ts.Types, entry.Type)
		}
		ts.Series[entry.Type] = append(ts.Series[entry.Type], models.ValuePoint{
			Time:      entry.Time,
			CardValue: entry.CardValue,
			SlabValue: entry.SlabValue,
		})
	}
	return ts
}

// CardValues projects the card-value series
func (ts TimeSeries) CardValues() map[string][]models.ValueSample {
	return ts.project(func(p models.ValuePoint) float64 { return p.CardValue })
}

// SlabValues projects the slab-value series
func (ts TimeSeries) SlabValues() map[string][]models.ValueSample {
	return ts.project(func(p models.ValuePoint) float64 { return p.SlabValue })
}

func (ts TimeSeries) project(value func(models.ValuePoint) float64) map[string][]models.ValueSample {
	out := make(map[string][]models.ValueSample, len(ts.Series))
	for typ, points := range ts.Series {
		samples := make([]models.ValueSample, len(points))
		for i, p := range points {
			samples[i] = models.ValueSample{Time: p.Time, Value: value(p)}
		}
		out[typ] = samples
	}
	return out
}

// AvailableTypes returns the distinct types of the log, sorted
func AvailableTypes(log []models.ValueLogEntry) []string {
	seen := make(map[string]bool)
	types := []string{}
	for _, entry := range log {
		if seen[entry.Type] {
			continue
		}
		seen[entry.Type] = true
		types = append(types, entry.Type)
	}
	sort.Strings(types)
	return types
}
