package catalog

import (
	"time"

	"github.com/codyseavey/tcg-catalog/internal/models"
)

// Snapshot is one complete, immutable load of all three datasets.
// Callers must treat every slice as read-only.
type Snapshot struct {
	Cards      []models.Card
	Slabs      []models.Slab
	ValueLog   []models.ValueLogEntry
	Categories []models.CardCategory
	LoadedAt   time.Time

	buckets map[string][]models.Card
}

// NewSnapshot partitions cards and freezes the datasets into a snapshot
func NewSnapshot(cards []models.Card, slabs []models.Slab, log []models.ValueLogEntry, p *Partitioner, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		Cards:      cards,
		Slabs:      slabs,
		ValueLog:   log,
		Categories: p.Partition(cards),
		LoadedAt:   loadedAt,
		buckets:    make(map[string][]models.Card),
	}
	for _, card := range cards {
		if key := p.BucketFor(card); key != "" {
			s.buckets[key] = append(s.buckets[key], card)
		}
	}
	return s
}

// Category returns a category and its cards
func (s *Snapshot) Category(key string) (models.CardCategory, []models.Card, bool) {
	for _, c := range s.Categories {
		if c.Key == key {
			return c, s.buckets[key], true
		}
	}
	return models.CardCategory{}, nil, false
}

// Stats summarizes listings, stock and market value per category
func (s *Snapshot) Stats() models.CatalogStats {
	stats := models.CatalogStats{Categories: make([]models.CategoryStats, 0, len(s.Categories))}
	for _, c := range s.Categories {
		cs := models.CategoryStats{Label: c.Label, Key: c.Key}
		for _, card := range s.buckets[c.Key] {
			cs.Listings++
			qty := ParseQuantity(card.Quantity)
			if qty <= 0 {
				continue
			}
			cs.InStock++
			cs.TotalQuantity += qty
			cs.MarketValue += CleanPrice(card.MarketPrice) * float64(qty)
		}
		stats.Categories = append(stats.Categories, cs)
		stats.TotalCards += cs.Listings
		stats.TotalQuantity += cs.TotalQuantity
		stats.TotalMarketValue += cs.MarketValue
	}

	stats.TotalSlabs = len(s.Slabs)
	for _, slab := range s.Slabs {
		stats.SlabMarketValue += CleanPrice(slab.RankingPrice())
	}
	return stats
}
