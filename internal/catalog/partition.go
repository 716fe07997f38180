package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/codyseavey/tcg-catalog/internal/models"
)

// DefaultPriorityCategories are listed first, in this order, with this spelling
var DefaultPriorityCategories = []string{"Pokemon", "One Piece", "Magic the Gathering"}

// Partitioner buckets cards by type and orders the resulting categories
type Partitioner struct {
	priority []string
}

// NewPartitioner creates a partitioner with the given priority list.
// An empty list uses DefaultPriorityCategories.
func NewPartitioner(priority []string) *Partitioner {
	var cleaned []string
	for _, p := range priority {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultPriorityCategories...)
	}
	return &Partitioner{priority: cleaned}
}

// Priority returns the configured priority labels
func (p *Partitioner) Priority() []string {
	return append([]string(nil), p.priority...)
}

// TitleCase title-cases a category for display ("MTG-misnamed" -> "Mtg-Misnamed")
func TitleCase(s string) string {
	// Casers are stateful, so one is built per call
	return cases.Title(language.Und).String(s)
}

// CategoryKey derives the bucket key of a display label
func CategoryKey(label string) string {
	return strings.ToLower(label)
}

// LabelFor returns the display label for a raw type value
func (p *Partitioner) LabelFor(rawType string) string {
	rawType = strings.TrimSpace(rawType)
	for _, canon := range p.priority {
		if strings.EqualFold(canon, rawType) {
			return canon
		}
	}
	return TitleCase(rawType)
}

// BucketFor returns the bucket key of a card, or "" for a card with a blank type
func (p *Partitioner) BucketFor(card models.Card) string {
	if strings.TrimSpace(card.Type) == "" {
		return ""
	}
	return CategoryKey(p.LabelFor(card.Type))
}

// Partition returns the categories present in cards: priority matches in
// priority order, then every other type title-cased and sorted ascending.
// Count is the number of cards in each bucket.
func (p *Partitioner) Partition(cards []models.Card) []models.CardCategory {
	counts := make(map[string]int)
	present := make(map[string]bool)
	var remaining []string

	for _, card := range cards {
		key := p.BucketFor(card)
		if key == "" {
			continue
		}
		counts[key]++
		if present[key] {
			continue
		}
		present[key] = true
		if !p.isPriority(card.Type) {
			remaining = append(remaining, p.LabelFor(card.Type))
		}
	}

	categories := make([]models.CardCategory, 0, len(present))
	for _, canon := range p.priority {
		key := CategoryKey(canon)
		if present[key] {
			categories = append(categories, models.CardCategory{Label: canon, Key: key, Count: counts[key]})
		}
	}

	sort.Strings(remaining)
	for _, label := range remaining {
		key := CategoryKey(label)
		categories = append(categories, models.CardCategory{Label: label, Key: key, Count: counts[key]})
	}
	return categories
}

func (p *Partitioner) isPriority(rawType string) bool {
	rawType = strings.TrimSpace(rawType)
	for _, canon := range p.priority {
		if strings.EqualFold(canon, rawType) {
			return true
		}
	}
	return false
}
