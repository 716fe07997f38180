package services

import (
	"errors"
	"strings"
	"time"

	"github.com/codyseavey/tcg-catalog/internal/catalog"
	"github.com/codyseavey/tcg-catalog/internal/metrics"
	"github.com/codyseavey/tcg-catalog/internal/models"
)

var ErrUnknownCategory = errors.New("unknown category")

// PageAction moves a view between pages
type PageAction string

const (
	PageNext  PageAction = "next"
	PagePrev  PageAction = "prev"
	PageReset PageAction = "reset"
)

func ParsePageAction(s string) (PageAction, bool) {
	switch a := PageAction(strings.ToLower(strings.TrimSpace(s))); a {
	case PageNext, PagePrev, PageReset:
		return a, true
	}
	return "", false
}

func (a PageAction) apply(current, totalPages int) int {
	switch a {
	case PageNext:
		return catalog.NextPage(current, totalPages)
	case PagePrev:
		return catalog.PrevPage(current)
	default:
		return 1
	}
}

// CardListing is a card on a view page
type CardListing struct {
	models.Card
	Price          float64 `json:"price"`
	ImageAvailable bool    `json:"image_available"`
}

// SlabListing is a slab on a view page
type SlabListing struct {
	models.Slab
	DisplayName    string  `json:"display_name"`
	DisplaySet     string  `json:"display_set"`
	Grade          string  `json:"grade"`
	Price          float64 `json:"price"`
	ImageAvailable bool    `json:"image_available"`
}

// ViewPage carries one page of a view together with its filter metadata
type ViewPage[T any] struct {
	Spec            models.QuerySpec  `json:"spec"`
	Items           []T               `json:"items"`
	TotalCount      int               `json:"total_count"`
	TotalPages      int               `json:"total_pages"`
	CurrentPage     int               `json:"current_page"`
	PageSize        int               `json:"page_size"`
	PageSizeOptions []int             `json:"page_size_options"`
	Sets            []string          `json:"sets"`
	PriceExtent     models.PriceRange `json:"price_extent"`
	AppliedRange    models.PriceRange `json:"applied_range"`
	SinglePrice     bool              `json:"single_price"`
	NoEligibleItems bool              `json:"no_eligible_items"`
}

// CategoryView is a page of a card category
type CategoryView struct {
	Category models.CardCategory `json:"category"`
	ViewPage[CardListing]
}

// CatalogService answers the browsing views from the current snapshot
type CatalogService struct {
	store *SnapshotStore
}

func NewCatalogService(store *SnapshotStore) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) Categories() []models.CardCategory {
	return s.store.Current().Categories
}

// Cards returns every card of the current snapshot in source order
func (s *CatalogService) Cards() []models.Card {
	return s.store.Current().Cards
}

func (s *CatalogService) Stats() models.CatalogStats {
	return s.store.Current().Stats()
}

// CategoryPage applies update to the session's view of a category and returns the resulting page.
// A nil update just re-renders the current state.
func (s *CatalogService) CategoryPage(sess *Session, key string, update func(*models.QuerySpec)) (*CategoryView, error) {
	category, cards, ok := s.store.Current().Category(key)
	if !ok {
		return nil, ErrUnknownCategory
	}
	spec := sess.Update(key, orNoop(update))
	return categoryView(category, cards, spec), nil
}

// PageCategory moves the session's view of a category to another page
func (s *CatalogService) PageCategory(sess *Session, key string, action PageAction) (*CategoryView, error) {
	category, cards, ok := s.store.Current().Category(key)
	if !ok {
		return nil, ErrUnknownCategory
	}
	spec := sess.Update(key, func(q *models.QuerySpec) {
		total := catalog.Query(cards, *q).TotalPages
		q.CurrentPage = action.apply(q.CurrentPage, total)
	})
	return categoryView(category, cards, spec), nil
}

// SlabPage applies update to the session's slabs view and returns the resulting page
func (s *CatalogService) SlabPage(sess *Session, update func(*models.QuerySpec)) *ViewPage[SlabListing] {
	slabs := s.store.Current().Slabs
	spec := sess.UpdateSlabs(orNoop(update))
	return slabView(slabs, spec)
}

// PageSlabs moves the session's slabs view to another page
func (s *CatalogService) PageSlabs(sess *Session, action PageAction) *ViewPage[SlabListing] {
	slabs := s.store.Current().Slabs
	spec := sess.UpdateSlabs(func(q *models.QuerySpec) {
		total := catalog.Query(slabs, *q).TotalPages
		q.CurrentPage = action.apply(q.CurrentPage, total)
	})
	return slabView(slabs, spec)
}

// Tracking returns the per-type value series for the selected types; none selected means all
func (s *CatalogService) Tracking(selected []string) models.ValueHistoryResponse {
	valueLog := s.store.Current().ValueLog
	ts := catalog.Aggregate(valueLog, selected)
	return models.ValueHistoryResponse{
		AvailableTypes: catalog.AvailableTypes(valueLog),
		SelectedTypes:  ts.Types,
		Series:         ts.Series,
		CardValues:     ts.CardValues(),
		SlabValues:     ts.SlabValues(),
	}
}

func categoryView(category models.CardCategory, cards []models.Card, spec models.QuerySpec) *CategoryView {
	start := time.Now()
	result := catalog.Query(cards, spec)
	metrics.QueryDuration.WithLabelValues("category").Observe(time.Since(start).Seconds())

	items := make([]CardListing, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, CardListing{
			Card:           it.Record,
			Price:          it.Price,
			ImageAvailable: it.Record.ImageAvailable(),
		})
	}
	return &CategoryView{Category: category, ViewPage: newViewPage(spec, result, items)}
}

func slabView(slabs []models.Slab, spec models.QuerySpec) *ViewPage[SlabListing] {
	start := time.Now()
	result := catalog.Query(slabs, spec)
	metrics.QueryDuration.WithLabelValues("slabs").Observe(time.Since(start).Seconds())

	items := make([]SlabListing, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, SlabListing{
			Slab:           it.Record,
			DisplayName:    it.Record.DisplayName(),
			DisplaySet:     it.Record.DisplaySet(),
			Grade:          it.Record.Grade(),
			Price:          it.Price,
			ImageAvailable: it.Record.ImageAvailable(),
		})
	}
	page := newViewPage(spec, result, items)
	return &page
}

func newViewPage[R catalog.Listing, T any](spec models.QuerySpec, result catalog.Result[R], items []T) ViewPage[T] {
	return ViewPage[T]{
		Spec:            spec,
		Items:           items,
		TotalCount:      result.TotalCount,
		TotalPages:      result.TotalPages,
		CurrentPage:     result.CurrentPage,
		PageSize:        result.PageSize,
		PageSizeOptions: models.PageSizeOptions,
		Sets:            nonNil(result.Sets),
		PriceExtent:     result.Extent,
		AppliedRange:    result.AppliedRange,
		SinglePrice:     result.SinglePrice,
		NoEligibleItems: result.NoEligibleItems,
	}
}

func orNoop(fn func(*models.QuerySpec)) func(*models.QuerySpec) {
	if fn == nil {
		return func(*models.QuerySpec) {}
	}
	return fn
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
