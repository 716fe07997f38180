package catalog

import (
	"cmp"
	"slices"
	"sort"
	"strings"

	"github.com/codyseavey/tcg-catalog/internal/models"
)

// Listing is a record the query engine can filter, sort and page.
// ListingQuantity reports tracked=false for records without stock counts.
type Listing interface {
	ListingName() string
	ListingSet() string
	ListingPrice() string
	ListingQuantity() (qty string, tracked bool)
}

// Item pairs a record with the price it was ranked by
type Item[R Listing] struct {
	Record R       `json:"record"`
	Price  float64 `json:"price"`
}

// Result is one page of a view plus the metadata needed to render its filters
type Result[R Listing] struct {
	Items       []Item[R] `json:"items"`
	TotalCount  int       `json:"total_count"`
	TotalPages  int       `json:"total_pages"`
	CurrentPage int       `json:"current_page"`
	PageSize    int       `json:"page_size"`

	// Extent is the price span of everything left after quantity exclusion,
	// AppliedRange the bounds actually filtered on.
	Extent       models.PriceRange `json:"price_extent"`
	AppliedRange models.PriceRange `json:"applied_range"`
	SinglePrice  bool              `json:"single_price"`
	Sets         []string          `json:"sets"`

	// NoEligibleItems is set when quantity exclusion removed every record,
	// as opposed to the filters matching nothing.
	NoEligibleItems bool `json:"no_eligible_items"`
}

// Query runs the view pipeline over records: quantity exclusion, price
// derivation, extent, set filter, name search, price range, a set-descending
// pre-sort when no set is selected, the stable user sort, and pagination.
// Neither argument is modified.
func Query[R Listing](records []R, spec models.QuerySpec) Result[R] {
	pageSize := spec.PageSize
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	result := Result[R]{
		Items:       []Item[R]{},
		TotalPages:  1,
		CurrentPage: spec.CurrentPage,
		PageSize:    pageSize,
		Sets:        []string{},
	}

	eligible := make([]Item[R], 0, len(records))
	for _, r := range records {
		if qty, tracked := r.ListingQuantity(); tracked && ParseQuantity(qty) <= 0 {
			continue
		}
		eligible = append(eligible, Item[R]{Record: r, Price: CleanPrice(r.ListingPrice())})
	}
	if len(eligible) == 0 {
		result.NoEligibleItems = true
		return result
	}

	result.Extent = priceExtent(eligible)
	result.SinglePrice = result.Extent.Min == result.Extent.Max
	result.Sets = distinctSets(eligible)

	applied := result.Extent
	if spec.PriceRange != nil && !result.SinglePrice {
		applied = *spec.PriceRange
	}
	result.AppliedRange = applied

	selectedSet := spec.SelectedSet
	if selectedSet == "" {
		selectedSet = models.AllSets
	}
	term := strings.ToLower(strings.TrimSpace(spec.SearchTerm))

	filtered := make([]Item[R], 0, len(eligible))
	for _, item := range eligible {
		if selectedSet != models.AllSets && item.Record.ListingSet() != selectedSet {
			continue
		}
		if term != "" {
			name := item.Record.ListingName()
			if name == "" || !strings.Contains(strings.ToLower(name), term) {
				continue
			}
		}
		if !applied.Contains(item.Price) {
			continue
		}
		filtered = append(filtered, item)
	}

	if selectedSet == models.AllSets {
		slices.SortStableFunc(filtered, func(a, b Item[R]) int {
			return strings.Compare(b.Record.ListingSet(), a.Record.ListingSet())
		})
	}
	slices.SortStableFunc(filtered, sortFunc[R](spec.SortMode))

	result.TotalCount = len(filtered)
	result.TotalPages = TotalPages(len(filtered), pageSize)
	result.Items = pageSlice(filtered, spec.CurrentPage, pageSize)
	return result
}

func sortFunc[R Listing](mode models.SortMode) func(a, b Item[R]) int {
	switch mode {
	case models.SortNameDesc:
		return func(a, b Item[R]) int {
			return strings.Compare(b.Record.ListingName(), a.Record.ListingName())
		}
	case models.SortPriceAsc:
		return func(a, b Item[R]) int { return cmp.Compare(a.Price, b.Price) }
	case models.SortPriceDesc:
		return func(a, b Item[R]) int { return cmp.Compare(b.Price, a.Price) }
	default:
		return func(a, b Item[R]) int {
			return strings.Compare(a.Record.ListingName(), b.Record.ListingName())
		}
	}
}

// TotalPages is ceil(count/pageSize), never less than 1
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// pageSlice returns the 1-based page of items. Pages outside the range yield an empty slice.
func pageSlice[T any](items []T, page, pageSize int) []T {
	if page < 1 || page > TotalPages(len(items), pageSize) {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := min(start+pageSize, len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

func priceExtent[R Listing](items []Item[R]) models.PriceRange {
	extent := models.PriceRange{Min: items[0].Price, Max: items[0].Price}
	for _, item := range items[1:] {
		extent.Min = min(extent.Min, item.Price)
		extent.Max = max(extent.Max, item.Price)
	}
	return extent
}

func distinctSets[R Listing](items []Item[R]) []string {
	seen := make(map[string]bool)
	sets := []string{}
	for _, item := range items {
		set := item.Record.ListingSet()
		if strings.TrimSpace(set) == "" || seen[set] {
			continue
		}
		seen[set] = true
		sets = append(sets, set)
	}
	sort.Strings(sets)
	return sets
}

// NextPage returns the page after current, unless current is already the last
func NextPage(current, totalPages int) int {
	if current < totalPages {
		return current + 1
	}
	return current
}

// PrevPage returns the page before current, never going below 1
func PrevPage(current int) int {
	if current > 1 {
		return current - 1
	}
	return current
}
