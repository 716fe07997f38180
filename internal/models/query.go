package models

import "strings"

// AllSets is the set filter value that disables set filtering
const AllSets = "All"

// DefaultPageSize matches the smallest "results per page" option
const DefaultPageSize = 9

// PageSizeOptions are the page sizes a view may select
var PageSizeOptions = []int{9, 45, 99}

// SortMode is the user-chosen ordering of a view
type SortMode string

const (
	SortNameAsc   SortMode = "name_asc"
	SortNameDesc  SortMode = "name_desc"
	SortPriceAsc  SortMode = "price_asc"
	SortPriceDesc SortMode = "price_desc"
)

// ParseSortMode maps a query parameter to a SortMode. Unknown values fall back to NameAsc.
func ParseSortMode(s string) SortMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name_desc", "name (z-a)", "z-a":
		return SortNameDesc
	case "price_asc", "price low→high", "low-high":
		return SortPriceAsc
	case "price_desc", "price high→low", "high-low":
		return SortPriceDesc
	default:
		return SortNameAsc
	}
}

// PriceRange is an inclusive [Min, Max] price bound
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether p lies within the range, both ends inclusive
func (r PriceRange) Contains(p float64) bool {
	return r.Min <= p && p <= r.Max
}

// QuerySpec is the filter, sort and page state of one category view.
// PriceRange is nil until the user narrows it, which means "the full extent".
type QuerySpec struct {
	CategoryKey string      `json:"category_key"`
	SelectedSet string      `json:"selected_set"`
	SearchTerm  string      `json:"search_term"`
	SortMode    SortMode    `json:"sort_mode"`
	PriceRange  *PriceRange `json:"price_range,omitempty"`
	PageSize    int         `json:"page_size"`
	CurrentPage int         `json:"current_page"`
}

// NewQuerySpec returns the initial state of a view
func NewQuerySpec(categoryKey string, pageSize int) *QuerySpec {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &QuerySpec{
		CategoryKey: categoryKey,
		SelectedSet: AllSets,
		SortMode:    SortNameAsc,
		PageSize:    pageSize,
		CurrentPage: 1,
	}
}
