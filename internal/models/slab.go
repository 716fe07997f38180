package models

// SlabVariant identifies which column layout a slabs sheet used
type SlabVariant string

const (
	// SlabVariantSimple is the (name, set, psa grade, sell, market, image) layout
	SlabVariantSimple SlabVariant = "simple"
	// SlabVariantCert is the PSA export layout keyed by certificate number
	SlabVariantCert SlabVariant = "cert"
)

// Slab is a graded card. Only the fields of its variant are populated.
type Slab struct {
	Variant SlabVariant `json:"variant"`

	// Simple layout
	Name        string `json:"name,omitempty"`
	Set         string `json:"set,omitempty"`
	PSAGrade    string `json:"psa_grade,omitempty"`
	MarketPrice string `json:"market_price,omitempty"`

	// Cert layout
	CertNumber string `json:"cert_number,omitempty"`
	Category   string `json:"category,omitempty"`
	CardNumber string `json:"card_number,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Variety    string `json:"variety,omitempty"`
	CardGrade  string `json:"card_grade,omitempty"`
	Price      string `json:"price,omitempty"`
	RawPrice   string `json:"raw_price,omitempty"`

	// Shared
	SellPrice string `json:"sell_price"`
	ImageURL  string `json:"image_url"`

	CleanedSellPrice   float64 `json:"cleaned_sell_price"`
	CleanedMarketPrice float64 `json:"cleaned_market_price,omitempty"`
	CleanedPrice       float64 `json:"cleaned_price,omitempty"`
}

// DisplayName is the title shown on a slab tile
func (s Slab) DisplayName() string {
	if s.Variant == SlabVariantCert {
		return s.Subject
	}
	return s.Name
}

// DisplaySet is the value the set filter applies to
func (s Slab) DisplaySet() string {
	if s.Variant == SlabVariantCert {
		return s.Category
	}
	return s.Set
}

// RankingPrice is the raw price the slab view filters and sorts on
func (s Slab) RankingPrice() string {
	if s.Variant == SlabVariantCert {
		return s.Price
	}
	return s.MarketPrice
}

// Grade returns the grade for either layout
func (s Slab) Grade() string {
	if s.Variant == SlabVariantCert {
		return s.CardGrade
	}
	return s.PSAGrade
}

// ImageAvailable reports whether the slab has a usable image link
func (s Slab) ImageAvailable() bool {
	return imageAvailable(s.ImageURL)
}

// ListingName, ListingSet, ListingPrice and ListingQuantity expose a slab to the query engine.
// Slabs are single graded copies, so they have no quantity to exclude on.
func (s Slab) ListingName() string { return s.DisplayName() }

func (s Slab) ListingSet() string { return s.DisplaySet() }

func (s Slab) ListingPrice() string { return s.RankingPrice() }

func (s Slab) ListingQuantity() (string, bool) { return "", false }
