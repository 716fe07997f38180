package models

import "strings"

// DefaultCardType is assigned when a cards source has no mappable category column
const DefaultCardType = "Other"

// ImagePending is the placeholder the sheets use while an image is still being generated
const ImagePending = "loading..."

// Card is one row of the cards sheet after column normalization.
// Price and quantity fields are kept exactly as the source gave them.
type Card struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Set         string `json:"set"`
	Type        string `json:"type"`
	Condition   string `json:"condition"`
	SellPrice   string `json:"sell_price"`
	MarketPrice string `json:"market_price"`
	ImageURL    string `json:"image_url"`
	Quantity    string `json:"quantity"`
}

// ImageAvailable reports whether the card has a usable image link
func (c Card) ImageAvailable() bool {
	return imageAvailable(c.ImageURL)
}

func imageAvailable(url string) bool {
	url = strings.TrimSpace(url)
	return url != "" && !strings.EqualFold(url, ImagePending)
}

// CardCategory is one browsable bucket of cards
type CardCategory struct {
	Label string `json:"label"`
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// CategoryStats summarizes one category for the stats endpoint
type CategoryStats struct {
	Label         string  `json:"label"`
	Key           string  `json:"key"`
	Listings      int     `json:"listings"`
	InStock       int     `json:"in_stock"`
	TotalQuantity int     `json:"total_quantity"`
	MarketValue   float64 `json:"market_value"`
}

// CatalogStats is the response body of the stats endpoint
type CatalogStats struct {
	Categories       []CategoryStats `json:"categories"`
	TotalCards       int             `json:"total_cards"`
	TotalQuantity    int             `json:"total_quantity"`
	TotalMarketValue float64         `json:"total_market_value"`
	TotalSlabs       int             `json:"total_slabs"`
	SlabMarketValue  float64         `json:"slab_market_value"`
}

// ListingName, ListingSet, ListingPrice and ListingQuantity expose a card to the query engine.
// Cards are ranked by market price and carry a stock quantity.
func (c Card) ListingName() string { return c.Name }

func (c Card) ListingSet() string { return c.Set }

func (c Card) ListingPrice() string { return c.MarketPrice }

func (c Card) ListingQuantity() (string, bool) { return c.Quantity, true }
