package catalog

import (
	"errors"
	"sort"
	"strings"

	"github.com/codyseavey/tcg-catalog/internal/models"
)

// DatasetKind selects the canonical schema a sheet is normalized into
type DatasetKind string

const (
	KindCards    DatasetKind = "cards"
	KindSlabs    DatasetKind = "slabs"
	KindValueLog DatasetKind = "value_log"
)

// ErrMissingTimeColumn is returned when a value log has no time column
var ErrMissingTimeColumn = errors.New("value log has no time column")

// AliasTable maps lower-cased, trimmed source column names to canonical field names
type AliasTable map[string]string

// CardAliases covers the column names seen across the cards sheets
var CardAliases = AliasTable{
	"item no":      "id",
	"item_no":      "id",
	"id":           "id",
	"name":         "name",
	"card name":    "name",
	"set":          "set",
	"set name":     "set",
	"type":         "type",
	"category":     "type",
	"card type":    "type",
	"game":         "type",
	"condition":    "condition",
	"sell price":   "sell_price",
	"market price": "market_price",
	"image link":   "image_url",
	"image_link":   "image_url",
	"image url":    "image_url",
	"image":        "image_url",
	"quantity":     "quantity",
	"qty":          "quantity",
}

// SlabAliases covers both slab layouts
var SlabAliases = AliasTable{
	"name":         "name",
	"set":          "set",
	"psa grade":    "psa_grade",
	"sell price":   "sell_price",
	"market price": "market_price",
	"image link":   "image_url",
	"image_link":   "image_url",
	"image url":    "image_url",
	"cert number":  "cert_number",
	"certnumber":   "cert_number",
	"cert":         "cert_number",
	"category":     "category",
	"card number":  "card_number",
	"subject":      "subject",
	"variety":      "variety",
	"card grade":   "card_grade",
	"grade":        "card_grade",
	"price":        "price",
	"raw price":    "raw_price",
}

// ValueLogAliases covers the tracking sheet
var ValueLogAliases = AliasTable{
	"time":       "time",
	"date":       "time",
	"timestamp":  "time",
	"type":       "type",
	"card value": "card_value",
	"slab value": "slab_value",
}

// AliasesFor returns the built-in alias table of a dataset kind
func AliasesFor(kind DatasetKind) AliasTable {
	switch kind {
	case KindCards:
		return CardAliases
	case KindSlabs:
		return SlabAliases
	case KindValueLog:
		return ValueLogAliases
	default:
		return AliasTable{}
	}
}

// CanonicalRow is a sheet row keyed by canonical field name
type CanonicalRow map[string]string

// Has reports whether the row carries the field at all
func (r CanonicalRow) Has(field string) bool {
	_, ok := r[field]
	return ok
}

func canonicalName(column string, aliases AliasTable) string {
	name := strings.ToLower(strings.TrimSpace(column))
	if canon, ok := aliases[name]; ok {
		return canon
	}
	return name
}

// Normalize maps one raw row to canonical field names. Unknown columns pass
// through under their lower-cased name. When two columns land on the same
// field, the one whose raw name sorts first wins.
func Normalize(raw map[string]string, kind DatasetKind, aliases AliasTable) CanonicalRow {
	columns := make([]string, 0, len(raw))
	for col := range raw {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	row := make(CanonicalRow, len(raw)+2)
	for _, col := range columns {
		name := canonicalName(col, aliases)
		if name == "" || row.Has(name) {
			continue
		}
		row[name] = raw[col]
	}
	applyDefaults(row, kind)
	return row
}

func applyDefaults(row CanonicalRow, kind DatasetKind) {
	if kind != KindCards {
		return
	}
	if !row.Has("type") {
		row["type"] = models.DefaultCardType
	}
	if !row.Has("quantity") {
		row["quantity"] = ""
	}
}

// CanonicalHeader maps every header column to its canonical field once per
// ingestion. Blank and duplicate targets map to "" and are skipped; the
// leftmost column wins.
func CanonicalHeader(header []string, aliases AliasTable) []string {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, col := range header {
		name := canonicalName(col, aliases)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

// NormalizeTable normalizes every row of a sheet
func NormalizeTable(t Table, kind DatasetKind, aliases AliasTable) []CanonicalRow {
	fields := CanonicalHeader(t.Header, aliases)
	rows := make([]CanonicalRow, 0, len(t.Rows))
	for _, record := range t.Rows {
		row := make(CanonicalRow, len(fields)+2)
		for i, field := range fields {
			if field == "" {
				continue
			}
			if i < len(record) {
				row[field] = record[i]
			} else {
				row[field] = ""
			}
		}
		applyDefaults(row, kind)
		rows = append(rows, row)
	}
	return rows
}

// CardFromRow builds a Card from a normalized row
func CardFromRow(row CanonicalRow) models.Card {
	return models.Card{
		ID:          strings.TrimSpace(row["id"]),
		Name:        strings.TrimSpace(row["name"]),
		Set:         strings.TrimSpace(row["set"]),
		Type:        row["type"],
		Condition:   strings.TrimSpace(row["condition"]),
		SellPrice:   row["sell_price"],
		MarketPrice: row["market_price"],
		ImageURL:    strings.TrimSpace(row["image_url"]),
		Quantity:    row["quantity"],
	}
}

// DetectSlabVariant picks the slab layout from the canonical header
func DetectSlabVariant(fields []string) models.SlabVariant {
	for _, f := range fields {
		if f == "cert_number" {
			return models.SlabVariantCert
		}
	}
	return models.SlabVariantSimple
}

// SlabFromRow builds a Slab of the given layout and derives its cleaned prices
func SlabFromRow(row CanonicalRow, variant models.SlabVariant) models.Slab {
	slab := models.Slab{
		Variant:   variant,
		SellPrice: row["sell_price"],
		ImageURL:  strings.TrimSpace(row["image_url"]),
	}
	slab.CleanedSellPrice = CleanPrice(slab.SellPrice)

	if variant == models.SlabVariantCert {
		slab.CertNumber = strings.TrimSpace(row["cert_number"])
		slab.Category = strings.TrimSpace(row["category"])
		slab.CardNumber = strings.TrimSpace(row["card_number"])
		slab.Subject = strings.TrimSpace(row["subject"])
		slab.Variety = strings.TrimSpace(row["variety"])
		slab.CardGrade = strings.TrimSpace(row["card_grade"])
		slab.Price = row["price"]
		slab.RawPrice = row["raw_price"]
		slab.CleanedPrice = CleanPrice(slab.Price)
		return slab
	}

	slab.Name = strings.TrimSpace(row["name"])
	slab.Set = strings.TrimSpace(row["set"])
	slab.PSAGrade = strings.TrimSpace(row["psa_grade"])
	slab.MarketPrice = row["market_price"]
	slab.CleanedMarketPrice = CleanPrice(slab.MarketPrice)
	return slab
}

// ValueLogEntryFromRow builds a log entry. Rows with an unparsable time are
// rejected since a timestamp cannot be defaulted.
func ValueLogEntryFromRow(row CanonicalRow) (models.ValueLogEntry, bool) {
	ts, ok := ParseDayFirst(row["time"])
	if !ok {
		return models.ValueLogEntry{}, false
	}
	return models.ValueLogEntry{
		Time:      ts,
		Type:      strings.TrimSpace(row["type"]),
		CardValue: ParseValue(row["card_value"]),
		SlabValue: ParseValue(row["slab_value"]),
	}, true
}

// ParseCards normalizes a cards sheet
func ParseCards(t Table) []models.Card {
	rows := NormalizeTable(t, KindCards, AliasesFor(KindCards))
	cards := make([]models.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, CardFromRow(row))
	}
	return cards
}

// ParseSlabs normalizes a slabs sheet of either layout
func ParseSlabs(t Table) []models.Slab {
	aliases := AliasesFor(KindSlabs)
	variant := DetectSlabVariant(CanonicalHeader(t.Header, aliases))
	rows := NormalizeTable(t, KindSlabs, aliases)
	slabs := make([]models.Slab, 0, len(rows))
	for _, row := range rows {
		slabs = append(slabs, SlabFromRow(row, variant))
	}
	return slabs
}

// ParseValueLog normalizes the tracking sheet. It returns the number of rows
// dropped for bad timestamps alongside the entries.
func ParseValueLog(t Table) ([]models.ValueLogEntry, int, error) {
	aliases := AliasesFor(KindValueLog)
	fields := CanonicalHeader(t.Header, aliases)
	hasTime := false
	for _, f := range fields {
		if f == "time" {
			hasTime = true
			break
		}
	}
	if !hasTime {
		return nil, 0, ErrMissingTimeColumn
	}

	rows := NormalizeTable(t, KindValueLog, aliases)
	entries := make([]models.ValueLogEntry, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		entry, ok := ValueLogEntryFromRow(row)
		if !ok {
			dropped++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, dropped, nil
}
