package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CleanPrice converts a raw sheet price into a float. It never fails:
// nil, blanks and anything unparsable come back as 0.
//
// "$1,234.56" -> 1234.56, "abc" -> 0, nil -> 0
func CleanPrice(value any) float64 {
	var s string
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return finiteOrZero(v)
	case float32:
		return finiteOrZero(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(f)
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseQuantity parses a stock quantity. Blank or unparsable values are 0.
func ParseQuantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ParseValue parses a tracked value with the price-cleaning rule, clamping negatives to 0
func ParseValue(s string) float64 {
	v := CleanPrice(s)
	if v < 0 {
		return 0
	}
	return v
}

// dayFirstLayouts is tried in order. Go's "2" and "1" accept one or two digits,
// so "2/1/2006" also matches "02/01/2006".
var dayFirstLayouts = buildDayFirstLayouts()

func buildDayFirstLayouts() []string {
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	clocks := []string{" 15:04:05", " 15:04", " 3:04:05 PM", " 3:04 PM", ""}
	for _, sep := range []string{"/", "-", "."} {
		for _, year := range []string{"2006", "06"} {
			for _, clock := range clocks {
				layouts = append(layouts, "2"+sep+"1"+sep+year+clock)
			}
		}
	}
	for _, clock := range clocks {
		layouts = append(layouts, "2 Jan 2006"+clock, "2 January 2006"+clock)
	}
	for _, clock := range clocks {
		layouts = append(layouts, "Jan 2, 2006"+clock, "January 2, 2006"+clock, "Jan 2 2006"+clock)
	}
	return layouts
}

// ParseDayFirst parses a value-log timestamp, reading ambiguous dates as day/month/year.
// The second result is false when no layout matches.
func ParseDayFirst(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
