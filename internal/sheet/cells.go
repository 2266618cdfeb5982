package sheet

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date layouts seen in statement exports, tried in order: dotted, ISO,
// German, English.
var dateLayouts = []string{
	"2006.01.02.",
	"2006-01-02",
	"02.01.2006",
	"02-01-2006",
}

// cellDate parses a date cell. Unparsable cells yield the zero time, never
// an error; such records simply cannot match.
func cellDate(cell string) time.Time {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, cell); err == nil {
			return d
		}
	}
	return time.Time{}
}

// cellAmount parses a monetary cell into an exact decimal. Both "1234.56"
// and the comma-decimal "1234,56" forms are accepted; thousands separators
// are spaces.
func cellAmount(cell string) (decimal.Decimal, bool) {
	cell = strings.TrimSpace(cell)
	cell = strings.ReplaceAll(cell, " ", "")
	cell = strings.ReplaceAll(cell, "\u00a0", "")
	if cell == "" {
		return decimal.Decimal{}, false
	}
	if strings.Contains(cell, ",") && !strings.Contains(cell, ".") {
		cell = strings.Replace(cell, ",", ".", 1)
	}
	d, err := decimal.NewFromString(cell)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// cellString trims a text cell; empty means absent.
func cellString(cell string) string {
	return strings.TrimSpace(cell)
}
