package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Matching selects which statement date column is authoritative when
// aligning external records with ledger postings. Fixed for a whole run.
type Matching string

const (
	MatchBySpending Matching = "spending"
	MatchByBooking  Matching = "booking"
)

// ParseMatching converts a CLI flag value into a Matching mode.
func ParseMatching(s string) (Matching, error) {
	switch Matching(strings.ToLower(s)) {
	case MatchBySpending:
		return MatchBySpending, nil
	case MatchByBooking:
		return MatchByBooking, nil
	}
	return "", fmt.Errorf("unknown matching mode %q (want %q or %q)", s, MatchBySpending, MatchByBooking)
}

// ExternalRecord is one parsed row of the external statement. Fields that
// could not be parsed stay at their zero value with the corresponding
// presence flag unset; such records can never match and surface as
// discrepancies instead of errors.
type ExternalRecord struct {
	SpendingDate time.Time // zero = absent
	BookingDate  time.Time // zero = absent
	Amount       decimal.Decimal
	HasAmount    bool
	Description  string

	// Matched flips false->true exactly once, when the matching engine
	// pairs this record with a ledger split.
	Matched bool
}

// MatchingDate returns the date selected by mode, and whether it is present.
func (r *ExternalRecord) MatchingDate(mode Matching) (time.Time, bool) {
	var d time.Time
	switch mode {
	case MatchByBooking:
		d = r.BookingDate
	default:
		d = r.SpendingDate
	}
	return d, !d.IsZero()
}

func (r *ExternalRecord) String() string {
	date := "????-??-??"
	if !r.SpendingDate.IsZero() {
		date = r.SpendingDate.Format("2006-01-02")
	} else if !r.BookingDate.IsZero() {
		date = r.BookingDate.Format("2006-01-02")
	}
	amount := "?"
	if r.HasAmount {
		amount = r.Amount.StringFixed(2)
	}
	return fmt.Sprintf("%s %s %s", date, amount, r.Description)
}
