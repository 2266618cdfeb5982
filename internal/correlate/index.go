package correlate

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookmatch-dev/bookmatch/internal/model"
)

// Pairing wraps one ledger split together with the statement record it was
// matched to. A pairing is matched to at most one record and never unlinked
// within a run.
type Pairing struct {
	Row    model.SplitRow
	amount decimal.Decimal
	day    time.Time

	record *model.ExternalRecord
}

func newPairing(row model.SplitRow) *Pairing {
	return &Pairing{
		Row:    row,
		amount: row.Value(),
		day:    Day(row.Tx.PostDate),
	}
}

// Amount is the split value as an exact decimal.
func (p *Pairing) Amount() decimal.Decimal { return p.amount }

// Day is the posting date truncated to midnight UTC.
func (p *Pairing) Day() time.Time { return p.day }

// Matched reports whether this pairing has been linked to a record.
func (p *Pairing) Matched() bool { return p.record != nil }

// Record returns the linked statement record, or nil.
func (p *Pairing) Record() *model.ExternalRecord { return p.record }

func (p *Pairing) pairWith(rec *model.ExternalRecord) {
	p.record = rec
	rec.Matched = true
}

func (p *Pairing) String() string {
	return fmt.Sprintf("%s %s %s", p.day.Format("2006-01-02"), p.amount.StringFixed(2), p.Row.Tx.Description)
}

// Day normalizes a timestamp to its calendar day (midnight UTC), the key
// granularity of the index.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Index maps posting days to the splits posted that day, in insertion
// order. Days are kept sorted so range queries over a closed interval are a
// binary search, not a scan.
type Index struct {
	days    []time.Time
	buckets map[time.Time][]*Pairing
}

// NewIndex builds an Index from ledger rows. Rows without a posting date
// cannot participate in date-based matching and are dropped.
func NewIndex(rows []model.SplitRow) *Index {
	ix := &Index{buckets: make(map[time.Time][]*Pairing)}
	for _, row := range rows {
		if row.Tx.PostDate.IsZero() {
			continue
		}
		p := newPairing(row)
		if _, seen := ix.buckets[p.day]; !seen {
			ix.days = append(ix.days, p.day)
		}
		ix.buckets[p.day] = append(ix.buckets[p.day], p)
	}
	sort.Slice(ix.days, func(i, j int) bool { return ix.days[i].Before(ix.days[j]) })
	return ix
}

// Day returns the pairings posted on the given day, in insertion order.
func (ix *Index) Day(day time.Time) []*Pairing {
	return ix.buckets[Day(day)]
}

// Days returns the number of distinct posting days.
func (ix *Index) Days() int { return len(ix.days) }

// Range returns all pairings posted within [min, max], both bounds
// inclusive, in day order.
func (ix *Index) Range(min, max time.Time) []*Pairing {
	min, max = Day(min), Day(max)
	lo := sort.Search(len(ix.days), func(i int) bool { return !ix.days[i].Before(min) })

	var result []*Pairing
	for i := lo; i < len(ix.days) && !ix.days[i].After(max); i++ {
		result = append(result, ix.buckets[ix.days[i]]...)
	}
	return result
}

// All returns every pairing in day order.
func (ix *Index) All() []*Pairing {
	var result []*Pairing
	for _, day := range ix.days {
		result = append(result, ix.buckets[day]...)
	}
	return result
}
