// Package correlate pairs external statement records with ledger splits.
//
// Matching widens a day offset from the statement date: exact day first,
// then +1, -1, +2, -2 and so on. Within a day, the earliest-inserted
// unmatched split with the exact same amount wins; there is no closeness or
// description heuristic. A record matched at a small offset is never
// reconsidered at a larger one.
package correlate

import (
	"log/slog"

	"github.com/bookmatch-dev/bookmatch/internal/model"
	"github.com/bookmatch-dev/bookmatch/internal/sheet"
)

// maxOffsetDays bounds the symmetric day-offset search, inclusive.
const maxOffsetDays = 9

// Correlator runs the matching engine over one statement and one account's
// date index. Single control flow only: match state is mutated without
// locks.
type Correlator struct {
	set   *sheet.RecordSet
	index *Index
	mode  model.Matching
	log   *slog.Logger
}

// New creates a Correlator.
func New(set *sheet.RecordSet, index *Index, mode model.Matching, log *slog.Logger) *Correlator {
	if log == nil {
		log = slog.Default()
	}
	return &Correlator{set: set, index: index, mode: mode, log: log}
}

// Match pairs as many statement records as possible and returns the ones
// still unmatched, in statement order.
func (c *Correlator) Match() []*model.ExternalRecord {
	working := make([]*model.ExternalRecord, len(c.set.Records))
	copy(working, c.set.Records)
	c.log.Debug("matching statement against ledger",
		"records", len(working), "days", c.index.Days())

	working = c.matchWithOffset(0, working)
	c.log.Debug("pass done", "offset", 0, "unmatched", len(working))

	for delta := 1; len(working) > 0 && delta <= maxOffsetDays; delta++ {
		working = c.matchWithOffset(delta, working)
		working = c.matchWithOffset(-delta, working)
		c.log.Debug("pass done", "offset", delta, "unmatched", len(working))
	}
	return working
}

// matchWithOffset attempts one pass at a fixed day offset and returns the
// records that stayed unresolved.
func (c *Correlator) matchWithOffset(deltaDays int, records []*model.ExternalRecord) []*model.ExternalRecord {
	var unresolved []*model.ExternalRecord
	for _, rec := range records {
		if !c.tryPair(deltaDays, rec) {
			unresolved = append(unresolved, rec)
		}
	}
	return unresolved
}

// tryPair links rec with the first unmatched same-amount split posted
// deltaDays away from the record's authoritative date.
func (c *Correlator) tryPair(deltaDays int, rec *model.ExternalRecord) bool {
	date, ok := rec.MatchingDate(c.mode)
	if !ok || !rec.HasAmount {
		return false
	}
	target := date.AddDate(0, 0, deltaDays)
	for _, p := range c.index.Day(target) {
		if !p.Matched() && p.Amount().Equal(rec.Amount) {
			p.pairWith(rec)
			return true
		}
	}
	return false
}

// UnmatchedLedger returns the unmatched ledger splits posted within the
// statement's date span, both bounds inclusive. Splits outside the span
// cannot correspond to anything in the statement and are not discrepancies.
// With an undefined span every unmatched split is returned.
func (c *Correlator) UnmatchedLedger() []*Pairing {
	var pool []*Pairing
	if c.set.MinDate.IsZero() || c.set.MaxDate.IsZero() {
		pool = c.index.All()
	} else {
		pool = c.index.Range(c.set.MinDate, c.set.MaxDate)
	}

	var unmatched []*Pairing
	for _, p := range pool {
		if !p.Matched() {
			unmatched = append(unmatched, p)
		}
	}
	return unmatched
}
