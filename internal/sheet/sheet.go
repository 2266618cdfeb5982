// Package sheet loads the external statement workbook into memory.
package sheet

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/bookmatch-dev/bookmatch/internal/model"
)

// Statement column layout.
const (
	numColumns      = 4
	colBookingDate  = 0
	colSpendingDate = 1
	colAmount       = 2
	colDescription  = 3
)

// RecordSet is the parsed statement plus the date span it covers under the
// active matching mode. A zero MinDate/MaxDate means the span is undefined
// (empty statement or no parsable dates).
type RecordSet struct {
	Records []*model.ExternalRecord
	MinDate time.Time
	MaxDate time.Time
}

// Load reads one sheet of the workbook at path into a RecordSet. Cell-level
// parse failures degrade to absent fields; rows with no parsable date, no
// amount and no description (headers, footers, padding) are dropped.
func Load(path, sheetName string, mode model.Matching) (*RecordSet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheetName, err)
	}

	set := &RecordSet{}
	for _, row := range rows {
		rec, ok := parseRow(row)
		if !ok {
			continue
		}
		set.Records = append(set.Records, rec)

		if d, ok := rec.MatchingDate(mode); ok {
			if set.MinDate.IsZero() || d.Before(set.MinDate) {
				set.MinDate = d
			}
			if set.MaxDate.IsZero() || d.After(set.MaxDate) {
				set.MaxDate = d
			}
		}
	}
	return set, nil
}

func parseRow(row []string) (*model.ExternalRecord, bool) {
	// Trailing empty cells are omitted by the reader.
	cells := make([]string, numColumns)
	copy(cells, row)

	rec := &model.ExternalRecord{
		BookingDate:  cellDate(cells[colBookingDate]),
		SpendingDate: cellDate(cells[colSpendingDate]),
		Description:  cellString(cells[colDescription]),
	}
	rec.Amount, rec.HasAmount = cellAmount(cells[colAmount])

	dataless := rec.BookingDate.IsZero() && rec.SpendingDate.IsZero() && !rec.HasAmount
	if dataless && looksLikeHeader(cells) {
		return nil, false
	}
	if dataless && rec.Description == "" {
		return nil, false
	}
	return rec, true
}

// looksLikeHeader reports whether a dataless row carries text in the date
// or amount columns, which only column captions do.
func looksLikeHeader(cells []string) bool {
	return cellString(cells[colBookingDate]) != "" ||
		cellString(cells[colSpendingDate]) != "" ||
		cellString(cells[colAmount]) != ""
}
