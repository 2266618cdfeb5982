package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a row in the transactions table.
type Transaction struct {
	GUID         string
	CurrencyGUID string
	Num          string
	PostDate     time.Time // zero = not posted
	EnterDate    time.Time
	Description  string
}

// Split is one leg of a double-entry transaction. Value is the amount in
// the transaction currency, Quantity the amount in the account commodity;
// both are exact fractions.
type Split struct {
	GUID           string
	TxGUID         string
	AccountGUID    string
	Memo           string
	Action         string
	ReconcileState string
	ValueNum       int64
	ValueDenom     int64
	QuantityNum    int64
	QuantityDenom  int64
}

// Value returns the split value as an exact decimal.
func (s Split) Value() decimal.Decimal {
	if s.ValueDenom == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(s.ValueNum).Div(decimal.NewFromInt(s.ValueDenom))
}

// SplitRow is a split joined with its transaction, as returned by the
// ledger query layer.
type SplitRow struct {
	Split
	Tx Transaction
}
