// Package resolve turns confirmed unmatched statement records into new
// balanced ledger transactions, one prompt at a time.
package resolve

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookmatch-dev/bookmatch/internal/ledger"
	"github.com/bookmatch-dev/bookmatch/internal/model"
	"github.com/bookmatch-dev/bookmatch/internal/term"
)

// ErrCommodityMismatch means the reconciled and counterparty accounts are
// denominated in different commodities; no transfer can be built between
// them.
var ErrCommodityMismatch = errors.New("accounts have different commodities")

// Store is the ledger surface the session writes through.
type Store interface {
	Commodity(guid string) (model.Commodity, error)
	InsertTransaction(tx model.Transaction) error
	InsertSplit(sp model.Split) error
}

var _ Store = (*ledger.Store)(nil)

// Session walks the unmatched statement records, asking for a decision per
// record and creating a transaction between Account and Counterparty on
// confirmation.
type Session struct {
	Store        Store
	Term         term.Terminal
	Account      model.Account
	Counterparty model.Account

	// Now supplies the entry timestamp; nil means time.Now.
	Now func() time.Time
}

// Run executes the resolution loop and returns the number of transactions
// created. Aborting stops the loop without error; already-created
// transactions stay committed. Any insert failure is fatal.
func (s *Session) Run(records []*model.ExternalRecord) (int, error) {
	if s.Account.CommodityGUID == "" ||
		s.Account.CommodityGUID != s.Counterparty.CommodityGUID {
		_ = s.Term.WriteLine(fmt.Sprintf(
			"The two accounts have different commodities, unable to transfer between: %s - %s",
			term.Alert(s.Account), term.Alert(s.Counterparty)))
		return 0, fmt.Errorf("%s vs %s: %w", s.Account, s.Counterparty, ErrCommodityMismatch)
	}

	commodity, err := s.Store.Commodity(s.Account.CommodityGUID)
	if err != nil {
		return 0, err
	}

	if err := s.Term.WriteLine(fmt.Sprintf("Creating transactions between %s and %s",
		s.Counterparty, s.Account)); err != nil {
		return 0, err
	}

	created := 0
	for _, rec := range records {
		if err := s.Term.WriteLine(fmt.Sprintf("Adding %s [%ses/%so/%sbort]",
			term.Accent(rec), term.Alert("Y"), term.Alert("N"), term.Alert("A"))); err != nil {
			return created, err
		}

		decision, err := term.ReadDecision(s.Term)
		if err != nil {
			return created, err
		}

		switch decision {
		case term.DecisionConfirm:
			if err := s.create(rec, commodity); err != nil {
				return created, err
			}
			created++
		case term.DecisionSkip:
			_ = s.Term.WriteLine("Skipping " + term.Muted(rec))
		case term.DecisionAbort:
			return created, nil
		}
	}
	return created, nil
}

// create persists one transaction and its two offsetting splits. Each
// insert is its own unit of work; a failure leaves earlier inserts in
// place and ends the run.
func (s *Session) create(rec *model.ExternalRecord, commodity model.Commodity) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	// The posting date is always the spending date, whatever mode drove
	// the matching.
	var postDate time.Time
	if d, ok := rec.MatchingDate(model.MatchBySpending); ok {
		postDate = d.Add(12 * time.Hour)
	}

	tx := model.Transaction{
		GUID:         ledger.NewGUID(),
		CurrencyGUID: commodity.GUID,
		PostDate:     postDate,
		EnterDate:    now(),
		Description:  rec.Description,
	}
	if err := s.Store.InsertTransaction(tx); err != nil {
		return err
	}

	if err := s.Store.InsertSplit(newSplit(tx.GUID, s.Account, commodity, rec.Amount)); err != nil {
		return err
	}
	return s.Store.InsertSplit(newSplit(tx.GUID, s.Counterparty, commodity, rec.Amount.Neg()))
}

// newSplit sizes one leg: value in the transaction currency's fraction,
// quantity in the account's smallest currency unit, both rounded to the
// nearest unit.
func newSplit(txGUID string, acct model.Account, commodity model.Commodity, amount decimal.Decimal) model.Split {
	value := amount.Mul(decimal.NewFromInt(commodity.Fraction)).Round(0).IntPart()
	quantity := amount.Mul(decimal.NewFromInt(acct.CommoditySCU)).Round(0).IntPart()

	return model.Split{
		GUID:           ledger.NewGUID(),
		TxGUID:         txGUID,
		AccountGUID:    acct.GUID,
		ReconcileState: "n",
		ValueNum:       value,
		ValueDenom:     commodity.Fraction,
		QuantityNum:    quantity,
		QuantityDenom:  acct.CommoditySCU,
	}
}
