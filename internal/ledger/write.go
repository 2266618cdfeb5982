package ledger

import (
	"fmt"

	"github.com/bookmatch-dev/bookmatch/internal/model"
)

// InsertTransaction persists one transaction row. Anything other than
// exactly one affected row is fatal to the run.
func (s *Store) InsertTransaction(tx model.Transaction) error {
	res, err := s.db.Exec(
		`INSERT INTO transactions (guid, currency_guid, num, post_date, enter_date, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tx.GUID, tx.CurrencyGUID, tx.Num, formatTime(tx.PostDate), formatTime(tx.EnterDate), tx.Description,
	)
	if err != nil {
		return fmt.Errorf("inserting transaction %s: %w", tx.GUID, err)
	}
	return expectOneRow(res, "transaction", tx.GUID)
}

// InsertSplit persists one split row. Anything other than exactly one
// affected row is fatal to the run.
func (s *Store) InsertSplit(sp model.Split) error {
	res, err := s.db.Exec(
		`INSERT INTO splits (guid, tx_guid, account_guid, memo, action,
			reconcile_state, reconcile_date,
			value_num, value_denom, quantity_num, quantity_denom, lot_guid)
		 VALUES (?, ?, ?, ?, ?, ?, '', ?, ?, ?, ?, '')`,
		sp.GUID, sp.TxGUID, sp.AccountGUID, sp.Memo, sp.Action,
		sp.ReconcileState,
		sp.ValueNum, sp.ValueDenom, sp.QuantityNum, sp.QuantityDenom,
	)
	if err != nil {
		return fmt.Errorf("inserting split %s: %w", sp.GUID, err)
	}
	return expectOneRow(res, "split", sp.GUID)
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func expectOneRow(res rowsAffected, kind, guid string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting %s %s: %w", kind, guid, err)
	}
	if n != 1 {
		return fmt.Errorf("inserting %s %s: %d rows affected, want 1", kind, guid, n)
	}
	return nil
}
