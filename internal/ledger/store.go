// Package ledger provides read and write access to a GnuCash-compatible
// sqlite book. The schema is owned by the ledger application; this package
// never creates or migrates it.
package ledger

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/bookmatch-dev/bookmatch/internal/model"
)

// DefaultSplitLimit caps the bulk read used to build the date index.
// Exceeding it truncates, it never errors.
const DefaultSplitLimit = 10000

// sqliteTimeLayout is the timestamp format used by the book's text columns.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store wraps a single shared sqlite handle, used sequentially for the
// initial bulk read and the later per-record inserts.
type Store struct {
	db *sql.DB
}

// Open opens the book at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// AccountFilter narrows account lookups. Zero values mean "no filter".
type AccountFilter struct {
	Name       string // substring match
	ParentGUID string
	Type       model.AccountType
	Limit      int
}

// Accounts returns accounts matching the filter.
func (s *Store) Accounts(f AccountFilter) ([]model.Account, error) {
	query := `SELECT guid, name, account_type,
		COALESCE(parent_guid, ''), COALESCE(commodity_guid, ''), commodity_scu
		FROM accounts`

	var conds []string
	var args []any
	if f.Name != "" {
		conds = append(conds, "name LIKE '%' || ? || '%'")
		args = append(args, f.Name)
	}
	if f.ParentGUID != "" {
		conds = append(conds, "parent_guid = ?")
		args = append(args, f.ParentGUID)
	}
	if f.Type != "" {
		conds = append(conds, "account_type = ?")
		args = append(args, string(f.Type))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.GUID, &a.Name, &a.Type, &a.ParentGUID, &a.CommodityGUID, &a.CommoditySCU); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// FindAccount resolves a filter to exactly one account. Zero or several
// candidates return ok=false; callers then do no work rather than guess.
func (s *Store) FindAccount(f AccountFilter) (model.Account, bool, error) {
	f.Limit = 2
	accounts, err := s.Accounts(f)
	if err != nil {
		return model.Account{}, false, err
	}
	if len(accounts) != 1 {
		return model.Account{}, false, nil
	}
	return accounts[0], true, nil
}

// SplitFilter narrows split listings. Zero values mean "no filter".
type SplitFilter struct {
	AccountGUID string
	TxGUID      string
	Memo        string // substring match
	Description string // substring match
	Before      time.Time
	After       time.Time
	Limit       int
}

const splitSelect = `SELECT s.guid, s.tx_guid, s.account_guid, s.memo, s.action,
	COALESCE(s.reconcile_state, ''),
	s.value_num, s.value_denom, s.quantity_num, s.quantity_denom,
	t.guid, t.currency_guid, COALESCE(t.num, ''),
	COALESCE(t.post_date, ''), COALESCE(t.enter_date, ''), COALESCE(t.description, '')
	FROM splits s JOIN transactions t ON t.guid = s.tx_guid`

// Splits returns splits with their transaction context, most recent first.
func (s *Store) Splits(f SplitFilter) ([]model.SplitRow, error) {
	query := splitSelect

	var conds []string
	var args []any
	if f.AccountGUID != "" {
		conds = append(conds, "s.account_guid = ?")
		args = append(args, f.AccountGUID)
	}
	if f.TxGUID != "" {
		conds = append(conds, "s.tx_guid = ?")
		args = append(args, f.TxGUID)
	}
	if f.Memo != "" {
		conds = append(conds, "s.memo LIKE '%' || ? || '%'")
		args = append(args, f.Memo)
	}
	if f.Description != "" {
		conds = append(conds, "t.description LIKE '%' || ? || '%'")
		args = append(args, f.Description)
	}
	if !f.Before.IsZero() {
		conds = append(conds, "t.post_date < ?")
		args = append(args, f.Before.Format(sqliteTimeLayout))
	}
	if !f.After.IsZero() {
		conds = append(conds, "t.post_date > ?")
		args = append(args, f.After.Format(sqliteTimeLayout))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY t.post_date DESC"

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultSplitLimit
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying splits: %w", err)
	}
	defer rows.Close()

	var result []model.SplitRow
	for rows.Next() {
		var r model.SplitRow
		var postDate, enterDate string
		if err := rows.Scan(
			&r.GUID, &r.TxGUID, &r.AccountGUID, &r.Memo, &r.Action,
			&r.ReconcileState,
			&r.ValueNum, &r.ValueDenom, &r.QuantityNum, &r.QuantityDenom,
			&r.Tx.GUID, &r.Tx.CurrencyGUID, &r.Tx.Num,
			&postDate, &enterDate, &r.Tx.Description,
		); err != nil {
			return nil, fmt.Errorf("scanning split: %w", err)
		}
		r.Tx.PostDate = parseTime(postDate)
		r.Tx.EnterDate = parseTime(enterDate)
		result = append(result, r)
	}
	return result, rows.Err()
}

// SplitsForAccount returns up to limit splits for one account, most recent
// first. Order is re-normalized by the caller's date index.
func (s *Store) SplitsForAccount(accountGUID string, limit int) ([]model.SplitRow, error) {
	return s.Splits(SplitFilter{AccountGUID: accountGUID, Limit: limit})
}

// Commodity returns commodity metadata by GUID.
func (s *Store) Commodity(guid string) (model.Commodity, error) {
	var c model.Commodity
	err := s.db.QueryRow(
		`SELECT guid, namespace, mnemonic, COALESCE(fullname, ''), fraction
		 FROM commodities WHERE guid = ?`, guid,
	).Scan(&c.GUID, &c.Namespace, &c.Mnemonic, &c.Fullname, &c.Fraction)
	if err != nil {
		return model.Commodity{}, fmt.Errorf("querying commodity %s: %w", guid, err)
	}
	return c, nil
}

// NewGUID returns a fresh identifier in the book's 32-hex-digit format.
func NewGUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// parseTime reads a book timestamp; empty or malformed yields the zero time.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(sqliteTimeLayout)
}
