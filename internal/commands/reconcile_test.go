package commands

import (
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bookmatch-dev/bookmatch/internal/ledger"
	"github.com/bookmatch-dev/bookmatch/internal/model"
	"github.com/bookmatch-dev/bookmatch/internal/resolve"
)

const bookSchema = `
CREATE TABLE commodities (
	guid TEXT PRIMARY KEY, namespace TEXT NOT NULL, mnemonic TEXT NOT NULL,
	fullname TEXT, fraction INTEGER NOT NULL
);
CREATE TABLE accounts (
	guid TEXT PRIMARY KEY, name TEXT NOT NULL, account_type TEXT NOT NULL,
	parent_guid TEXT, commodity_guid TEXT, commodity_scu INTEGER NOT NULL DEFAULT 100
);
CREATE TABLE transactions (
	guid TEXT PRIMARY KEY, currency_guid TEXT NOT NULL, num TEXT,
	post_date TEXT, enter_date TEXT, description TEXT
);
CREATE TABLE splits (
	guid TEXT PRIMARY KEY, tx_guid TEXT NOT NULL, account_guid TEXT NOT NULL,
	memo TEXT NOT NULL DEFAULT '', action TEXT NOT NULL DEFAULT '',
	reconcile_state TEXT, reconcile_date TEXT,
	value_num INTEGER NOT NULL, value_denom INTEGER NOT NULL,
	quantity_num INTEGER NOT NULL, quantity_denom INTEGER NOT NULL,
	lot_guid TEXT
);
`

type scriptedTerm struct {
	keys  []rune
	lines []string
}

func (s *scriptedTerm) WriteLine(line string) error {
	s.lines = append(s.lines, line)
	return nil
}

func (s *scriptedTerm) ReadKey() (rune, error) {
	if len(s.keys) == 0 {
		return 0, io.EOF
	}
	k := s.keys[0]
	s.keys = s.keys[1:]
	return k, nil
}

// newBook creates a sqlite book with one bank account holding a single
// -150.00 transaction posted 2023-03-10, plus a Groceries counterparty.
func newBook(t *testing.T, fixtures ...string) (string, *ledger.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.sqlite")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(bookSchema)
	require.NoError(t, err)

	stmts := []string{
		`INSERT INTO commodities VALUES ('eur-guid', 'CURRENCY', 'EUR', 'Euro', 100)`,
		`INSERT INTO commodities VALUES ('usd-guid', 'CURRENCY', 'USD', 'US Dollar', 100)`,
		`INSERT INTO accounts VALUES ('acct-bank', 'Checking', 'BANK', NULL, 'eur-guid', 100)`,
		`INSERT INTO accounts VALUES ('acct-groc', 'Groceries', 'EXPENSE', NULL, 'eur-guid', 100)`,
		`INSERT INTO accounts VALUES ('acct-usd', 'Travel USD', 'EXPENSE', NULL, 'usd-guid', 100)`,
		`INSERT INTO transactions VALUES ('tx-1', 'eur-guid', '', '2023-03-10 12:00:00', '2023-03-10 12:00:00', 'Market')`,
		`INSERT INTO splits VALUES ('sp-1', 'tx-1', 'acct-bank', '', '', 'n', '', -15000, 100, -15000, 100, '')`,
	}
	for _, stmt := range append(stmts, fixtures...) {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	store, err := ledger.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return path, store
}

func writeStatement(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	_, err := f.NewSheet("Statement")
	require.NoError(t, err)
	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Statement", name, cell))
		}
	}
	path := filepath.Join(t.TempDir(), "statement.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunReconcileMatchAndResolve(t *testing.T) {
	_, store := newBook(t)

	// First row matches the ledger at offset -2; second has no ledger
	// counterpart and gets confirmed interactively.
	statement := writeStatement(t, [][]any{
		{"2023-03-13", "2023-03-12", "-150.00", "MARKET PURCHASE"},
		{"2023-03-15", "2023-03-14", "-42.50", "CORNER SHOP"},
	})

	tm := &scriptedTerm{keys: []rune{'y'}}
	unmatched, err := runReconcile(store, tm, discard(), reconcileParams{
		file:         statement,
		sheetName:    "Statement",
		account:      "Checking",
		counterparty: "Groceries",
		mode:         model.MatchBySpending,
	})
	require.NoError(t, err)
	assert.Zero(t, unmatched)

	created, err := store.Splits(ledger.SplitFilter{Description: "CORNER SHOP"})
	require.NoError(t, err)
	require.Len(t, created, 2)

	var bankLeg, counterLeg model.SplitRow
	for _, r := range created {
		switch r.AccountGUID {
		case "acct-bank":
			bankLeg = r
		case "acct-groc":
			counterLeg = r
		}
	}
	assert.Equal(t, int64(-4250), bankLeg.ValueNum)
	assert.Equal(t, int64(4250), counterLeg.ValueNum)
	assert.Equal(t, "2023-03-14 12:00:00", bankLeg.Tx.PostDate.Format("2006-01-02 15:04:05"))
}

func TestRunReconcileSkipLeavesRecordUnmatched(t *testing.T) {
	_, store := newBook(t)
	statement := writeStatement(t, [][]any{
		{"2023-03-15", "2023-03-14", "-42.50", "CORNER SHOP"},
	})

	tm := &scriptedTerm{keys: []rune{'n'}}
	unmatched, err := runReconcile(store, tm, discard(), reconcileParams{
		file:         statement,
		sheetName:    "Statement",
		account:      "Checking",
		counterparty: "Groceries",
		mode:         model.MatchBySpending,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, unmatched)

	rows, err := store.Splits(ledger.SplitFilter{Description: "CORNER SHOP"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRunReconcileAmbiguousAccountDoesNothing(t *testing.T) {
	_, store := newBook(t,
		`INSERT INTO accounts VALUES ('acct-bank2', 'Checking Backup', 'BANK', NULL, 'eur-guid', 100)`,
	)
	statement := writeStatement(t, [][]any{
		{"2023-03-13", "2023-03-12", "-150.00", "MARKET PURCHASE"},
	})

	tm := &scriptedTerm{}
	unmatched, err := runReconcile(store, tm, discard(), reconcileParams{
		file:      statement,
		sheetName: "Statement",
		account:   "Checking",
		mode:      model.MatchBySpending,
	})
	require.NoError(t, err)
	assert.Zero(t, unmatched)
}

func TestRunReconcileCommodityMismatch(t *testing.T) {
	_, store := newBook(t)
	statement := writeStatement(t, [][]any{
		{"2023-03-15", "2023-03-14", "-42.50", "FOREIGN SHOP"},
	})

	tm := &scriptedTerm{keys: []rune{'y'}}
	_, err := runReconcile(store, tm, discard(), reconcileParams{
		file:         statement,
		sheetName:    "Statement",
		account:      "Checking",
		counterparty: "Travel USD",
		mode:         model.MatchBySpending,
	})
	assert.ErrorIs(t, err, resolve.ErrCommodityMismatch)

	rows, err := store.Splits(ledger.SplitFilter{Description: "FOREIGN SHOP"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRunReconcileNoCounterparty(t *testing.T) {
	_, store := newBook(t)
	statement := writeStatement(t, [][]any{
		{"2023-03-15", "2023-03-14", "-42.50", "CORNER SHOP"},
	})

	tm := &scriptedTerm{}
	unmatched, err := runReconcile(store, tm, discard(), reconcileParams{
		file:      statement,
		sheetName: "Statement",
		account:   "Checking",
		mode:      model.MatchBySpending,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, unmatched)
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "accounts")
	assert.Contains(t, names, "splits")
	assert.Contains(t, names, "reconcile")
}
