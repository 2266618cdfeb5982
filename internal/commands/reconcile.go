package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/bookmatch-dev/bookmatch/internal/config"
	"github.com/bookmatch-dev/bookmatch/internal/correlate"
	"github.com/bookmatch-dev/bookmatch/internal/ledger"
	"github.com/bookmatch-dev/bookmatch/internal/logging"
	"github.com/bookmatch-dev/bookmatch/internal/model"
	"github.com/bookmatch-dev/bookmatch/internal/resolve"
	"github.com/bookmatch-dev/bookmatch/internal/sheet"
	"github.com/bookmatch-dev/bookmatch/internal/term"
)

type reconcileParams struct {
	file         string
	sheetName    string
	account      string
	counterparty string
	mode         model.Matching
}

func newReconcileCommand() *cobra.Command {
	var db string
	var file, sheetName, account, counterparty, matching string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Correlate a statement sheet with one account and fix the gaps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadDefault()
			if err != nil {
				return err
			}

			level := cfg.LogLevel
			if verbose {
				level = "debug"
			}
			log := logging.New(level)

			if sheetName == "" {
				sheetName = cfg.Statement.Sheet
			}
			if matching == "" {
				matching = cfg.Statement.Matching
			}
			if counterparty == "" {
				counterparty = cfg.Resolve.Counterparty
			}
			mode, err := model.ParseMatching(matching)
			if err != nil {
				return err
			}

			store, err := openStore(db, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			unmatched, err := runReconcile(store, term.Stdio{}, log, reconcileParams{
				file:         file,
				sheetName:    sheetName,
				account:      account,
				counterparty: counterparty,
				mode:         mode,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d statement records remain unmatched\n", unmatched)
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "path to the ledger database")
	cmd.Flags().StringVarP(&file, "file", "f", "", "statement workbook to correlate (required)")
	_ = cmd.MarkFlagRequired("file")
	cmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "sheet name inside the workbook")
	cmd.Flags().StringVarP(&account, "account", "a", "", "account to correlate with (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVarP(&counterparty, "counterparty", "c", "", "account for the offsetting leg of created transactions")
	cmd.Flags().StringVarP(&matching, "matching", "m", "", "date column used for alignment: spending or booking")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log matching progress")

	return cmd
}

// runReconcile executes one reconciliation: load, index, match, report,
// then the interactive resolution when a counterparty is available. It
// returns the number of statement records still unmatched after the
// session.
func runReconcile(store *ledger.Store, tm term.Terminal, log *slog.Logger, p reconcileParams) (int, error) {
	account, ok, err := store.FindAccount(ledger.AccountFilter{Name: p.account})
	if err != nil {
		return 0, err
	}
	if !ok {
		// Zero or several candidates: do no work rather than guess.
		_ = tm.WriteLine(fmt.Sprintf("Account selector %q does not resolve to exactly one account", p.account))
		return 0, nil
	}

	set, err := sheet.Load(p.file, p.sheetName, p.mode)
	if err != nil {
		return 0, err
	}

	rows, err := store.SplitsForAccount(account.GUID, ledger.DefaultSplitLimit)
	if err != nil {
		return 0, err
	}
	log.Debug("loaded ledger rows", "account", account.GUID, "rows", len(rows))

	c := correlate.New(set, correlate.NewIndex(rows), p.mode, log)

	if err := tm.WriteLine(fmt.Sprintf("Between %s and %s",
		term.Accent(spanDay(set.MinDate)), term.Accent(spanDay(set.MaxDate)))); err != nil {
		return 0, err
	}

	unmatchedRecords := c.Match()
	_ = tm.WriteLine(fmt.Sprintf("Missing %s records from the ledger:", term.Alert(len(unmatchedRecords))))
	for _, r := range unmatchedRecords {
		_ = tm.WriteLine(" - " + r.String())
	}

	unmatchedLedger := c.UnmatchedLedger()
	_ = tm.WriteLine(fmt.Sprintf("Missing %s records from the statement:", term.Alert(len(unmatchedLedger))))
	for _, pairing := range unmatchedLedger {
		_ = tm.WriteLine(" - " + pairing.String())
	}

	if len(unmatchedRecords) == 0 {
		_ = tm.WriteLine("Nothing to fix")
		return 0, nil
	}

	if p.counterparty == "" {
		_ = tm.WriteLine("No counterparty account given, leaving the ledger as is")
		return len(unmatchedRecords), nil
	}
	counter, ok, err := store.FindAccount(ledger.AccountFilter{Name: p.counterparty})
	if err != nil {
		return len(unmatchedRecords), err
	}
	if !ok {
		_ = tm.WriteLine(fmt.Sprintf("Unable to fix: counterparty selector %q does not resolve to exactly one account", p.counterparty))
		return len(unmatchedRecords), nil
	}

	session := &resolve.Session{
		Store:        store,
		Term:         tm,
		Account:      account,
		Counterparty: counter,
	}
	created, err := session.Run(unmatchedRecords)
	if err != nil {
		return len(unmatchedRecords) - created, err
	}
	return len(unmatchedRecords) - created, nil
}

func spanDay(d time.Time) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format(flagDateLayout)
}
