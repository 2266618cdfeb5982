package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookmatch-dev/bookmatch/internal/buildinfo"
	"github.com/bookmatch-dev/bookmatch/internal/config"
	"github.com/bookmatch-dev/bookmatch/internal/ledger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "bookmatch",
		Short:   "Reconcile bank statement exports against a ledger book",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newAccountsCommand())
	rootCmd.AddCommand(newSplitsCommand())
	rootCmd.AddCommand(newReconcileCommand())

	return rootCmd
}

// openStore resolves the ledger path (flag, then config, then the
// BOOKMATCH_DB environment default) and opens it.
func openStore(dbFlag string, cfg *config.Config) (*ledger.Store, error) {
	path := dbFlag
	if path == "" {
		path = cfg.Database
	}
	if path == "" {
		return nil, fmt.Errorf("no ledger database configured: pass --db, set database in %s, or set BOOKMATCH_DB", config.DefaultPath)
	}
	return ledger.Open(path)
}
