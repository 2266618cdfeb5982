package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookmatch-dev/bookmatch/internal/config"
	"github.com/bookmatch-dev/bookmatch/internal/ledger"
	"github.com/bookmatch-dev/bookmatch/internal/model"
)

func newAccountsCommand() *cobra.Command {
	var db string
	var limit int
	var name, parent, accountType string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List ledger accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadDefault()
			if err != nil {
				return err
			}
			store, err := openStore(db, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			accounts, err := store.Accounts(ledger.AccountFilter{
				Name:       name,
				ParentGUID: parent,
				Type:       model.AccountType(accountType),
				Limit:      limit,
			})
			if err != nil {
				return err
			}

			for _, a := range accounts {
				fmt.Fprintf(cmd.OutOrStdout(), "%-32s  %-9s  %s\n", a.Name, a.Type, a.GUID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "path to the ledger database")
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "limit number of accounts")
	cmd.Flags().StringVarP(&name, "name", "n", "", "accounts whose name contains the given string")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "child accounts of the given parent guid")
	cmd.Flags().StringVarP(&accountType, "type", "t", "", "accounts of the given type")

	return cmd
}
