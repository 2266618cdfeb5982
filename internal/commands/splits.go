package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bookmatch-dev/bookmatch/internal/config"
	"github.com/bookmatch-dev/bookmatch/internal/ledger"
)

const flagDateLayout = "2006-01-02"

func newSplitsCommand() *cobra.Command {
	var db string
	var limit int
	var account, txid, memo, description, before, after string

	cmd := &cobra.Command{
		Use:   "splits",
		Short: "List splits with their transaction context",
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

			filter := ledger.SplitFilter{
				AccountGUID: account,
				TxGUID:      txid,
				Memo:        memo,
				Description: description,
				Limit:       limit,
			}
			if filter.Before, err = parseFlagDate(before); err != nil {
				return err
			}
			if filter.After, err = parseFlagDate(after); err != nil {
				return err
			}

			rows, err := store.Splits(filter)
			if err != nil {
				return err
			}

			for _, r := range rows {
				postDay := "          "
				if !r.Tx.PostDate.IsZero() {
					postDay = r.Tx.PostDate.Format(flagDateLayout)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %12s  %-40s  %s\n",
					postDay, r.Value().StringFixed(2), r.Tx.Description, r.GUID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "path to the ledger database")
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "limit number of splits")
	cmd.Flags().StringVarP(&account, "account", "a", "", "splits of the given account guid")
	cmd.Flags().StringVarP(&txid, "txid", "t", "", "splits of the given transaction guid")
	cmd.Flags().StringVarP(&memo, "memo", "m", "", "splits whose memo contains the given string")
	cmd.Flags().StringVarP(&description, "description", "d", "", "transactions whose description contains the given string")
	cmd.Flags().StringVarP(&before, "before", "b", "", "splits posted before the given date (yyyy-mm-dd)")
	cmd.Flags().StringVarP(&after, "after", "f", "", "splits posted after the given date (yyyy-mm-dd)")

	return cmd
}

func parseFlagDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(flagDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want yyyy-mm-dd)", s)
	}
	return d, nil
}
