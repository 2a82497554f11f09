package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fahad9993/expense-tracker-gsheet/internal/client"
	"github.com/fahad9993/expense-tracker-gsheet/internal/codec"
	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
)

var (
	entryDate  string
	entryItems []string
)

var appendCmd = &cobra.Command{
	Use:   "append <account>",
	Short: "Compose line items and upsert them into a (date, account) slot",
	Long: `Each --item is a note=amount pair. Multiple items are packed into the
sum-formula form; existing items for the slot are loaded first so the new
set replaces the old record as a whole.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(entryItems) == 0 {
			return errors.New("at least one --item note=amount is required")
		}
		api, err := newAPI()
		if err != nil {
			return err
		}
		ctx := context.Background()

		suggestions, err := api.Suggestions(ctx)
		if err != nil {
			return sessionErr(err)
		}

		account := args[0]
		composer := client.NewComposer(api, suggestions)
		if err := composer.SelectSlot(ctx, account, entryDate); err != nil {
			return sessionErr(err)
		}
		for _, it := range entryItems {
			note, amount, err := splitItem(it)
			if err != nil {
				return err
			}
			composer.SetDraft(note, amount)
			if err := composer.AddDraftItem(); err != nil {
				if errors.Is(err, core.ErrDuplicateItem) {
					logger.Warn("skipping duplicate note", "note", note)
					continue
				}
				return err
			}
		}
		if err := composer.Submit(ctx); err != nil {
			return sessionErr(err)
		}
		logger.Info("entry saved", "account", account, "date", entryDate)
		return nil
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <account>",
	Short: "Print the stored record for a (date, account) slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		rec, err := api.FetchEntry(context.Background(), entryDate, args[0])
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				logger.Info("no entry for slot", "account", args[0], "date", entryDate)
				return nil
			}
			return sessionErr(err)
		}

		items := codec.Decode(rec)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Record core.StoredRecord `json:"record"`
			Items  []core.LineItem   `json:"items"`
		}{rec, items})
	},
}

func splitItem(s string) (note, amount string, err error) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '=' {
			return s[:i], s[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("item %q is not in note=amount form", s)
}

func sessionErr(err error) error {
	if errors.Is(err, core.ErrSessionExpired) {
		return errors.New("session expired, run journal-cli login again")
	}
	return err
}

func init() {
	for _, cmd := range []*cobra.Command{appendCmd, fetchCmd} {
		cmd.Flags().StringVarP(&entryDate, "date", "d", core.FormatDate(time.Now()), "Slot date (M/D/YYYY)")
	}
	appendCmd.Flags().StringArrayVarP(&entryItems, "item", "i", nil, "Line item as note=amount (repeatable)")
	rootCmd.AddCommand(appendCmd, fetchCmd)
}
