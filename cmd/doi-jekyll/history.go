// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doi-jekyll/internal/ledger"
	"github.com/pdiddy/doi-jekyll/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List DOIs registered from this blog",
	Long: `History reads the local registration ledger (.doi-jekyll/registrations.db
by default, ledger_path in the config file) and lists the newest entries.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of entries")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	cfg := registrationConfig(cmd)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := ledger.NewStore(cfg.LedgerPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(ctx, limit)
	if err != nil {
		return err
	}
	return formatHistory(cmd.OutOrStdout(), entries, jsonOutput)
}

func formatHistory(out io.Writer, entries []types.Registration, jsonOutput bool) error {
	if jsonOutput {
		if entries == nil {
			entries = []types.Registration{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No registrations recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-20s  %-32s  %-4s  %s\n", "Registered", "DOI", "URL", "Post")
	fmt.Fprintln(out, strings.Repeat("-", 90))
	for _, e := range entries {
		url := "no"
		if e.URLRegistered {
			url = "yes"
		}
		fmt.Fprintf(out, "%-20s  %-32s  %-4s  %s\n",
			e.RegisteredAt.Local().Format(time.DateTime), e.DOI, url, e.PostPath)
	}
	fmt.Fprintf(out, "\n%d registrations\n", len(entries))
	return nil
}
