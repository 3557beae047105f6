package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eraxe/kayland/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently executed actions",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "maximum entries to show")
	historyCmd.Flags().Bool("json", false, "emit JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := history.Open(ctx, settings.HistoryPath, settings.HistoryLimit)
	if err != nil {
		return err
	}
	defer st.Close()
	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := st.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd.OutOrStdout(), entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no recorded actions")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Time\tAlias\tAction\tTarget\tResult")
	for _, e := range entries {
		target := e.WindowID
		if target == "" {
			target = e.Command
		}
		if target == "" {
			target = "-"
		}
		result := "ok"
		if !e.OK {
			result = "failed"
			if e.Detail != "" {
				result = "failed: " + e.Detail
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.When.Local().Format("2006-01-02 15:04:05"), e.Alias, e.Action, target, result)
	}
	tw.Flush()
	return nil
}
