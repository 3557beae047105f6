package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eraxe/kayland/internal/history"
	"github.com/eraxe/kayland/internal/ui/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Live dashboard for the running daemon",
	Long: `Renders daemon status, registered applications with their execution
counters, shortcut bindings, and recent actions, refreshing until
interrupted. Requires a running kaylandd.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().Duration("refresh", 2*time.Second, "refresh interval")
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cli, ok := daemonClient(ctx)
	if !ok {
		return fmt.Errorf("no daemon on %s; start one with kayland service start", settings.SocketPath())
	}
	var hist *history.Store
	if st, err := history.Open(ctx, settings.HistoryPath, settings.HistoryLimit); err != nil {
		logger.Warnf("history unavailable: %v", err)
	} else {
		hist = st
		defer st.Close()
	}
	renderer := tui.New(cli, hist, cmd.OutOrStdout())
	if refresh, _ := cmd.Flags().GetDuration("refresh"); refresh > 0 {
		renderer.Refresh = refresh
	}
	if err := renderer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
