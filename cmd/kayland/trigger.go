package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger <chord>",
	Short: "Toggle the application bound to a key chord",
	Long: `Resolves a key chord such as "meta+b" (any modifier order and case) to
its bound alias and toggles that application. Intended as the target of
a KDE global shortcut.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrigger,
}

func init() {
	rootCmd.AddCommand(triggerCmd)
}

func runTrigger(cmd *cobra.Command, args []string) error {
	ctx, cancel := toggleBudget(cmd.Context())
	defer cancel()
	if cli, ok := daemonClient(ctx); ok {
		result, err := cli.Trigger(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), describeAction(result.Action, result.DryRun))
		return nil
	}
	shortcuts, err := openShortcuts()
	if err != nil {
		return err
	}
	alias, err := shortcuts.Resolve(args[0])
	if err != nil {
		return err
	}
	action, err := localToggle(ctx, alias)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), describeAction(action, false))
	return nil
}
