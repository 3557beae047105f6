package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var launchCmd = &cobra.Command{
	Use:   "launch <alias>",
	Short: "Toggle the application registered under alias",
	Long: `Activates the lowest-id matching window, minimizes it when it already
has focus, or launches the registered command when nothing matches.
Delegates to a running kaylandd when one answers on the control socket.`,
	Args: cobra.ExactArgs(1),
	RunE: runLaunch,
}

func init() {
	rootCmd.AddCommand(launchCmd)
}

func runLaunch(cmd *cobra.Command, args []string) error {
	ctx, cancel := toggleBudget(cmd.Context())
	defer cancel()
	if cli, ok := daemonClient(ctx); ok {
		result, err := cli.Toggle(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), describeAction(result.Action, result.DryRun))
		return nil
	}
	action, err := localToggle(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), describeAction(action, false))
	return nil
}
