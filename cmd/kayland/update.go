package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <alias>",
	Short: "Edit fields of an application definition",
	Long: `Updates only the fields whose flags are given; everything else keeps its
current value. Passing --alias renames the definition while keeping its
id, so existing shortcuts bound to the old alias must be rebound.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().String("name", "", "display name")
	updateCmd.Flags().String("alias", "", "new alias")
	updateCmd.Flags().String("class", "", "window class pattern")
	updateCmd.Flags().String("resource", "", "window resource pattern")
	updateCmd.Flags().String("title", "", "window title pattern")
	updateCmd.Flags().String("command", "", "launch command")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	apps, err := openApps()
	if err != nil {
		return err
	}
	app, err := apps.Get(args[0])
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("name") {
		app.Name, _ = flags.GetString("name")
	}
	if flags.Changed("alias") {
		app.Alias, _ = flags.GetString("alias")
	}
	if flags.Changed("class") {
		app.ClassPattern, _ = flags.GetString("class")
	}
	if flags.Changed("resource") {
		app.ResourcePattern, _ = flags.GetString("resource")
	}
	if flags.Changed("title") {
		app.TitlePattern, _ = flags.GetString("title")
	}
	if flags.Changed("command") {
		app.Command, _ = flags.GetString("command")
	}
	if err := apps.Update(args[0], app); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", app.Alias)
	return nil
}
