package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eraxe/kayland/internal/registry"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new application definition",
	Long: `Registers an application under a unique alias. Patterns are matched as
regular expressions against window class, resource, and title, falling
back to plain substring containment when a pattern does not compile.
The command is run via /bin/sh -c when no window matches.`,
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().String("name", "", "display name")
	addCmd.Flags().String("alias", "", "unique alias used by launch and shortcuts")
	addCmd.Flags().String("class", "", "window class pattern")
	addCmd.Flags().String("resource", "", "window resource pattern")
	addCmd.Flags().String("title", "", "window title pattern")
	addCmd.Flags().String("command", "", "launch command")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("alias")
	_ = addCmd.MarkFlagRequired("class")
	_ = addCmd.MarkFlagRequired("command")
}

func runAdd(cmd *cobra.Command, args []string) error {
	apps, err := openApps()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	name, _ := flags.GetString("name")
	alias, _ := flags.GetString("alias")
	class, _ := flags.GetString("class")
	resource, _ := flags.GetString("resource")
	title, _ := flags.GetString("title")
	command, _ := flags.GetString("command")
	app := registry.App{
		Alias:           alias,
		Name:            name,
		ClassPattern:    class,
		ResourcePattern: resource,
		TitlePattern:    title,
		Command:         command,
	}
	if err := apps.Add(app); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", alias)
	return nil
}
