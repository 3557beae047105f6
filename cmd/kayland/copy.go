package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var copyCmd = &cobra.Command{
	Use:   "copy <src-alias> <new-alias>",
	Short: "Duplicate an application definition under a new alias",
	Long: `Copies every field of an existing definition to a new alias with a fresh
id. Useful for variants of the same program, such as a second browser
profile with a different title pattern.`,
	Args: cobra.ExactArgs(2),
	RunE: runCopy,
}

func init() {
	rootCmd.AddCommand(copyCmd)
	copyCmd.Flags().String("name", "", "display name for the copy (default: source name)")
}

func runCopy(cmd *cobra.Command, args []string) error {
	apps, err := openApps()
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	created, err := apps.Copy(args[0], args[1], name)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "copied %s to %s\n", args[0], created.Alias)
	return nil
}
