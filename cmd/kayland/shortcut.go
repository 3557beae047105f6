package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eraxe/kayland/internal/registry"
)

var shortcutCmd = &cobra.Command{
	Use:   "shortcut",
	Short: "Manage key-chord bindings",
	Long: `Binds key chords to application aliases for the trigger command. Chords
are normalized on write: "B+Alt" and "alt+b" are the same binding.`,
}

var shortcutAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Bind a key chord to an application alias",
	RunE:  runShortcutAdd,
}

var shortcutRemoveCmd = &cobra.Command{
	Use:   "remove <chord>",
	Short: "Delete a key-chord binding",
	Args:  cobra.ExactArgs(1),
	RunE:  runShortcutRemove,
}

var shortcutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List key-chord bindings",
	RunE:  runShortcutList,
}

func init() {
	rootCmd.AddCommand(shortcutCmd)
	shortcutCmd.AddCommand(shortcutAddCmd, shortcutRemoveCmd, shortcutListCmd)
	shortcutAddCmd.Flags().String("app", "", "application alias to bind")
	shortcutAddCmd.Flags().String("key", "", "key chord, e.g. meta+b")
	_ = shortcutAddCmd.MarkFlagRequired("app")
	_ = shortcutAddCmd.MarkFlagRequired("key")
	shortcutListCmd.Flags().Bool("json", false, "emit JSON")
}

func runShortcutAdd(cmd *cobra.Command, args []string) error {
	shortcuts, err := openShortcuts()
	if err != nil {
		return err
	}
	app, _ := cmd.Flags().GetString("app")
	key, _ := cmd.Flags().GetString("key")
	chord, err := registry.NormalizeChord(key)
	if err != nil {
		return err
	}
	if err := shortcuts.Add(chord, app); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "bound %s to %s\n", chord, app)
	return nil
}

func runShortcutRemove(cmd *cobra.Command, args []string) error {
	shortcuts, err := openShortcuts()
	if err != nil {
		return err
	}
	chord, err := registry.NormalizeChord(args[0])
	if err != nil {
		return err
	}
	if err := shortcuts.Remove(chord); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "unbound %s\n", chord)
	return nil
}

func runShortcutList(cmd *cobra.Command, args []string) error {
	shortcuts, err := openShortcuts()
	if err != nil {
		return err
	}
	bindings := shortcuts.List()
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].Chord < bindings[j].Chord })
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd.OutOrStdout(), bindings)
	}
	if len(bindings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no shortcuts bound")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Chord\tApp")
	for _, b := range bindings {
		fmt.Fprintf(tw, "%s\t%s\n", b.Chord, b.Alias)
	}
	tw.Flush()
	return nil
}
