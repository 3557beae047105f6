package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eraxe/kayland/internal/control"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered applications",
	Long: `Lists every application definition. When a daemon is running the listing
includes its per-app execution counters; otherwise the registry file is
read directly.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("verbose", false, "include patterns and ids")
	listCmd.Flags().Bool("json", false, "emit JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	var infos []control.AppInfo
	if cli, ok := daemonClient(ctx); ok {
		result, err := cli.List(ctx)
		if err != nil {
			return err
		}
		infos = result.Apps
	} else {
		apps, err := openApps()
		if err != nil {
			return err
		}
		for _, app := range apps.List() {
			infos = append(infos, control.AppInfo{
				ID:              app.ID,
				Alias:           app.Alias,
				Name:            app.Name,
				ClassPattern:    app.ClassPattern,
				ResourcePattern: app.ResourcePattern,
				TitlePattern:    app.TitlePattern,
				Command:         app.Command,
			})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Alias < infos[j].Alias })
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd.OutOrStdout(), infos)
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	printAppTable(cmd.OutOrStdout(), infos, verbose)
	return nil
}

func printAppTable(w io.Writer, infos []control.AppInfo, verbose bool) {
	if len(infos) == 0 {
		fmt.Fprintln(w, "no applications registered")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if verbose {
		fmt.Fprintln(tw, "Alias\tName\tClass\tResource\tTitle\tCommand\tID")
		for _, app := range infos {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				app.Alias, app.Name, orDash(app.ClassPattern), orDash(app.ResourcePattern),
				orDash(app.TitlePattern), app.Command, app.ID)
		}
	} else {
		fmt.Fprintln(tw, "Alias\tName\tCommand")
		for _, app := range infos {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", app.Alias, app.Name, app.Command)
		}
	}
	tw.Flush()
}
