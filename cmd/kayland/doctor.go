package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eraxe/kayland/internal/doctor"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment for problems",
	Long: `Verifies the pieces kayland depends on: a Wayland session, the kdotool
binary, a writable config directory, the history database, and whether
a daemon is answering on the control socket. Exits 1 when any check
fails; warnings alone do not fail the run.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	result := doctor.Run(cmd.Context(), doctor.Options{Settings: *settings})
	w := cmd.OutOrStdout()
	for _, c := range result.Checks {
		line := fmt.Sprintf("[%s] %s: %s", strings.ToUpper(c.Status), c.Name, c.Message)
		if c.Path != "" {
			line += " (" + c.Path + ")"
		}
		fmt.Fprintln(w, line)
	}
	if !result.OK {
		return errors.New("environment problems found")
	}
	return nil
}
