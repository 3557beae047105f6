package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eraxe/kayland/internal/service"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the kaylandd systemd user unit",
	Long: `Installs and controls a systemd user unit that keeps kaylandd running
for the graphical session. All operations use systemctl --user.`,
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Write the unit file, enable it, and start the daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := service.NewManager(logger).Install(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "installed and started %s\n", service.UnitName)
		return nil
	},
}

var serviceUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Stop the daemon and remove the unit file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := service.NewManager(logger).Uninstall(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", service.UnitName)
		return nil
	},
}

var serviceStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon unit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := service.NewManager(logger).Start(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "started %s\n", service.UnitName)
		return nil
	},
}

var serviceStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon unit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := service.NewManager(logger).Stop(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stopped %s\n", service.UnitName)
		return nil
	},
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the unit is installed and active",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := service.NewManager(logger).CurrentStatus(cmd.Context())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "unit: %s\n", st.UnitPath)
		fmt.Fprintf(w, "installed: %v\n", st.Installed)
		fmt.Fprintf(w, "active: %s\n", st.Active)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.AddCommand(serviceInstallCmd, serviceUninstallCmd, serviceStartCmd, serviceStopCmd, serviceStatusCmd)
}
