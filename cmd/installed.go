package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vsxregistry/internal/view"
)

var installedCmd = &cobra.Command{
	Use:   "installed",
	Short: "Lists the installed extensions as known to the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runInstalled(cmd)
	},
}

func init() {
	rootCmd.AddCommand(installedCmd)
}

func runInstalled(cmd *cobra.Command) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	widget := a.widget(view.IDInstalled, "Installed")
	defer widget.Dispose()

	if err := a.registry.UpdateInstalled(cmd.Context()); err != nil {
		return fmt.Errorf("error resolving installed extensions: %w", err)
	}
	fmt.Print(widget.Render())

	stats, err := a.host.Stats()
	if err != nil {
		return err
	}
	if skipped := stats.Total - int64(stats.VSCode); skipped > 0 {
		fmt.Printf("\n%d deployed package(s) are not VS Code extensions and are not listed\n", skipped)
	}
	return nil
}
