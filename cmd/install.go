package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vsxregistry/internal/view"
)

var installCmd = &cobra.Command{
	Use:   "install [PUBLISHER.NAME]",
	Short: "Downloads an extension from the registry and deploys it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runInstall(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, extensionID string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Println("Getting extension information...")
	detail, err := a.lookup(cmd.Context(), extensionID)
	if err != nil {
		return err
	}

	fmt.Printf("\nExtension information:\n")
	fmt.Printf("  ID: %s\n", detail.ID())
	fmt.Printf("  Name: %s\n", detail.Label())
	fmt.Printf("  Publisher: %s\n", detail.Publisher)
	fmt.Printf("  Version: %s\n", detail.Version)
	if detail.Description != "" {
		fmt.Printf("  Description: %s\n", detail.Description)
	}
	if detail.DownloadURL == "" {
		return fmt.Errorf("extension %s has no downloadable package", extensionID)
	}

	fmt.Println("\nInstalling extension...")
	list := a.widget(view.IDInstalled, "Installed")
	defer list.Dispose()
	if err := list.List().Install(cmd.Context(), detail.ExtensionPart); err != nil {
		return fmt.Errorf("error installing extension: %w", err)
	}

	fmt.Printf("✅ Extension installed: %s\n", detail.Label())
	return nil
}
