package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vsxregistry/internal/models"
	"vsxregistry/internal/pluginhost"
	"vsxregistry/internal/view"
)

var uninstallYes bool

var uninstallCmd = &cobra.Command{
	Use:   "uninstall [PUBLISHER.NAME]",
	Short: "Undeploys an installed extension and deletes its package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runUninstall(cmd, args[0])
	},
}

func init() {
	uninstallCmd.Flags().BoolVarP(&uninstallYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, extensionID string) error {
	publisher, name, err := parseExtensionID(extensionID)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	id := pluginhost.PluginID(publisher, name)
	var found *models.Plugin
	for _, p := range a.host.Plugins() {
		if p.ID == id {
			found = &p
			break
		}
	}
	if found == nil {
		return fmt.Errorf("extension with ID %s not found", id)
	}

	fmt.Printf("Found extension for removal:\n")
	fmt.Printf("  ID: %s\n", found.ID)
	fmt.Printf("  Name: %s\n", found.DisplayName)
	fmt.Printf("  Version: %s\n", found.Version)
	fmt.Printf("  File: %s\n", found.FilePath)

	if !uninstallYes {
		fmt.Printf("\nContinue with removal? (y/N): ")
		response, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Println("Removal cancelled")
			return nil
		}
	}

	list := a.widget(view.IDInstalled, "Installed")
	defer list.Dispose()
	ext := models.ExtensionPart{Publisher: publisher, Name: name}
	if err := list.List().Uninstall(cmd.Context(), ext); err != nil {
		return fmt.Errorf("error uninstalling extension: %w", err)
	}

	fmt.Printf("✅ Extension removed: %s\n", id)
	return nil
}
