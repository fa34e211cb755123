package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var readmeWidth int

var readmeCmd = &cobra.Command{
	Use:   "readme [PUBLISHER.NAME]",
	Short: "Renders the README of an extension in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runReadme(cmd, args[0])
	},
}

func init() {
	readmeCmd.Flags().IntVar(&readmeWidth, "width", 100, "word wrap width")
	rootCmd.AddCommand(readmeCmd)
}

func runReadme(cmd *cobra.Command, extensionID string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	detail, err := a.lookup(cmd.Context(), extensionID)
	if err != nil {
		return err
	}
	if detail.ReadmeURL == "" {
		fmt.Printf("%s has no README\n", detail.ID())
		return nil
	}

	readme, err := a.registry.GetExtensionReadMe(cmd.Context(), detail.ReadmeURL)
	if err != nil {
		return fmt.Errorf("error getting README: %w", err)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(readmeWidth),
	)
	if err != nil {
		return fmt.Errorf("error creating markdown renderer: %w", err)
	}
	out, err := renderer.Render(readme)
	if err != nil {
		return fmt.Errorf("error rendering README: %w", err)
	}
	fmt.Print(out)
	return nil
}
