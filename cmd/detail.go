package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	detailHTML bool
	detailOpen bool
)

var detailCmd = &cobra.Command{
	Use:   "detail [PUBLISHER.NAME]",
	Short: "Shows the full registry metadata of an extension",
	Long: `Shows the full registry metadata of an extension as JSON.
With --html the sanitized README is printed instead, with --open the
registry page is opened in the browser.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runDetail(cmd, args[0])
	},
}

func init() {
	detailCmd.Flags().BoolVar(&detailHTML, "html", false, "print the compiled README HTML")
	detailCmd.Flags().BoolVar(&detailOpen, "open", false, "open the registry page in the browser")
	rootCmd.AddCommand(detailCmd)
}

func runDetail(cmd *cobra.Command, extensionID string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	detail, err := a.lookup(cmd.Context(), extensionID)
	if err != nil {
		return err
	}
	a.logger.LogExtensionInfo(detail.ID(), detail.Label(), detail.Publisher)

	if detailOpen {
		ext := detail.ExtensionPart
		ext.URL = a.registry.CreateEndpoint([]string{detail.Publisher, detail.Name})
		if err := a.registry.OpenExtensionDetail(cmd.Context(), ext); err != nil {
			return fmt.Errorf("error opening extension page: %w", err)
		}
	}

	if detailHTML {
		html, err := a.registry.CompileDocumentation(cmd.Context(), *detail)
		if err != nil {
			return fmt.Errorf("error compiling documentation: %w", err)
		}
		fmt.Println(html)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(detail)
}
