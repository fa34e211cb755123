package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vsxregistry/internal/models"
	"vsxregistry/internal/view"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [QUERY...]",
	Short: "Searches the registry",
	Long:  `Searches the configured registry. Without a query the registry's default listing is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runSearch(cmd, strings.Join(args, " "))
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, query string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	widget := a.widget(view.IDSearch, a.searchLabel())
	defer widget.Dispose()

	if err := a.registry.Find(cmd.Context(), &models.SearchParam{Query: query}); err != nil {
		return fmt.Errorf("error searching registry: %w", err)
	}

	result := a.registry.SearchResult()
	a.logger.LogSearchQuery(query, len(result))
	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Print(widget.Render())
	return nil
}
