package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vsxregistry/internal/models"
	"vsxregistry/internal/view"
)

var (
	browseQuery string
	browseWatch bool
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Shows the installed and search result lists",
	Long: `Loads the installed extensions and a registry search and prints both
lists. With --watch the lists are printed again whenever they change, e.g.
after the registry URL is edited in the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runBrowse(cmd.Context())
	},
}

func init() {
	browseCmd.Flags().StringVarP(&browseQuery, "query", "q", "", "search query")
	browseCmd.Flags().BoolVarP(&browseWatch, "watch", "w", false, "keep running and print lists again on change")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	installed := a.widget(view.IDInstalled, "Installed")
	defer installed.Dispose()
	search := a.widget(view.IDSearch, a.searchLabel())
	defer search.Dispose()

	a.registry.Init(ctx)
	a.registry.Wait()
	if browseQuery != "" {
		if err := a.registry.Find(ctx, &models.SearchParam{Query: browseQuery}); err != nil {
			return fmt.Errorf("error searching registry: %w", err)
		}
	}

	fmt.Print(installed.Render())
	fmt.Println()
	fmt.Print(search.Render())

	if !browseWatch {
		return nil
	}

	show := func(rendered string) {
		fmt.Println()
		fmt.Print(rendered)
	}
	installed.OnUpdate(show)
	search.OnUpdate(show)
	if err := a.prefs.Watch(); err != nil {
		a.logger.Warnw("preferences will not follow config file edits", "error", err)
	}

	fmt.Println("\nWatching for changes. Press Ctrl+C to stop")
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigChan:
	case <-ctx.Done():
	}
	return nil
}
