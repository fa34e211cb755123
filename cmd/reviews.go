package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews [PUBLISHER.NAME]",
	Short: "Lists the user reviews of an extension",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runReviews(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(reviewsCmd)
}

func runReviews(cmd *cobra.Command, extensionID string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	detail, err := a.lookup(cmd.Context(), extensionID)
	if err != nil {
		return err
	}
	if detail.ReviewsURL == "" {
		fmt.Printf("%s has no reviews\n", detail.ID())
		return nil
	}

	list, err := a.registry.GetExtensionReviews(cmd.Context(), detail.ReviewsURL)
	if err != nil {
		return fmt.Errorf("error getting reviews: %w", err)
	}

	fmt.Printf("%s: %d review(s)\n", detail.Label(), len(list.Reviews))
	for _, r := range list.Reviews {
		stars := min(max(r.Rating, 0), 5)
		fmt.Printf("\n%s%s  %s\n", strings.Repeat("★", stars), strings.Repeat("☆", 5-stars), r.User.LoginName)
		if r.Title != "" {
			fmt.Printf("  %s\n", r.Title)
		}
		if r.Comment != "" {
			fmt.Printf("  %s\n", r.Comment)
		}
	}
	return nil
}
