package cmd

import (
	"context"
	"fmt"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check API status and connection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client, stopSpinner := newClient(cfg)
		defer stopSpinner()

		err := client.TestConnection(context.Background())
		stopSpinner()
		if err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}

		fmt.Printf("%s Webamon Search API is accessible\n", color.Green.Render("✓"))
		fmt.Printf("Endpoint: %s\n", client.BaseURL())
		if client.HasAPIKey() {
			fmt.Println("Tier: pro (API key set)")
		} else {
			fmt.Println("Tier: free (no API key, 20 queries/day)")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
