package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/warden/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := adminClient.Status(context.Background())
		if err != nil {
			return fmt.Errorf("fetching status: %w", err)
		}

		if jsonOutput {
			data, err := json.MarshalIndent(status, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Guilds:   %d\n", status.Guilds)
		fmt.Printf("Presence: %s\n", ui.RenderAccent(status.Presence))
		fmt.Printf("Uptime:   %s\n", ui.RenderMuted((time.Duration(status.UptimeSecs) * time.Second).String()))
		return nil
	},
}
