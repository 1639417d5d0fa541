package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/warden/internal/ui"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the warden daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := adminClient.Health(context.Background())
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			data, err := json.MarshalIndent(map[string]string{"status": status}, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
		} else {
			fmt.Printf("Health: %s\n", status)
		}

		if status != "ok" {
			return fmt.Errorf("unhealthy: %s", ui.RenderWarn(status))
		}
		return nil
	},
}
