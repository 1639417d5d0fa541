package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/warden/internal/client"
	"github.com/groblegark/warden/internal/ui"
)

var (
	httpURL    string
	jsonOutput bool

	adminClient *client.Client
)

func defaultHTTPURL() string {
	if s := os.Getenv("WARDEN_HTTP_URL"); s != "" {
		return s
	}
	if u := activeEndpointURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

var rootCmd = &cobra.Command{
	Use:   "warden <command>",
	Short: "Guild settings daemon and CLI",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		adminClient = client.New(httpURL)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "admin API URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(guildsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
