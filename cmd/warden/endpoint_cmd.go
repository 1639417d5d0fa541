package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var endpointCmd = &cobra.Command{
	Use:   "endpoint",
	Short: "Manage named daemon endpoints",
	// Skip the client setup — all endpoint subcommands are local file
	// operations.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
}

var endpointAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Add or update a named endpoint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, url := args[0], args[1]

		cfg, err := loadEndpointsConfig()
		if err != nil {
			return err
		}
		cfg.Endpoints[name] = Endpoint{URL: url}
		if err := saveEndpointsConfig(cfg); err != nil {
			return err
		}
		fmt.Printf("endpoint %q added (%s)\n", name, url)
		return nil
	},
}

var endpointRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a named endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := loadEndpointsConfig()
		if err != nil {
			return err
		}
		if _, ok := cfg.Endpoints[name]; !ok {
			return fmt.Errorf("endpoint %q not found", name)
		}
		delete(cfg.Endpoints, name)
		if cfg.Active == name {
			cfg.Active = ""
		}
		if err := saveEndpointsConfig(cfg); err != nil {
			return err
		}
		fmt.Printf("endpoint %q removed\n", name)
		return nil
	},
}

var endpointListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all endpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadEndpointsConfig()
		if err != nil {
			return err
		}
		if len(cfg.Endpoints) == 0 {
			fmt.Println("no endpoints configured")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tURL")
		for name, ep := range cfg.Endpoints {
			marker := "  "
			if name == cfg.Active {
				marker = "* "
			}
			fmt.Fprintf(w, "%s%s\t%s\n", marker, name, ep.URL)
		}
		return w.Flush()
	},
}

var endpointUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := loadEndpointsConfig()
		if err != nil {
			return err
		}
		if _, ok := cfg.Endpoints[name]; !ok {
			return fmt.Errorf("endpoint %q not found", name)
		}
		cfg.Active = name
		if err := saveEndpointsConfig(cfg); err != nil {
			return err
		}
		fmt.Printf("active endpoint set to %q\n", name)
		return nil
	},
}

func init() {
	endpointCmd.AddCommand(endpointAddCmd)
	endpointCmd.AddCommand(endpointRemoveCmd)
	endpointCmd.AddCommand(endpointListCmd)
	endpointCmd.AddCommand(endpointUseCmd)

	rootCmd.AddCommand(endpointCmd)
}
