package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/groblegark/warden/internal/model"
	"github.com/groblegark/warden/internal/ui"
)

var guildsCmd = &cobra.Command{
	Use:   "guilds",
	Short: "List tracked guilds and their settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := adminClient.ListGuilds(context.Background())
		if err != nil {
			return fmt.Errorf("listing guilds: %w", err)
		}

		if jsonOutput {
			data, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if resp.Total == 0 {
			fmt.Println("No guilds tracked.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "GUILD\tPREFIX\tOWNER\tMUTE\tUPDATED")
		for _, gs := range resp.Guilds {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				ui.RenderAccent(strconv.FormatUint(gs.GuildID, 10)),
				ui.RenderPrefix(gs.Prefix),
				gs.OwnerID,
				muteSummary(gs),
				ui.RenderMuted(gs.UpdatedAt.Format("2006-01-02 15:04")),
			)
		}
		w.Flush()
		fmt.Printf("\n%d guild(s)\n", resp.Total)
		return nil
	},
}

var guildCmd = &cobra.Command{
	Use:   "guild <id>",
	Short: "Show settings for one guild",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid guild id %q", args[0])
		}

		gs, err := adminClient.GetGuild(context.Background(), id)
		if err != nil {
			return fmt.Errorf("fetching guild: %w", err)
		}

		if jsonOutput {
			data, err := json.MarshalIndent(gs, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Guild:   %s\n", ui.RenderAccent(strconv.FormatUint(gs.GuildID, 10)))
		fmt.Printf("Prefix:  %s\n", ui.RenderPrefix(gs.Prefix))
		fmt.Printf("Owner:   %d\n", gs.OwnerID)
		fmt.Printf("Mute:    %s\n", muteSummary(*gs))
		fmt.Printf("Updated: %s\n", ui.RenderMuted(gs.UpdatedAt.Format("2006-01-02 15:04:05")))
		return nil
	},
}

func muteSummary(gs model.GuildSettings) string {
	if gs.MuteType == model.MuteRole && gs.MuteRoleID != 0 {
		return fmt.Sprintf("role %d", gs.MuteRoleID)
	}
	return gs.MuteType.String()
}

func init() {
	rootCmd.AddCommand(guildCmd)
}
