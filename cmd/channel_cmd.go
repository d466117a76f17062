package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/discordrpc/pkg/discord"
	"github.com/nextlevelbuilder/discordrpc/pkg/rpc"
)

func channelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Inspect guilds and channels",
	}
	cmd.AddCommand(channelGuildsCmd())
	cmd.AddCommand(channelListCmd())
	cmd.AddCommand(channelVoiceCmd())
	return cmd
}

func channelGuildsCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "guilds",
		Short: "List the guilds the user belongs to",
		Run: func(cmd *cobra.Command, args []string) {
			client := mustConnect(cmd)
			defer client.Close()

			guilds, err := client.GetGuilds(cmd.Context())
			if err != nil {
				fatal(err)
			}
			if jsonOutput {
				printJSON(guilds)
				return
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "ID\tNAME\n")
			for _, g := range guilds {
				fmt.Fprintf(tw, "%s\t%s\n", g.ID, g.Name)
			}
			tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func channelListCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list [guildId]",
		Short: "List the channels of a guild",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			guildID := parseSnowflake(args[0])
			client := mustConnect(cmd)
			defer client.Close()

			channels, err := client.GetChannels(cmd.Context(), guildID)
			if err != nil {
				fatal(err)
			}
			if jsonOutput {
				printJSON(channels)
				return
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "ID\tTYPE\tNAME\n")
			for _, ch := range channels {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", ch.ID, ch.Type, ch.Name)
			}
			tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func channelVoiceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voice",
		Short: "Show the voice channel the user is currently in",
		Run: func(cmd *cobra.Command, args []string) {
			client := mustConnect(cmd)
			defer client.Close()

			ch, err := client.GetSelectedVoiceChannel(cmd.Context())
			if err != nil {
				fatal(err)
			}
			if ch == nil {
				fmt.Println("Not in a voice channel.")
				return
			}
			printJSON(ch)
		},
	}
}

func mustConnect(cmd *cobra.Command) *rpc.Client {
	cfg := loadConfig()
	client, err := newBuilder(cfg).Connect(cmd.Context())
	if err != nil {
		fatal(err)
	}
	return client
}

func parseSnowflake(raw string) discord.Snowflake {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		fatal(fmt.Errorf("invalid id %q: %w", raw, err))
	}
	return discord.Snowflake(id)
}

func printJSON(v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}
