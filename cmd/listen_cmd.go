package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/discordrpc/pkg/discord"
	"github.com/nextlevelbuilder/discordrpc/pkg/protocol"
)

func listenCmd() *cobra.Command {
	var (
		guildID   string
		channelID string
	)
	cmd := &cobra.Command{
		Use:   "listen [event]...",
		Short: "Subscribe to push events and print them as they arrive",
		Long: `Subscribe to one or more push events and print each delivery as a JSON
line. Guild-scoped events need --guild, channel-scoped events need
--channel. Runs until interrupted.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := mustConnect(cmd)
			defer client.Close()
			// Reads on the pipe do not watch ctx; closing the client is
			// what unblocks them on interrupt.
			go func() {
				<-ctx.Done()
				client.Close()
			}()

			for _, name := range args {
				sub, err := subscriptionFor(name, guildID, channelID)
				if err != nil {
					fatal(err)
				}
				if err := client.Subscribe(ctx, sub); err != nil {
					fatal(fmt.Errorf("subscribe %s: %w", name, err))
				}
			}

			for {
				ev, err := client.Event(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					fatal(err)
				}
				line, _ := json.Marshal(map[string]any{"evt": ev.EventName(), "data": ev})
				fmt.Println(string(line))
			}
		},
	}
	cmd.Flags().StringVar(&guildID, "guild", "", "guild id for guild-scoped events")
	cmd.Flags().StringVar(&channelID, "channel", "", "channel id for channel-scoped events")
	return cmd
}

// subscriptionFor maps an event name to a subscription, validating that the
// scope id the event needs was provided.
func subscriptionFor(name, guildID, channelID string) (protocol.Subscription, error) {
	needChannel := func(build func(discord.Snowflake) protocol.Subscription) (protocol.Subscription, error) {
		if channelID == "" {
			return protocol.Subscription{}, fmt.Errorf("event %s requires --channel", name)
		}
		return build(parseSnowflake(channelID)), nil
	}

	switch name {
	case protocol.EventGuildStatus:
		if guildID == "" {
			return protocol.Subscription{}, fmt.Errorf("event %s requires --guild", name)
		}
		return protocol.SubGuildStatus(parseSnowflake(guildID)), nil
	case protocol.EventGuildCreate:
		return protocol.SubGuildCreate(), nil
	case protocol.EventChannelCreate:
		return protocol.SubChannelCreate(), nil
	case protocol.EventVoiceChannelSelect:
		return protocol.SubVoiceChannelSelect(), nil
	case protocol.EventVoiceStateCreate:
		return needChannel(protocol.SubVoiceStateCreate)
	case protocol.EventVoiceStateUpdate:
		return needChannel(protocol.SubVoiceStateUpdate)
	case protocol.EventVoiceStateDelete:
		return needChannel(protocol.SubVoiceStateDelete)
	case protocol.EventVoiceSettingsUpdate:
		return protocol.SubVoiceSettingsUpdate(), nil
	case protocol.EventVoiceConnectionStatus:
		return protocol.SubVoiceConnectionStatus(), nil
	case protocol.EventSpeakingStart:
		return needChannel(protocol.SubSpeakingStart)
	case protocol.EventSpeakingStop:
		return needChannel(protocol.SubSpeakingStop)
	case protocol.EventMessageCreate:
		return needChannel(protocol.SubMessageCreate)
	case protocol.EventMessageUpdate:
		return needChannel(protocol.SubMessageUpdate)
	case protocol.EventMessageDelete:
		return needChannel(protocol.SubMessageDelete)
	case protocol.EventNotificationCreate:
		return protocol.SubNotificationCreate(), nil
	case protocol.EventActivityJoin:
		return protocol.SubActivityJoin(), nil
	case protocol.EventActivitySpectate:
		return protocol.SubActivitySpectate(), nil
	case protocol.EventActivityJoinRequest:
		return protocol.SubActivityJoinRequest(), nil
	default:
		return protocol.Subscription{}, fmt.Errorf("unknown event %q", name)
	}
}
