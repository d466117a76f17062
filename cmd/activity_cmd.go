package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/discordrpc/pkg/discord"
)

func activityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Manage the rich presence activity",
	}
	cmd.AddCommand(activitySetCmd())
	return cmd
}

func activitySetCmd() *cobra.Command {
	var (
		details    string
		largeImage string
		largeText  string
		smallImage string
		smallText  string
		startNow   bool
		hold       bool
	)
	cmd := &cobra.Command{
		Use:   "set [state]",
		Short: "Publish an activity for this process",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			client := mustConnect(cmd)
			defer client.Close()

			activity := discord.StateActivity(args[0])
			if details != "" {
				activity.Details = discord.Ptr(details)
			}
			if largeImage != "" || smallImage != "" {
				assets := &discord.Assets{}
				if largeImage != "" {
					assets.LargeImage = discord.Ptr(largeImage)
				}
				if largeText != "" {
					assets.LargeText = discord.Ptr(largeText)
				}
				if smallImage != "" {
					assets.SmallImage = discord.Ptr(smallImage)
				}
				if smallText != "" {
					assets.SmallText = discord.Ptr(smallText)
				}
				activity.Assets = assets
			}
			if startNow {
				activity.Timestamps = &discord.Timestamps{Start: discord.Ptr(discord.Now())}
			}

			set, err := client.SetActivity(cmd.Context(), os.Getpid(), activity)
			if err != nil {
				fatal(err)
			}
			printJSON(set)

			// Discord drops the activity when the connection closes, so
			// --hold keeps it alive until interrupted.
			if hold {
				stop := make(chan os.Signal, 1)
				signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
				<-stop
			}
		},
	}
	cmd.Flags().StringVar(&details, "details", "", "second line of the activity")
	cmd.Flags().StringVar(&largeImage, "large-image", "", "large image asset key")
	cmd.Flags().StringVar(&largeText, "large-text", "", "large image hover text")
	cmd.Flags().StringVar(&smallImage, "small-image", "", "small image asset key")
	cmd.Flags().StringVar(&smallText, "small-text", "", "small image hover text")
	cmd.Flags().BoolVar(&startNow, "start-now", false, "show elapsed time from now")
	cmd.Flags().BoolVar(&hold, "hold", false, "keep the connection open until interrupted")
	return cmd
}
