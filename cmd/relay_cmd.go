package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nextlevelbuilder/discordrpc/internal/config"
	"github.com/nextlevelbuilder/discordrpc/internal/relay"
)

func relayCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Run the token relay service",
		Long: `Run the HTTP service that exchanges authorization codes and refresh
tokens with Discord on behalf of clients, keeping the client secret out
of distributed binaries. Requires relay.client_secret in the config.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if cfg.Relay.ClientSecret == "" {
				fatal(fmt.Errorf("relay.client_secret is not configured"))
			}

			srv := relay.New(relay.Config{
				Addr:          cfg.Relay.Addr,
				ClientID:      cfg.ClientID,
				ClientSecret:  cfg.Relay.ClientSecret,
				AllowedScopes: cfg.Relay.AllowedScopes,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.Run(ctx) })
			if watch {
				path := configPath
				if path == "" {
					path = config.DefaultPath()
				}
				g.Go(func() error {
					err := config.Watch(ctx, path, func(cfg *config.Config) {
						srv.SetAllowedScopes(cfg.Relay.AllowedScopes)
					})
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				})
			}
			if err := g.Wait(); err != nil {
				fatal(err)
			}
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the scope allow-list when the config changes")
	return cmd
}
