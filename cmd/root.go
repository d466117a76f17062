// Package cmd implements the discordrpc command line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/discordrpc/internal/config"
	"github.com/nextlevelbuilder/discordrpc/pkg/oauth"
	"github.com/nextlevelbuilder/discordrpc/pkg/rpc"
)

var (
	configPath string
	verbose    bool
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discordrpc",
		Short: "Talk to the local Discord client over its IPC channel",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(activityCmd())
	cmd.AddCommand(channelCmd())
	cmd.AddCommand(listenCmd())
	cmd.AddCommand(relayCmd())
	return cmd
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// newBuilder translates the config into a connection builder.
func newBuilder(cfg *config.Config) *rpc.Builder {
	b := rpc.New(cfg.ClientID)
	for _, scope := range cfg.Scopes {
		b.Scope(scope)
	}
	switch {
	case cfg.Secret != "":
		b.Secret(cfg.Secret)
	case cfg.RelayURL != "":
		b.RemoteSecret(cfg.RelayURL)
	}
	switch {
	case cfg.Keyring:
		b.SaveToken(oauth.KeyringSaver{Service: "discordrpc", User: cfg.ClientID.String()})
	case cfg.TokenFile != "":
		b.SaveToken(oauth.FileSaver{Path: cfg.TokenFile})
	}
	return b
}
