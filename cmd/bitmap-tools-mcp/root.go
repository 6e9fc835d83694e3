package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/bitmap-tools-mcp/internal/capture"
	"github.com/ironsheep/bitmap-tools-mcp/internal/config"
	"github.com/ironsheep/bitmap-tools-mcp/internal/logger"
	"github.com/ironsheep/bitmap-tools-mcp/internal/server"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "bitmap-tools-mcp",
		Short: "MCP server for pixel-exact bitmap search",
		Long: `bitmap-tools-mcp finds colors and sub-images inside bitmaps loaded from
files or captured from the screen.

Run without a subcommand it serves the MCP protocol over stdin/stdout; configure
it in your MCP client. The find-color and find-bitmap subcommands run a single
search from the shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				config.SetConfigPath(configPath)
			}
			if err := config.Init(); err != nil {
				return err
			}
			logger.SetLevel(config.Get().LogLevel)
			if used := config.ConfigFileUsed(); used != "" {
				logger.Debug("loaded config", "file", used)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.Version = Version
	root.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HOME/.config/bitmap-tools-mcp/bitmap-tools-mcp.yaml)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newFindColorCmd())
	root.AddCommand(newFindBitmapCmd())
	return root
}

func runServe() error {
	cfg := config.Get()

	opts := []server.Option{
		server.WithVersion(Version),
		server.WithDefaultTolerance(cfg.Search.DefaultTolerance),
	}
	if cfg.Capture.Enabled {
		opts = append(opts, server.WithCapturer(capture.NewScreen(cfg.Capture.Display, cfg.Capture.Scale)))
	}

	logger.Info("starting MCP server",
		"version", Version,
		"commit", GitCommit,
		"capture", cfg.Capture.Enabled,
		"display", cfg.Capture.Display,
		"scale", cfg.Capture.Scale,
	)
	return server.New(opts...).Run()
}
