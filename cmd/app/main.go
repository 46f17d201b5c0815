package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/berkano/internal"
	pkgconfig "github.com/starford/berkano/pkg/config"
)

func loadOptions(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil || cmd.IsSet("config") {
			if err := pkgconfig.Load(configPath, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return []internal.Option{internal.WithConfig(cfg)}, nil
}

func withOptions(entry func(context.Context, ...internal.Option) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		return entry(ctx, opts...)
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "berkano",
		Usage: "Digital garden compiler: Markdown notes in, static site out",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Generate the static site once",
				Action: withOptions(internal.Build),
			},
			{
				Name:   "serve",
				Usage:  "Serve the site locally, rebuilding on changes",
				Action: withOptions(internal.Serve),
			},
			{
				Name:   "browse",
				Usage:  "Browse the garden in the terminal",
				Action: withOptions(internal.Browse),
			},
			{
				Name:   "mcp",
				Usage:  "Serve the garden to LLM clients over stdio",
				Action: withOptions(internal.MCP),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
