// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/paytrust/cmd/app/commands"
	"github.com/allisson/paytrust/internal/app"
	"github.com/allisson/paytrust/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Payment trust and compliance service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "sweep-expired-artifacts",
				Usage: "Delete payment artifacts past the retention window",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					useCase, err := container.ArtifactUseCase()
					if err != nil {
						return err
					}

					return commands.RunSweepExpiredArtifacts(
						ctx,
						useCase,
						container.Logger(),
						commands.DefaultIO().Writer,
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "verify-audit-entries",
				Usage: "Verify cryptographic integrity of the audit trail",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "start-date",
						Aliases: []string{"s"},
						Usage:   "Start date in YYYY-MM-DD or YYYY-MM-DD HH:MM:SS format (empty for unbounded)",
					},
					&cli.StringFlag{
						Name:    "end-date",
						Aliases: []string{"e"},
						Usage:   "End date in YYYY-MM-DD or YYYY-MM-DD HH:MM:SS format (empty for unbounded)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					auditor, err := container.ComplianceAuditor()
					if err != nil {
						return err
					}

					return commands.RunVerifyAuditEntries(
						ctx,
						auditor,
						container.Logger(),
						commands.DefaultIO().Writer,
						cmd.String("start-date"),
						cmd.String("end-date"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "generate-api-key",
				Usage: "Generate a new service API key and its Argon2id hash",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					return commands.RunGenerateAPIKey(
						container.APIKeyService(),
						container.Logger(),
						commands.DefaultIO().Writer,
						cmd.String("format"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
