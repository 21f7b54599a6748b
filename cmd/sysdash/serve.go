package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/tomek7667/sysdash/internal/config"
	"github.com/tomek7667/sysdash/internal/http"
)

func cmdServe() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Sample this host and serve the dashboard, JSON API, metrics and stream",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				EnvVars: []string{"PORT"},
				Value:   config.DefaultPort,
			},
			&cli.StringFlag{
				Name:  "disk",
				Usage: "mount point whose usage feeds the disk chart",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if c.IsSet("port") {
				cfg.Server.Port = c.Int("port")
			}
			if c.IsSet("disk") {
				cfg.Server.DiskPath = c.String("disk")
			}
			return runServe(c.Context, cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	monitor := http.NewResourceMonitor(cfg.Server.DiskPath, cfg.Server.SampleInterval, cfg.Server.ProcessInterval)
	monitor.Start(ctx.Done())

	server := http.New(cfg.Server.Port, monitor, cfg.Server.SampleInterval)
	return server.Serve(ctx)
}
