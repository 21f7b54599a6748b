package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/tomek7667/sysdash/internal/config"
	"github.com/tomek7667/sysdash/internal/dashboard"
	"github.com/tomek7667/sysdash/internal/json"
	"github.com/tomek7667/sysdash/internal/tui"
)

func cmdWatch() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Poll a running sysdash server and draw its dashboard in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "base URL of the server to watch",
				Value:   config.DefaultBaseURL,
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "initial sort field: name, cpu, mem or pid",
				Value: config.DefaultSortField,
			},
			&cli.BoolFlag{
				Name:  "asc",
				Usage: "sort ascending instead of descending",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "write logs here instead of discarding them while the terminal is in use",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if c.IsSet("url") {
				cfg.Dashboard.BaseURL = c.String("url")
			}
			if c.IsSet("sort") {
				cfg.Dashboard.SortField = c.String("sort")
			}
			if c.IsSet("asc") {
				cfg.Dashboard.Ascending = c.Bool("asc")
			}
			if c.IsSet("log-file") {
				cfg.Dashboard.LogFile = c.String("log-file")
			}
			return runWatch(c.Context, cfg, c.String("config"))
		},
	}
}

func runWatch(ctx context.Context, cfg *config.Config, configPath string) error {
	logger, closeLog, err := watchLogger(cfg.Dashboard.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	field, err := dashboard.ParseSortField(cfg.Dashboard.SortField)
	if err != nil {
		return err
	}

	client, err := json.New(cfg.Dashboard.BaseURL, cfg.Dashboard.RequestTimeout)
	if err != nil {
		return fmt.Errorf("failed to create api client: %w", err)
	}

	screen := tui.NewScreen()
	d := dashboard.New(client, screen, dashboard.NewState(field, cfg.Dashboard.Ascending), logger)

	perf := dashboard.NewPoller("performance", cfg.Dashboard.PerformanceInterval, d.RefreshPerformance)
	procs := dashboard.NewPoller("processes", cfg.Dashboard.ProcessInterval, d.RefreshProcesses)

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup
	for _, p := range []*dashboard.Poller{perf, procs} {
		p := p
		p.OnResult = func(r dashboard.Result) {
			// Failures are already logged by the dashboard.
			if r.Outcome == dashboard.OutcomeStale {
				logger.Info("dashboard: dropped out-of-order response", "poll", r.Poll, "seq", r.Seq)
			}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Run(ctx)
		}()
	}

	if configPath != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := config.Watch(ctx, configPath, func(next *config.Config) {
				perf.SetInterval(next.Dashboard.PerformanceInterval)
				procs.SetInterval(next.Dashboard.ProcessInterval)
			})
			if err != nil {
				logger.Error("config: watch stopped", "err", err)
			}
		}()
	}

	err = screen.Run(ctx, d)
	cancel()
	wg.Wait()
	return err
}

// watchLogger keeps log output off the terminal the dashboard is drawn on.
func watchLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return logger, func() { f.Close() }, nil
}
