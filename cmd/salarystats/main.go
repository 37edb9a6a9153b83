package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fr4nk3nst1ner/salarystats/internal/app"
	"github.com/fr4nk3nst1ner/salarystats/internal/client"
	"github.com/fr4nk3nst1ner/salarystats/internal/config"
	"github.com/fr4nk3nst1ner/salarystats/internal/scraper"
	"github.com/fr4nk3nst1ner/salarystats/internal/ui"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "salarystats",
		Usage: "Average programmer salaries per language from hh.ru and superjob.ru",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config.yaml (default: $" + config.EnvConfigPath + " or ./config.yaml)",
			},
			&cli.StringSliceFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "only query these sources (hh, sj); repeatable",
			},
			&cli.StringSliceFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "override the configured language list; repeatable",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "HTTP timeout per request (overrides config)",
			},
			&cli.IntFlag{
				Name:  "retries",
				Usage: "extra attempts for failed page requests (overrides config)",
				Value: -1,
			},
			&cli.StringFlag{
				Name:  "proxy",
				Usage: "proxy URL to use for all requests",
			},
			&cli.BoolFlag{
				Name:  "silence",
				Usage: "silence the banner",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "hide progress bars",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger := ui.NewLogger(os.Stderr, false)
		if errors.Is(err, config.ErrMissingAPIKey) {
			logger.Error("SuperJob needs an API key", logger.Args("error", err, "hint", "put "+config.DefaultSuperJobKeyEnv+" in .env or run with --source hh"))
		} else {
			logger.Error("Run failed", logger.Args("error", err))
		}
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	ui.PrintBanner(os.Stderr, c.Bool("silence"))
	logger := ui.NewLogger(os.Stderr, c.Bool("debug"))

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	applyFlags(c, cfg)

	if err := scraper.SelectSources(cfg, c.StringSlice("source")); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	httpClient, err := client.CreateProxyHTTPClient(cfg.Proxy, cfg.Timeout)
	if err != nil {
		return err
	}
	sources, err := scraper.NewSources(cfg, httpClient)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &app.Runner{
		Config:  cfg,
		Sources: sources,
		Logger:  logger,
		Out:     os.Stdout,
	}
	if !c.Bool("no-progress") {
		runner.Progress = os.Stderr
	}

	started := time.Now()
	if _, err := runner.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted: %w", err)
		}
		return err
	}

	logger.Debug("Done", logger.Args("elapsed", time.Since(started).Round(time.Millisecond).String()))
	return nil
}

// applyFlags lets command line flags override the loaded configuration
func applyFlags(c *cli.Context, cfg *config.Config) {
	if langs := c.StringSlice("language"); len(langs) > 0 {
		cfg.Languages = langs
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.Int("retries") >= 0 {
		cfg.Retries = c.Int("retries")
	}
	if c.IsSet("proxy") {
		cfg.Proxy = c.String("proxy")
	}
}
