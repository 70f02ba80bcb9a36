package main

import (
	"os"
	"os/signal"
	"syscall"

	"social-feed-backend/cmd"
	"social-feed-backend/internal/config"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:   "feedd",
		Usage:  "social graph and feed API server",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				EnvVars: []string{"FEED_CONFIG"},
				Value:   "config.yaml",
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"FEED_LOG_LEVEL"},
				Usage:   "overrides log.level from the config file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply the database schema",
				Action: migrate,
			},
		},
		ErrWriter: os.Stderr,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("feedd failed")
	}
}

func load(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if level := c.String("log-level"); level != "" {
		cfg.Log.Level = level
	}
	cmd.SetupLogger(cfg.Log.Level)
	return cfg, nil
}

var serve = func(c *cli.Context) error {
	cfg, err := load(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cmd.Serve(ctx, cfg)
}

var migrate = func(c *cli.Context) error {
	cfg, err := load(c)
	if err != nil {
		return err
	}
	return cmd.Migrate(c.Context, cfg)
}
