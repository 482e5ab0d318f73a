package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/pixeltruth/pixeltruth/internal/api"
	"github.com/pixeltruth/pixeltruth/internal/config"
	"github.com/pixeltruth/pixeltruth/internal/demo"
	"github.com/pixeltruth/pixeltruth/internal/httputil"
	"github.com/pixeltruth/pixeltruth/internal/logger"
	"github.com/pixeltruth/pixeltruth/internal/mock"
	"github.com/pixeltruth/pixeltruth/internal/session"
	"github.com/pixeltruth/pixeltruth/internal/startup"
)

var (
	errNotSignedIn = errors.New("not signed in, run ptctl login first")
	errNoFiles     = errors.New("no image files given")
)

// environment is everything a command needs, built once per invocation.
type environment struct {
	cfg        *config.Config
	log        *slog.Logger
	components *startup.Components
	session    *session.Context
	store      *session.FileStore
}

type app struct {
	out io.Writer
	// raw is the network client; nil uses one built from config.
	raw httputil.Client
	env *environment
}

func newApp(out io.Writer, raw httputil.Client) *cli.App {
	a := &app{out: out, raw: raw}

	return &cli.App{
		Name:   "ptctl",
		Usage:  "Pixel Truth command line client",
		Writer: out,
		Before: a.setup,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (built-in defaults when empty)",
				EnvVars: []string{"PIXELTRUTH_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Logging level: debug, info or error",
			},
			&cli.BoolFlag{
				Name:  "demo",
				Usage: "Run against the in-process demo backend",
			},
			&cli.StringFlag{
				Name:  "session-file",
				Usage: "Where the session token is kept",
			},
		},
		Commands: []*cli.Command{
			a.healthCommand(),
			a.wakeCommand(),
			a.testConnectionCommand(),
			a.loginCommand(),
			a.registerCommand(),
			a.logoutCommand(),
			a.whoamiCommand(),
			a.uploadCommand(),
			a.analyzeCommand(),
			a.historyCommand(),
			a.showCommand(),
			a.statsCommand(),
			a.dashboardCommand(),
		},
	}
}

func (a *app) setup(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("demo") {
		cfg.Demo.Enabled = c.Bool("demo")
	}
	if c.IsSet("session-file") {
		cfg.Session.StorePath = c.String("session-file")
	}
	level := cfg.Server.LoggingLevel
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}

	log := logger.NewStderr(level)

	components, err := startup.Build(cfg, a.raw, log, nil)
	if err != nil {
		return err
	}

	storePath, err := config.ExpandHome(cfg.Session.StorePath)
	if err != nil {
		return err
	}
	store, err := session.OpenFileStore(storePath)
	if err != nil {
		return err
	}

	demoStore, err := demo.NewStore(demo.Config{
		DelayScale:  cfg.Demo.DelayScale,
		MaxAnalyses: cfg.Demo.MaxAnalyses,
		Source:      mock.NewSource(cfg.Demo.Seed),
	})
	if err != nil {
		return err
	}

	client := api.New(components.Resolver, api.Config{
		MaxUploadSizeMB: cfg.Server.MaxUploadSizeMB,
		Logger:          log,
	})
	sess := session.New(session.Config{Demo: cfg.Demo.Enabled, Logger: log}, client, demoStore, store)

	a.env = &environment{
		cfg:        cfg,
		log:        log,
		components: components,
		session:    sess,
		store:      store,
	}
	return nil
}

// loadConfig reads path, or starts from the defaults plus environment
// overrides when no file is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	cfg := config.Default()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// connect probes the remote once and restores the persisted session.
// Demo mode never touches the network.
func (a *app) connect(ctx context.Context) error {
	if !a.env.session.IsDemo() {
		a.env.components.Prober.Probe(ctx)
	}
	if err := a.env.session.Init(ctx); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	return nil
}

// requireUser connects and fails unless somebody is signed in.
func (a *app) requireUser(ctx context.Context) error {
	if err := a.connect(ctx); err != nil {
		return err
	}
	if !a.env.session.IsAuthenticated() {
		return errNotSignedIn
	}
	return nil
}
