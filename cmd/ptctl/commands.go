package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/pixeltruth/pixeltruth/internal/api"
	"github.com/pixeltruth/pixeltruth/internal/models"
)

func (a *app) healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Probe the remote backend and show its health document",
		Action: func(c *cli.Context) error {
			available := a.env.components.Prober.Probe(c.Context)
			health, err := a.env.session.API().Health(c.Context)
			if err != nil {
				return err
			}
			return writeJSON(a.out, map[string]any{
				"remote_available": available,
				"origin":           a.env.components.Origin,
				"health":           health,
			})
		},
	}
}

func (a *app) wakeCommand() *cli.Command {
	return &cli.Command{
		Name:  "wake",
		Usage: "Poll the health endpoint until a sleeping backend answers",
		Description: `Free-tier hosts spin down when idle. wake keeps probing until the
backend answers or remote.wake_attempts probes have failed.`,
		Action: func(c *cli.Context) error {
			health, err := a.env.components.Waker.Wake(c.Context)
			if err != nil {
				return err
			}
			return writeJSON(a.out, health)
		},
	}
}

func (a *app) testConnectionCommand() *cli.Command {
	return &cli.Command{
		Name:  "test-connection",
		Usage: "Call the connection test endpoint",
		Action: func(c *cli.Context) error {
			if err := a.connect(c.Context); err != nil {
				return err
			}
			result, err := a.env.session.TestConnection(c.Context)
			if err != nil {
				return err
			}
			return writeJSON(a.out, result)
		},
	}
}

func (a *app) loginCommand() *cli.Command {
	var email, password string

	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and remember the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true, Destination: &email},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, Destination: &password, EnvVars: []string{"PIXELTRUTH_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			if err := a.connect(c.Context); err != nil {
				return err
			}
			if err := a.env.session.Login(c.Context, email, password); err != nil {
				return err
			}
			return a.printSession()
		},
	}
}

func (a *app) registerCommand() *cli.Command {
	var username, email, password string

	return &cli.Command{
		Name:  "register",
		Usage: "Create an account and sign in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true, Destination: &username},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true, Destination: &email},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, Destination: &password, EnvVars: []string{"PIXELTRUTH_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			if err := a.connect(c.Context); err != nil {
				return err
			}
			if err := a.env.session.Register(c.Context, username, email, password); err != nil {
				return err
			}
			return a.printSession()
		},
	}
}

func (a *app) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Sign out and forget the session",
		Action: func(c *cli.Context) error {
			if err := a.connect(c.Context); err != nil {
				return err
			}
			if err := a.env.session.Logout(c.Context); err != nil {
				return err
			}
			_, err := fmt.Fprintln(a.out, "Signed out")
			return err
		},
	}
}

func (a *app) whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the signed-in user",
		Action: func(c *cli.Context) error {
			if err := a.requireUser(c.Context); err != nil {
				return err
			}
			return a.printSession()
		},
	}
}

func (a *app) uploadCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Stage an image without analyzing it",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errNoFiles
			}
			if err := a.connect(c.Context); err != nil {
				return err
			}
			if a.env.session.IsDemo() {
				return fmt.Errorf("upload is not available in demo mode, use analyze")
			}

			path := c.Args().First()
			content, err := readImage(path, a.env.session.API().MaxUploadBytes())
			if err != nil {
				return err
			}
			upload, err := a.env.session.API().Upload(c.Context, filepath.Base(path), content)
			if err != nil {
				return err
			}
			return writeJSON(a.out, upload)
		},
	}
}

func (a *app) analyzeCommand() *cli.Command {
	var workers int

	return &cli.Command{
		Name:      "analyze",
		Usage:     "Upload and analyze one or more images",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "workers",
				Aliases:     []string{"w"},
				Usage:       "Number of images analyzed concurrently",
				Value:       3,
				Destination: &workers,
			},
		},
		Action: func(c *cli.Context) error {
			paths := c.Args().Slice()
			if len(paths) == 0 {
				return errNoFiles
			}
			if err := a.connect(c.Context); err != nil {
				return err
			}

			var results []batchOutput
			if a.env.session.IsDemo() {
				results = a.demoAnalyze(c.Context, paths)
			} else {
				for _, r := range a.env.session.API().BatchAnalyze(c.Context, paths, workers) {
					results = append(results, newBatchOutput(r.Path, r.Result, r.Err))
				}
			}

			if err := writeJSON(a.out, results); err != nil {
				return err
			}
			return batchError(results)
		},
	}
}

func (a *app) historyCommand() *cli.Command {
	var limit int

	return &cli.Command{
		Name:  "history",
		Usage: "List past analyses",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 10, Destination: &limit},
		},
		Action: func(c *cli.Context) error {
			if err := a.connect(c.Context); err != nil {
				return err
			}
			if a.env.session.IsDemo() {
				analyses, err := a.env.session.Demo().History(c.Context)
				if err != nil {
					return err
				}
				return writeJSON(a.out, models.DemoHistoryResponse{Analyses: lastN(analyses, limit)})
			}

			history, err := a.env.session.API().History(c.Context, limit)
			if err != nil {
				return err
			}
			return writeJSON(a.out, history)
		},
	}
}

func (a *app) showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one analysis in detail",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return api.ErrEmptyAnalysisID
			}
			if err := a.connect(c.Context); err != nil {
				return err
			}
			if a.env.session.IsDemo() {
				analysis, err := a.env.session.Demo().Analysis(c.Context, id)
				if err != nil {
					return err
				}
				return writeJSON(a.out, models.DemoAnalysisResponse{Analysis: analysis})
			}

			detail, err := a.env.session.API().Analysis(c.Context, id)
			if err != nil {
				return err
			}
			return writeJSON(a.out, detail)
		},
	}
}

func (a *app) statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show usage counters for the signed-in user",
		Action: func(c *cli.Context) error {
			if err := a.requireUser(c.Context); err != nil {
				return err
			}
			if a.env.session.IsDemo() {
				stats, err := a.demoStats(c.Context)
				if err != nil {
					return err
				}
				return writeJSON(a.out, stats)
			}

			stats, err := a.env.session.API().UserStats(c.Context)
			if err != nil {
				return err
			}
			return writeJSON(a.out, stats)
		},
	}
}

func (a *app) dashboardCommand() *cli.Command {
	var recent int

	return &cli.Command{
		Name:  "dashboard",
		Usage: "Show usage counters and the most recent analyses",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "recent", Value: 5, Destination: &recent},
		},
		Action: func(c *cli.Context) error {
			if err := a.requireUser(c.Context); err != nil {
				return err
			}
			if a.env.session.IsDemo() {
				stats, err := a.demoStats(c.Context)
				if err != nil {
					return err
				}
				analyses, err := a.env.session.Demo().History(c.Context)
				if err != nil {
					return err
				}
				return writeJSON(a.out, map[string]any{
					"stats":  stats,
					"recent": lastN(analyses, recent),
				})
			}

			d, err := a.env.session.API().Dashboard(c.Context, recent)
			if err != nil {
				return err
			}
			return writeJSON(a.out, map[string]any{
				"stats":  d.Stats,
				"recent": d.Recent,
			})
		},
	}
}

// readImage validates the file before reading it, so an oversized file is
// rejected without loading it.
func readImage(path string, maxBytes int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := api.ValidateImage(filepath.Base(path), info.Size(), maxBytes); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return content, nil
}
