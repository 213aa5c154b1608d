// Package commands wires the avatargen CLI: flag parsing, configuration,
// provider selection and the batch, regenerate and status actions.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mhpenta/avatargen"
	"github.com/mhpenta/avatargen/internal/config"
	"github.com/mhpenta/avatargen/provider/gemini"
	"github.com/mhpenta/avatargen/provider/rest"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// GeneratorFactory builds the provider for a resolved configuration.
type GeneratorFactory func(ctx context.Context, cfg config.Config) (avatargen.ImageGenerator, error)

// Options holds the process-level dependencies of the CLI. Zero fields fall
// back to the real implementations.
type Options struct {
	NewGenerator GeneratorFactory
	Stdout       io.Writer
	Stderr       io.Writer
	Getenv       func(string) string
	Sleep        func(ctx context.Context, d time.Duration) error
}

func (o *Options) setDefaults() {
	if o.NewGenerator == nil {
		o.NewGenerator = NewGenerator
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
}

// NewGenerator selects the transport named by cfg.Provider.
func NewGenerator(ctx context.Context, cfg config.Config) (avatargen.ImageGenerator, error) {
	pc := &avatargen.ProviderConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	}
	if cfg.Provider == config.ProviderREST {
		pc.Provider = avatargen.ProviderGeminiREST
		gen, err := rest.New(pc)
		if err != nil {
			return nil, err
		}
		return gen, nil
	}

	pc.Provider = avatargen.ProviderGeminiAPI
	gen, err := gemini.New(ctx, pc)
	if err != nil {
		return nil, err
	}
	return gen, nil
}

// env is the per-invocation state shared by the actions. It is filled in by
// the app's Before hook.
type env struct {
	opts   Options
	cfg    config.Config
	logger *slog.Logger
}

// NewApp builds the CLI application. The app never calls os.Exit itself;
// callers inspect the returned error for a cli.ExitCoder.
func NewApp(opts Options) *cli.App {
	opts.setDefaults()
	e := &env{opts: opts}

	startFlag := &cli.IntFlag{Name: "start", Usage: "zero-based catalog index to start from"}
	limitFlag := &cli.IntFlag{Name: "limit", Usage: "maximum number of authors to process (0 = no limit)"}
	delayFlag := &cli.IntFlag{
		Name:  "delay",
		Usage: "milliseconds to wait after each successful generation",
		Value: int(avatargen.DefaultDelay / time.Millisecond),
	}

	return &cli.App{
		Name:      "avatargen",
		Usage:     "generate author portrait avatars through an image model",
		Version:   Version,
		Writer:    opts.Stdout,
		ErrWriter: opts.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML config file", Value: config.DefaultFile},
			&cli.StringFlag{Name: "env-file", Usage: "dotenv file with credentials", Value: config.DefaultEnvFile},
			&cli.StringFlag{Name: "catalog", Usage: "author catalog (JSON or YAML)"},
			&cli.StringFlag{Name: "output-dir", Usage: "directory avatars are written to"},
			&cli.StringFlag{Name: "model", Usage: "image model (nano-banana-1, nano-banana-2)"},
			&cli.StringFlag{Name: "provider", Usage: "transport: sdk or rest"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging on stderr"},
		},
		Before: e.before,
		Commands: []*cli.Command{
			{
				Name:   "batch",
				Usage:  "generate avatars for a catalog range, skipping existing ones",
				Flags:  []cli.Flag{startFlag, limitFlag, delayFlag},
				Action: e.batchAction,
			},
			{
				Name:      "regenerate",
				Usage:     "regenerate avatars for the named authors, keeping a backup",
				ArgsUsage: "NAME...",
				Flags:     []cli.Flag{delayFlag},
				Action:    e.regenerateAction,
			},
			{
				Name:   "status",
				Usage:  "report which catalog authors have avatars",
				Flags:  []cli.Flag{startFlag, limitFlag},
				Action: e.statusAction,
			},
		},
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func (e *env) before(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"), c.IsSet("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := config.LoadEnvFile(c.String("env-file"), c.IsSet("env-file")); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	cfg.ApplyEnv(e.opts.Getenv)

	if v := c.String("catalog"); v != "" {
		cfg.CatalogPath = v
	}
	if v := c.String("output-dir"); v != "" {
		cfg.OutputDir = v
	}
	if v := c.String("model"); v != "" {
		cfg.Model = v
	}
	if v := c.String("provider"); v != "" {
		cfg.Provider = v
	}

	if err := cfg.Validate(); err != nil {
		return cli.Exit("invalid configuration: "+err.Error(), 1)
	}
	e.cfg = cfg

	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	e.logger = slog.New(slog.NewTextHandler(e.opts.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}
