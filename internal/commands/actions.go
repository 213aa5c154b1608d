package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mhpenta/avatargen"
	"github.com/mhpenta/avatargen/internal/runlog"
)

// batchAction runs the initial pass over a catalog range.
func (e *env) batchAction(c *cli.Context) error {
	if err := e.cfg.RequireAPIKey(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	names, err := avatargen.LoadCatalog(e.cfg.CatalogPath)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	items, err := avatargen.SelectRange(names, c.Int("start"), c.Int("limit"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return e.run(c, avatargen.ModeInitial, items)
}

// regenerateAction replaces the avatars of explicitly named authors.
func (e *env) regenerateAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("regenerate needs at least one author name", 1)
	}
	if err := e.cfg.RequireAPIKey(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	items, err := avatargen.ItemsFromNames(c.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return e.run(c, avatargen.ModeTargeted, items)
}

func (e *env) run(c *cli.Context, mode avatargen.Mode, items []avatargen.WorkItem) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, err := e.opts.NewGenerator(ctx, e.cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("create %s provider: %v", e.cfg.Provider, err), 1)
	}

	model := avatargen.Model(e.cfg.Model)
	manager := avatargen.NewManager(gen,
		avatargen.WithLogger(e.logger),
		avatargen.WithDefaultModel(model),
	)
	defer manager.Close()

	info, ok := manager.GetModelInfo(model)
	if !ok {
		return cli.Exit(fmt.Sprintf("unknown model %q", model), 1)
	}

	if !info.Capabilities.SupportsTextToImage {
		return cli.Exit(fmt.Sprintf("model %s cannot generate images from a text prompt", info.Name), 1)
	}

	genConfig := e.cfg.GenerateConfig()
	genConfig.Model = model
	if !info.ImageConstraints.Supports(genConfig.AspectRatio, genConfig.Size) {
		return cli.Exit(fmt.Sprintf("model %s does not support aspect ratio %q at size %q",
			info.Name, genConfig.AspectRatio, genConfig.Size), 1)
	}

	unitPrice := e.cfg.UnitPrice
	if unitPrice == 0 {
		unitPrice = info.Pricing.ImageGenerationCost
	}

	runLog, err := runlog.New(e.cfg.LogPath, e.opts.Stdout)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer runLog.Close()

	delay := e.cfg.Delay
	if c.IsSet("delay") {
		delay = time.Duration(c.Int("delay")) * time.Millisecond
	}
	if delay < 0 {
		return cli.Exit("--delay must not be negative", 1)
	}

	portraits := avatargen.NewPortraitClient(manager,
		avatargen.WithStyle(e.cfg.Style),
		avatargen.WithGenerateConfig(genConfig),
	)
	runner := avatargen.NewRunner(portraits,
		avatargen.NewLocalStorage(e.cfg.OutputDir),
		avatargen.NewManifestStore(e.cfg.Manifest()),
		avatargen.WithRunLogger(runLog),
		avatargen.WithSlogLogger(e.logger),
		avatargen.WithDelay(delay),
		avatargen.WithUnitPrice(unitPrice),
		avatargen.WithSleeper(e.opts.Sleep),
	)

	e.logger.Debug("starting run",
		"mode", string(mode),
		"items", len(items),
		"model", info.Name,
		"provider", e.cfg.Provider,
		"run_id", runLog.RunID(),
	)

	summary, err := runner.Run(ctx, mode, items)
	if summary != nil {
		renderSummary(e.opts.Stdout, summary, runLog.Path())
	}
	if err != nil {
		if avatargen.IsInterrupted(err) {
			return cli.Exit("run interrupted", 1)
		}
		return cli.Exit(err.Error(), 1)
	}
	return nil
}

// statusAction compares the catalog range against the output directory and
// the manifest. It makes no network calls and needs no credential.
func (e *env) statusAction(c *cli.Context) error {
	names, err := avatargen.LoadCatalog(e.cfg.CatalogPath)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	items, err := avatargen.SelectRange(names, c.Int("start"), c.Int("limit"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	storage := avatargen.NewLocalStorage(e.cfg.OutputDir)
	manifest, err := avatargen.NewManifestStore(e.cfg.Manifest()).Load()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	report, err := buildStatus(c.Context, items, storage, manifest)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	renderStatus(e.opts.Stdout, report)
	return nil
}

// StatusReport classifies catalog authors by what exists for them.
type StatusReport struct {
	Total     int
	OnDisk    int      // avatar files in the output directory, backups excluded
	Produced  []string // file on disk and recorded in the manifest
	Untracked []string // file on disk, no manifest record
	Missing   []string // no file on disk
	Stale     []string // manifest record whose file is gone; also in Missing
	Extra     []string // manifest records for names outside the range
}

func buildStatus(ctx context.Context, items []avatargen.WorkItem, storage *avatargen.LocalStorage, manifest *avatargen.Manifest) (*StatusReport, error) {
	files, err := storage.List()
	if err != nil {
		return nil, err
	}
	report := &StatusReport{Total: len(items), OnDisk: len(files)}
	inRange := make(map[string]bool, len(items))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inRange[item.Name] = true

		exists, err := storage.Exists(item.Filename())
		if err != nil {
			return nil, err
		}
		_, recorded := manifest.Avatars[item.Name]

		switch {
		case exists && recorded:
			report.Produced = append(report.Produced, item.Name)
		case exists:
			report.Untracked = append(report.Untracked, item.Name)
		default:
			report.Missing = append(report.Missing, item.Name)
			if recorded {
				report.Stale = append(report.Stale, item.Name)
			}
		}
	}

	for _, name := range manifest.Names() {
		if !inRange[name] {
			report.Extra = append(report.Extra, name)
		}
	}
	return report, nil
}

// ExitCode maps an error returned by App.Run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}
