package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NomaTechnologiesLTD/Pump-Town/internal/config"
	"github.com/NomaTechnologiesLTD/Pump-Town/internal/status"
	"github.com/NomaTechnologiesLTD/Pump-Town/internal/watch"
)

func (c *cli) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Build, then rebuild whenever the template, fragments or config change",
		Long: `Build once, then rebuild whenever the template, a fragment or the config
file changes. The config is reloaded on every rebuild; when the template,
fragments, pattern, output, manifest or watch.debounce settings change, the
watcher restarts on the new locations.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.runWatch(ctx)
		},
	}
}

func (c *cli) runWatch(ctx context.Context) error {
	cfg, err := config.Load(c.dir, c.configPath)
	if err != nil {
		return err
	}
	if err := c.rebuild(cfg); err != nil {
		c.log.Error("initial build failed, waiting for changes", zap.Error(err))
	}

	fmt.Fprintf(c.out, "Watching %s for changes (Ctrl+C to stop)\n", cfg.BaseDir)
	for {
		next, err := c.watchUntilReconfigured(ctx, cfg)
		if err != nil || next == nil {
			return err
		}
		c.log.Info("watch settings changed, restarting watcher", zap.String("base", next.BaseDir))
		cfg = next
	}
}

// watchUntilReconfigured watches the inputs of cfg until ctx is done, or
// until a rebuild loads a config whose watch set differs. In the latter case
// the new config is returned.
func (c *cli) watchUntilReconfigured(ctx context.Context, cfg *config.Config) (*config.Config, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	key := watchKey(cfg)
	var next *config.Config
	rebuild := func(context.Context) error {
		fresh, err := config.Load(c.dir, c.configPath)
		if err != nil {
			return err
		}
		if watchKey(fresh) != key {
			next = fresh
			cancel()
		}
		return c.rebuild(fresh)
	}

	w, err := watch.New(watchOptions(cfg), rebuild, c.log)
	if err != nil {
		return nil, err
	}
	if err := w.Run(ctx); err != nil {
		return nil, err
	}
	// Run has returned, so the rebuild loop is done writing next.
	return next, nil
}

// rebuild runs one build for cfg and prints its summary.
func (c *cli) rebuild(cfg *config.Config) error {
	res, err := build(cfg, c.log, time.Now)
	if err != nil {
		return err
	}
	status.Print(c.out, status.Summarize(res, status.DisplayPath(cfg.BaseDir, cfg.OutputPath())))
	return nil
}

// watchKey captures every config value watchOptions depends on.
func watchKey(cfg *config.Config) string {
	return strings.Join([]string{
		cfg.TemplatePath(),
		cfg.FragmentDir(),
		cfg.Pattern,
		cfg.OutputPath(),
		cfg.ManifestPath(),
		cfg.Path,
		cfg.BaseDir,
		cfg.Watch.DebounceDelay().String(),
	}, "\x00")
}

// watchOptions derives what to watch from cfg: the template's directory, the
// config file's directory and the fragment tree. Only events for those
// inputs trigger a rebuild, so writing the artifact never loops.
func watchOptions(cfg *config.Config) watch.Options {
	templatePath := cfg.TemplatePath()
	fragmentDir := cfg.FragmentDir()

	// The base dir is where a config file would be picked up when none
	// exists yet.
	dirs := []string{filepath.Dir(templatePath)}
	if configDir := cfg.BaseDir; !slices.Contains(dirs, configDir) {
		dirs = append(dirs, configDir)
	}

	opts := watch.Options{
		Dirs:     dirs,
		Debounce: cfg.Watch.DebounceDelay(),
	}
	if strings.Contains(cfg.Pattern, "**") {
		opts.Recursive = []string{fragmentDir}
	} else if !slices.Contains(opts.Dirs, fragmentDir) {
		opts.Dirs = append(opts.Dirs, fragmentDir)
	}

	opts.Ignore = func(path string) bool {
		switch path {
		case templatePath, cfg.Path:
			return false
		case cfg.OutputPath(), cfg.ManifestPath():
			return true
		}
		if cfg.Path == "" && filepath.Dir(path) == cfg.BaseDir && slices.Contains(config.FileNames, filepath.Base(path)) {
			return false
		}
		rel, err := filepath.Rel(fragmentDir, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
		// Temp files from an in-progress artifact write.
		return strings.HasPrefix(filepath.Base(path), ".")
	}
	return opts
}
