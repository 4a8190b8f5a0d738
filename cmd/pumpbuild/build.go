package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/NomaTechnologiesLTD/Pump-Town/internal/assembler"
	"github.com/NomaTechnologiesLTD/Pump-Town/internal/config"
	"github.com/NomaTechnologiesLTD/Pump-Town/internal/export"
	"github.com/NomaTechnologiesLTD/Pump-Town/internal/source"
	"github.com/NomaTechnologiesLTD/Pump-Town/internal/status"
)

func (c *cli) runBuild() error {
	cfg, err := config.Load(c.dir, c.configPath)
	if err != nil {
		return err
	}
	res, err := build(cfg, c.log, time.Now)
	if err != nil {
		return err
	}
	status.Print(c.out, status.Summarize(res, status.DisplayPath(cfg.BaseDir, cfg.OutputPath())))
	return nil
}

// build runs one full assembly for cfg. The artifact and manifest are only
// written once every input has been read and assembly has succeeded, and
// both are staged before either replaces what is on disk.
func build(cfg *config.Config, log *zap.Logger, now func() time.Time) (*assembler.Result, error) {
	templatePath := cfg.TemplatePath()
	template, err := source.ReadTemplate(templatePath)
	if err != nil {
		return nil, err
	}

	ids, err := source.Discover(cfg.FragmentDir(), cfg.Pattern, log)
	if err != nil {
		return nil, err
	}
	if missing := assembler.Unmatched(ids, cfg.Order); len(missing) > 0 {
		log.Debug("preferred fragments not found, skipping", zap.Strings("names", missing))
	}

	fragments, err := source.ReadFragments(cfg.FragmentDir(), ids)
	if err != nil {
		return nil, err
	}

	res, err := assembler.Assemble(template, fragments, assembler.Options{
		Order:  cfg.Order,
		Indent: cfg.Indent,
		Anchor: cfg.Anchor,
		Header: cfg.Header,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", templatePath, err)
	}

	outputPath := cfg.OutputPath()
	files := []export.File{{Path: outputPath, Data: []byte(res.Artifact)}}
	if manifestPath := cfg.ManifestPath(); manifestPath != "" {
		data, err := export.MarshalManifest(export.BuildManifest(res, templatePath, outputPath, now()))
		if err != nil {
			return nil, err
		}
		files = append(files, export.File{Path: manifestPath, Data: data})
	}
	if err := export.WriteFiles(files...); err != nil {
		return nil, err
	}

	log.Debug("build complete",
		zap.String("output", outputPath),
		zap.Int("fragments", len(res.Order)),
		zap.Int("bytes", len(res.Artifact)))
	return res, nil
}
