package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tvplus/internal/shared"
	"github.com/desertthunder/tvplus/internal/ui"
	"github.com/urfave/cli/v3"
)

// Generate fetches the catalog and writes every configured region playlist.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	result, err := r.generator(config).Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate playlists: %w", err)
	}

	if err := r.writePlainHeader(ui.Styles.Title("Playlists")); err != nil {
		return err
	}
	for _, f := range result.Files {
		if err := r.writePlain("%s %s (%d channels)\n", ui.Styles.OK("✓"), f.Path, f.Channels); err != nil {
			return err
		}
	}
	for _, code := range result.Skipped {
		if err := r.writePlain("%s %s\n", ui.Styles.Warn("- skipped"), code); err != nil {
			return err
		}
	}

	return nil
}

// Regions prints the regions available in the catalog.
func (r *Runner) Regions(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	summaries, err := r.generator(config).Regions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list regions: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(summaries, cmd.Bool("pretty"))
	}

	if err := r.writePlainHeader(ui.Styles.Title("Regions")); err != nil {
		return err
	}
	for _, s := range summaries {
		if err := r.writePlain("%-4s %-30s %5d channels\n", s.Code, s.Name, s.Channels); err != nil {
			return err
		}
	}
	return r.writePlain("%s\n", ui.Styles.Help(fmt.Sprintf("use %q to merge all regions", shared.AllRegions)))
}

// Probe checks stream reachability for one region.
func (r *Runner) Probe(ctx context.Context, cmd *cli.Command) error {
	code := cmd.StringArg("code")
	if code == "" {
		return fmt.Errorf("%w: region code", shared.ErrMissingArgument)
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	result, err := r.generator(config).Probe(ctx, code, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to probe region %s: %w", code, err)
	}

	if err := r.writePlainHeader(ui.Styles.Title("Probe: " + result.Region)); err != nil {
		return err
	}
	if err := r.writePlain("%s %d/%d streams reachable\n", ui.Styles.OK("✓"), result.Reachable, result.Checked); err != nil {
		return err
	}
	for _, f := range result.Failed {
		reason := fmt.Sprintf("status %d", f.Status)
		if f.Error != nil {
			reason = f.Error.Error()
		}
		if err := r.writePlain("%s %s (%s): %s\n", ui.Styles.Err("✗"), f.Name, f.Key, reason); err != nil {
			return err
		}
	}
	return nil
}

// ConfigInit writes the default configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("%s wrote %s\n", ui.Styles.OK("✓"), path)
}
