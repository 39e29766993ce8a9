// package tasks implements playlist generation over a fetched channel catalog.
//
// The core abstraction is Generator, which fetches the catalog once and writes one playlist per configured region.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tvplus/internal/catalog"
	"github.com/desertthunder/tvplus/internal/playlist"
	"github.com/desertthunder/tvplus/internal/shared"
)

// CatalogSource retrieves the channel catalog. Implementations log their own failures and return nil.
type CatalogSource interface {
	FetchCatalog(ctx context.Context, url string, gzipped bool) *catalog.Catalog
}

// StreamChecker issues a HEAD request and returns the response status.
type StreamChecker interface {
	Head(ctx context.Context, url string, timeout time.Duration) (int, error)
}

// RegionFile describes one written playlist.
type RegionFile struct {
	Region   string // Region code, or "all"
	Path     string // Written file path
	Channels int    // Number of entries in the playlist
}

// GenerateResult contains the outcome of a full generation run.
type GenerateResult struct {
	Files   []RegionFile // Playlists written, in configured order
	Skipped []string     // Region codes absent from the catalog
}

// RegionSummary describes a region present in the catalog.
type RegionSummary struct {
	Code     string
	Name     string
	Channels int
}

// Generator builds region playlists from a catalog.
type Generator struct {
	source  CatalogSource
	checker StreamChecker
	config  *shared.Config
	logger  *log.Logger
}

// GeneratorOpts contains the dependencies for a [Generator].
type GeneratorOpts struct {
	Source  CatalogSource
	Checker StreamChecker
	Config  *shared.Config
	Logger  *log.Logger
}

// NewGenerator creates a Generator, defaulting the config and logger when unset.
func NewGenerator(opts GeneratorOpts) *Generator {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Generator{
		source:  opts.Source,
		checker: opts.Checker,
		config:  opts.Config,
		logger:  opts.Logger,
	}
}

func (g *Generator) templates() playlist.Templates {
	return playlist.Templates{
		Stream: g.config.Playlist.StreamURLTemplate,
		Guide:  g.config.Playlist.GuideURLTemplate,
	}
}

func (g *Generator) fetch(ctx context.Context) (*catalog.Catalog, error) {
	if g.source == nil {
		return nil, fmt.Errorf("%w: no catalog source configured", shared.ErrMissingCatalog)
	}

	c := g.source.FetchCatalog(ctx, g.config.Source.CatalogURL, g.config.Source.Gzipped)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrMissingCatalog, g.config.Source.CatalogURL)
	}
	return c, nil
}

// Entries builds the sorted entries for one region code, which may be "all".
func (g *Generator) Entries(c *catalog.Catalog, code string) ([]playlist.Entry, error) {
	placeholder := g.config.Playlist.PlaceholderName
	tpl := g.templates()

	var entries []playlist.Entry
	if code == shared.AllRegions {
		entries = playlist.ForAll(c, placeholder, tpl)
	} else {
		var err error
		if entries, err = playlist.ForRegion(c, code, placeholder, tpl); err != nil {
			return nil, err
		}
	}

	playlist.Sort(entries)
	return entries, nil
}

// Run fetches the catalog and writes a playlist for every configured region.
//
// An unavailable catalog aborts the run before anything is written. Regions missing
// from the catalog are logged and skipped.
func (g *Generator) Run(ctx context.Context) (*GenerateResult, error) {
	c, err := g.fetch(ctx)
	if err != nil {
		g.logger.Error("failed to fetch catalog data")
		return nil, err
	}

	result := &GenerateResult{}
	cfg := g.config.Playlist
	tpl := g.templates()

	for _, code := range cfg.Regions {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		g.logger.Info("generating playlist", "region", code)

		entries, err := g.Entries(c, code)
		if errors.Is(err, shared.ErrMissingRegion) {
			g.logger.Warn("no data for region", "region", code)
			result.Skipped = append(result.Skipped, code)
			continue
		} else if err != nil {
			return result, err
		}

		data, err := playlist.ToM3U(tpl.GuideURL(code), entries)
		if err != nil {
			return result, fmt.Errorf("failed to render region %s: %w", code, err)
		}

		name := playlist.FileName(cfg.FilePrefix, code)
		path, err := playlist.WriteFile(cfg.OutputDir, name, data)
		if err != nil {
			return result, fmt.Errorf("failed to write region %s: %w", code, err)
		}

		result.Files = append(result.Files, RegionFile{Region: code, Path: path, Channels: len(entries)})
		g.logger.Info("done", "file", name, "channels", len(entries))
	}

	return result, nil
}

// Regions fetches the catalog and summarizes its regions in code order.
func (g *Generator) Regions(ctx context.Context) ([]RegionSummary, error) {
	c, err := g.fetch(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]RegionSummary, 0, len(c.Regions))
	for _, code := range c.Codes() {
		r := c.Regions[code]
		summaries = append(summaries, RegionSummary{
			Code:     code,
			Name:     r.GroupTitle(code),
			Channels: len(r.ChannelIDs()),
		})
	}
	return summaries, nil
}
