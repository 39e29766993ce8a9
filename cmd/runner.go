package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tvplus/internal/fetcher"
	"github.com/desertthunder/tvplus/internal/shared"
	"github.com/desertthunder/tvplus/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config // used when no config file is found
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		generateCommand, regionsCommand, probeCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves the effective configuration for a command: the --config file when it
// exists, otherwise the runner's base config, with --region and --output applied on top.
// An explicitly passed --config path that does not exist is an error.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	config := *r.config
	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err == nil {
		loaded, err := shared.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		config = *loaded
		r.logger.Debug("loaded config", "path", configPath)
	} else if cmd.IsSet("config") {
		return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, configPath)
	} else {
		r.logger.Debug("config file not found, using defaults", "path", configPath)
	}

	if regions := cmd.StringSlice("region"); len(regions) > 0 {
		config.Playlist.Regions = regions
	}
	if out := cmd.String("output"); out != "" {
		config.Playlist.OutputDir = out
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// generator builds a [tasks.Generator] backed by an HTTP [fetcher.Fetcher].
func (r *Runner) generator(config *shared.Config) *tasks.Generator {
	f := fetcher.New(fetcher.Options{
		UserAgent: config.Source.UserAgent,
		Timeout:   config.Source.Timeout(),
		Client:    r.httpClient,
		Logger:    r.logger,
	})

	return tasks.NewGenerator(tasks.GeneratorOpts{
		Source:  f,
		Checker: f,
		Config:  config,
		Logger:  r.logger,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) error {
	const rule = "═══════════════════════════════════════\n"
	return r.writePlain("%s%v\n%s", rule, title, rule)
}
