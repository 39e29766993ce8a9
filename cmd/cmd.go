// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// app returns the root command. Invoked without a subcommand it generates every configured playlist.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "tvplus",
		Usage:   "Generate per-region M3U playlists from the Samsung TV Plus channel catalog",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (defaults are used when it does not exist)",
				Value:   "config.toml",
			},
			&cli.StringSliceFlag{
				Name:    "region",
				Aliases: []string{"r"},
				Usage:   "Region code to generate (repeatable, overrides playlist.regions)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (overrides playlist.output_dir)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Action:   r.Generate,
		Commands: r.register(),
	}
}

// generateCommand writes the playlist files
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Fetch the catalog and write one playlist per region",
		Action:  r.Generate,
	}
}

// regionsCommand lists the catalog's regions
func regionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "regions",
		Usage: "List regions available in the catalog",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.Regions,
	}
}

// probeCommand checks stream reachability for a region
func probeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "probe",
		Usage: "Check that a region's stream URLs respond (HEAD requests, rate limited)",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "code",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of streams to check (0 checks all)",
				Value: 20,
			},
		},
		Action: r.Probe,
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write the default configuration to the --config path",
				Action: r.ConfigInit,
			},
		},
	}
}
