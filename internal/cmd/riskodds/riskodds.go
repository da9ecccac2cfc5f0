// Package riskodds parses riskodds command flags and runs the selected mode.
package riskodds

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/language"

	"github.com/louisbranch/riskodds/internal/odds"
	entrypoint "github.com/louisbranch/riskodds/internal/platform/cmd"
	apperrors "github.com/louisbranch/riskodds/internal/platform/errors"
	"github.com/louisbranch/riskodds/internal/platform/logfile"
	"github.com/louisbranch/riskodds/internal/random"
	"github.com/louisbranch/riskodds/internal/report"
	mcpservice "github.com/louisbranch/riskodds/internal/services/mcp/service"
)

// MaxGridSize bounds each axis of the exported campaign grid.
const MaxGridSize = 1000

// Report formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// ErrNeedArguments is returned when only one army size is given.
var ErrNeedArguments = errors.New("need more command line arguments")

// IsUsageError reports whether err was caused by the command line or the
// environment rather than by a failure while running.
func IsUsageError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNeedArguments) || apperrors.CodeOf(err).IsInvalidInput()
}

// Config holds riskodds command configuration.
type Config struct {
	DBPath         string `env:"RISKODDS_DB_PATH"`
	GridAttackers  int    `env:"RISKODDS_GRID_ATTACKERS" envDefault:"30"`
	GridDefenders  int    `env:"RISKODDS_GRID_DEFENDERS" envDefault:"30"`
	MCP            bool   `env:"RISKODDS_MCP"`
	SimulateTrials int    `env:"RISKODDS_SIMULATE_TRIALS"`
	SimulateSeed   int64  `env:"RISKODDS_SIMULATE_SEED"`
	LogFile        string `env:"RISKODDS_LOG_FILE"`
	Lang           string `env:"RISKODDS_LANG" envDefault:"en"`
	Format         string `env:"RISKODDS_FORMAT" envDefault:"text"`

	// Campaign is set when army sizes were given on the command line.
	Campaign  bool
	Attackers int
	Defenders int
}

// ParseConfig parses environment, flags and the positional army sizes into a
// Config. Arguments past the first two are ignored.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite file holding the odds grid; exported without armies, consulted with them")
	fs.IntVar(&cfg.GridAttackers, "grid-attackers", cfg.GridAttackers, "Largest attacking army in the exported grid")
	fs.IntVar(&cfg.GridDefenders, "grid-defenders", cfg.GridDefenders, "Largest defending army in the exported grid")
	fs.BoolVar(&cfg.MCP, "mcp", cfg.MCP, "Serve the odds tools over MCP on stdio")
	fs.IntVar(&cfg.SimulateTrials, "simulate", cfg.SimulateTrials, "Monte-Carlo campaigns to play next to the exact odds")
	fs.Int64Var(&cfg.SimulateSeed, "seed", cfg.SimulateSeed, "Simulation seed (0 picks a random one)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Also write logs to this rotated file")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "Locale for number formatting")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Report format: text or yaml")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	positional := fs.Args()
	switch {
	case len(positional) == 0:
	case len(positional) < 2:
		return Config{}, ErrNeedArguments
	default:
		attackers, err := strconv.Atoi(positional[0])
		if err != nil {
			return Config{}, apperrors.Wrap(apperrors.CodeInvalidArmySize, fmt.Sprintf("attacking army %q is not a number", positional[0]), err)
		}
		defenders, err := strconv.Atoi(positional[1])
		if err != nil {
			return Config{}, apperrors.Wrap(apperrors.CodeInvalidArmySize, fmt.Sprintf("defending army %q is not a number", positional[1]), err)
		}
		cfg.Campaign = true
		cfg.Attackers = attackers
		cfg.Defenders = defenders
	}
	return cfg, nil
}

// Run executes the configured mode: the MCP server, the round table preceded
// by an optional grid export, or a campaign report read through the optional
// store.
func Run(ctx context.Context, cfg Config, stdout io.Writer) error {
	if cfg.GridAttackers < 0 || cfg.GridAttackers > MaxGridSize || cfg.GridDefenders < 0 || cfg.GridDefenders > MaxGridSize {
		return apperrors.WithMetadata(
			apperrors.CodeInvalidConfig,
			fmt.Sprintf("grid %dx%d is outside 0..%d", cfg.GridAttackers, cfg.GridDefenders, MaxGridSize),
			map[string]string{
				"grid_attackers": strconv.Itoa(cfg.GridAttackers),
				"grid_defenders": strconv.Itoa(cfg.GridDefenders),
			},
		)
	}
	if cfg.Format == "" {
		cfg.Format = FormatText
	}
	if cfg.Format != FormatText && cfg.Format != FormatYAML {
		return apperrors.WithMetadata(
			apperrors.CodeInvalidConfig,
			fmt.Sprintf("unknown report format %q", cfg.Format),
			map[string]string{"format": cfg.Format},
		)
	}
	tag, err := language.Parse(cfg.Lang)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidConfig, fmt.Sprintf("unknown language %q", cfg.Lang), err)
	}

	restoreLog, err := logfile.Setup(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = restoreLog() }()

	engine := odds.New()
	if cfg.MCP {
		return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
			return mcpservice.Run(ctx, mcpservice.Config{Engine: engine})
		})
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRiskOdds, func(ctx context.Context) error {
		if !cfg.Campaign {
			if cfg.DBPath != "" {
				if err := exportToPath(ctx, engine, cfg); err != nil {
					return err
				}
			}
			return writeRoundTable(stdout, engine, cfg.Format, tag)
		}

		campaign, err := resolveCampaign(ctx, engine, cfg)
		if err != nil {
			return err
		}

		var (
			simulation *odds.SimulationResult
			seed       int64
		)
		if cfg.SimulateTrials != 0 {
			seed = cfg.SimulateSeed
			if seed == 0 {
				if seed, err = random.NewSeed(); err != nil {
					return err
				}
			}
			result, err := odds.Simulate(odds.SimulationRequest{
				Attackers: cfg.Attackers,
				Defenders: cfg.Defenders,
				Trials:    cfg.SimulateTrials,
				Seed:      seed,
			})
			if err != nil {
				return err
			}
			simulation = &result
		}
		return writeCampaign(stdout, cfg.Format, tag, campaign, simulation, seed)
	})
}

func writeRoundTable(w io.Writer, engine *odds.Engine, format string, tag language.Tag) error {
	if format == FormatYAML {
		doc, err := report.NewRoundTableDocument(engine)
		if err != nil {
			return err
		}
		return report.WriteYAML(w, doc)
	}
	return report.New(tag).RoundTable(w, engine)
}

func writeCampaign(w io.Writer, format string, tag language.Tag, campaign odds.CampaignOdds, simulation *odds.SimulationResult, seed int64) error {
	if format == FormatYAML {
		return report.WriteYAML(w, report.NewCampaignDocument(campaign, simulation, seed))
	}
	reporter := report.New(tag)
	if err := reporter.Campaign(w, campaign); err != nil {
		return err
	}
	if simulation == nil {
		return nil
	}
	return reporter.Simulation(w, *simulation, seed)
}
