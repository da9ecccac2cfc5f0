package riskodds

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/louisbranch/riskodds/internal/odds"
	"github.com/louisbranch/riskodds/internal/storage"
	"github.com/louisbranch/riskodds/internal/storage/sqlite"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/louisbranch/riskodds/internal/cmd/riskodds"

func exportToPath(ctx context.Context, engine *odds.Engine, cfg Config) error {
	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open odds store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close odds store: %v", err)
		}
	}()

	last, covered, err := coveringExport(ctx, store, cfg.GridAttackers, cfg.GridDefenders)
	if err != nil {
		return err
	}
	if covered {
		log.Printf("export %s from %s already covers %dx%d in %s",
			last.ID, humanize.Time(last.FinishedAt), cfg.GridAttackers, cfg.GridDefenders, cfg.DBPath)
		return nil
	}

	run := storage.ExportRun{
		ID:            uuid.NewString(),
		GridAttackers: cfg.GridAttackers,
		GridDefenders: cfg.GridDefenders,
		StartedAt:     time.Now().UTC(),
	}
	rounds, states, err := exportGrid(ctx, store, engine, cfg.GridAttackers, cfg.GridDefenders)
	if err != nil {
		return err
	}
	run.RoundRows = rounds
	run.CampaignStates = states
	run.FinishedAt = time.Now().UTC()
	if err := store.PutExportRun(ctx, run); err != nil {
		return fmt.Errorf("record export run: %w", err)
	}

	log.Printf("export %s: %s round rows and %s campaign states to %s in %s",
		run.ID,
		humanize.Comma(int64(rounds)),
		humanize.Comma(int64(states)),
		cfg.DBPath,
		run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	return nil
}

// exportGrid stores the round table and the campaign odds of every state
// 2..maxAttackers x 1..maxDefenders. It returns the number of rows written
// to each table.
func exportGrid(ctx context.Context, store storage.OddsStore, engine *odds.Engine, maxAttackers, maxDefenders int) (rounds, states int, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "riskodds.export")
	span.SetAttributes(
		attribute.Int("risk.grid_attackers", maxAttackers),
		attribute.Int("risk.grid_defenders", maxDefenders),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var roundRows []storage.RoundOdds
	for _, pairing := range odds.Pairings() {
		distribution, err := engine.Distribution(pairing.AttackDice, pairing.DefenseDice)
		if err != nil {
			return 0, 0, err
		}
		total := odds.TotalOutcomes(pairing.AttackDice, pairing.DefenseDice)
		for _, entry := range distribution {
			roundRows = append(roundRows, storage.RoundOdds{
				AttackDice:     pairing.AttackDice,
				DefenseDice:    pairing.DefenseDice,
				AttackerLosses: entry.Pair.Attacker,
				DefenderLosses: entry.Pair.Defender,
				Outcomes:       entry.Outcomes,
				TotalOutcomes:  total,
				Probability:    entry.Probability,
			})
		}
	}
	if err := store.PutRoundOdds(ctx, roundRows); err != nil {
		return 0, 0, fmt.Errorf("store round odds: %w", err)
	}

	var campaignRows []storage.CampaignOdds
	computedAt := time.Now().UTC()
	for attackers := 2; attackers <= maxAttackers; attackers++ {
		for defenders := 1; defenders <= maxDefenders; defenders++ {
			if err := ctx.Err(); err != nil {
				return 0, 0, err
			}
			campaignRows = append(campaignRows, storage.CampaignOdds{
				Attackers:     attackers,
				Defenders:     defenders,
				WinOdds:       engine.WinOdds(attackers, defenders),
				ExpectedValue: engine.ExpectedValue(attackers, defenders),
				ComputedAt:    computedAt,
			})
		}
	}
	if err := store.PutCampaignOdds(ctx, campaignRows); err != nil {
		return 0, 0, fmt.Errorf("store campaign odds: %w", err)
	}

	span.SetAttributes(
		attribute.Int("risk.round_rows", len(roundRows)),
		attribute.Int("risk.campaign_states", len(campaignRows)),
		attribute.Int("risk.cached_win_odds", engine.CachedStates(odds.QuantityWinOdds)),
		attribute.Int("risk.cached_expected_value", engine.CachedStates(odds.QuantityExpectedValue)),
	)
	return len(roundRows), len(campaignRows), nil
}

// coveringExport returns the latest export run when it spans at least
// maxAttackers x maxDefenders and its round rows are all still stored.
func coveringExport(ctx context.Context, store storage.GridStore, maxAttackers, maxDefenders int) (storage.ExportRun, bool, error) {
	runs, err := store.ListExportRuns(ctx, 1)
	if err != nil {
		return storage.ExportRun{}, false, fmt.Errorf("list export runs: %w", err)
	}
	if len(runs) == 0 {
		return storage.ExportRun{}, false, nil
	}
	last := runs[0]
	if last.GridAttackers < maxAttackers || last.GridDefenders < maxDefenders {
		return storage.ExportRun{}, false, nil
	}
	rounds, err := store.ListRoundOdds(ctx)
	if err != nil {
		return storage.ExportRun{}, false, fmt.Errorf("list round odds: %w", err)
	}
	if len(rounds) != last.RoundRows {
		return storage.ExportRun{}, false, nil
	}
	return last, true, nil
}

// resolveCampaign solves the configured campaign, going through the store
// when one is configured.
func resolveCampaign(ctx context.Context, engine *odds.Engine, cfg Config) (odds.CampaignOdds, error) {
	if cfg.DBPath == "" {
		return engine.Campaign(cfg.Attackers, cfg.Defenders), nil
	}
	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return odds.CampaignOdds{}, fmt.Errorf("open odds store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close odds store: %v", err)
		}
	}()
	return lookupCampaign(ctx, store, engine, cfg.Attackers, cfg.Defenders)
}

// lookupCampaign serves a campaign from the store. A missing state is solved
// and written back.
func lookupCampaign(ctx context.Context, store storage.OddsStore, engine *odds.Engine, attackers, defenders int) (campaign odds.CampaignOdds, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "riskodds.lookup")
	span.SetAttributes(
		attribute.Int("risk.attackers", attackers),
		attribute.Int("risk.defenders", defenders),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	stored, err := store.GetCampaignOdds(ctx, attackers, defenders)
	if err == nil {
		span.SetAttributes(attribute.Bool("risk.stored", true))
		return odds.CampaignOdds{
			Attackers:     stored.Attackers,
			Defenders:     stored.Defenders,
			WinOdds:       stored.WinOdds,
			ExpectedValue: stored.ExpectedValue,
		}, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return odds.CampaignOdds{}, fmt.Errorf("get campaign odds: %w", err)
	}

	span.SetAttributes(attribute.Bool("risk.stored", false))
	campaign = engine.Campaign(attackers, defenders)
	if err := store.PutCampaignOdds(ctx, []storage.CampaignOdds{{
		Attackers:     campaign.Attackers,
		Defenders:     campaign.Defenders,
		WinOdds:       campaign.WinOdds,
		ExpectedValue: campaign.ExpectedValue,
		ComputedAt:    time.Now().UTC(),
	}}); err != nil {
		return odds.CampaignOdds{}, fmt.Errorf("store campaign odds: %w", err)
	}
	return campaign, nil
}
