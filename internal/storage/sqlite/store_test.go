package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/riskodds/internal/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestCloseNilStore(t *testing.T) {
	t.Parallel()

	var store *Store
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}

func TestOpenIsIdempotentAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "odds.db")
	for i := 0; i < 2; i++ {
		store, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("open pass %d: %v", i, err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("close pass %d: %v", i, err)
		}
	}
}

func TestPutListRoundOddsRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	rows := []storage.RoundOdds{
		{AttackDice: 3, DefenseDice: 2, AttackerLosses: 2, DefenderLosses: 0, Outcomes: 2275, TotalOutcomes: 7776, Probability: 2275.0 / 7776},
		{AttackDice: 3, DefenseDice: 2, AttackerLosses: 0, DefenderLosses: 2, Outcomes: 2890, TotalOutcomes: 7776, Probability: 2890.0 / 7776},
		{AttackDice: 1, DefenseDice: 1, AttackerLosses: 1, DefenderLosses: 0, Outcomes: 21, TotalOutcomes: 36, Probability: 21.0 / 36},
		{AttackDice: 1, DefenseDice: 1, AttackerLosses: 0, DefenderLosses: 1, Outcomes: 15, TotalOutcomes: 36, Probability: 15.0 / 36},
	}
	if err := store.PutRoundOdds(context.Background(), rows); err != nil {
		t.Fatalf("put round odds: %v", err)
	}

	got, err := store.ListRoundOdds(context.Background())
	if err != nil {
		t.Fatalf("list round odds: %v", err)
	}
	want := []storage.RoundOdds{rows[3], rows[2], rows[1], rows[0]}
	if len(got) != len(want) {
		t.Fatalf("rows = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPutRoundOddsReplacesExistingRow(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	row := storage.RoundOdds{AttackDice: 1, DefenseDice: 1, AttackerLosses: 0, DefenderLosses: 1, Outcomes: 1, TotalOutcomes: 36, Probability: 1.0 / 36}
	if err := store.PutRoundOdds(context.Background(), []storage.RoundOdds{row}); err != nil {
		t.Fatalf("put round odds: %v", err)
	}
	row.Outcomes = 15
	row.Probability = 15.0 / 36
	if err := store.PutRoundOdds(context.Background(), []storage.RoundOdds{row}); err != nil {
		t.Fatalf("replace round odds: %v", err)
	}

	got, err := store.ListRoundOdds(context.Background())
	if err != nil {
		t.Fatalf("list round odds: %v", err)
	}
	if len(got) != 1 || got[0] != row {
		t.Fatalf("rows = %+v, want [%+v]", got, row)
	}
}

func TestPutRoundOddsRejectsEmptyTotal(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	err := store.PutRoundOdds(context.Background(), []storage.RoundOdds{{AttackDice: 1, DefenseDice: 1}})
	if err == nil {
		t.Fatal("expected total outcomes error")
	}
}

func TestPutGetCampaignOddsRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	computedAt := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	input := storage.CampaignOdds{
		Attackers:     3,
		Defenders:     2,
		WinOdds:       16920.0 / 46656,
		ExpectedValue: 44460.0 / 46656,
		ComputedAt:    computedAt,
	}
	if err := store.PutCampaignOdds(context.Background(), []storage.CampaignOdds{input}); err != nil {
		t.Fatalf("put campaign odds: %v", err)
	}

	got, err := store.GetCampaignOdds(context.Background(), 3, 2)
	if err != nil {
		t.Fatalf("get campaign odds: %v", err)
	}
	if got.Attackers != 3 || got.Defenders != 2 {
		t.Fatalf("state = %d/%d, want 3/2", got.Attackers, got.Defenders)
	}
	if got.WinOdds != input.WinOdds || got.ExpectedValue != input.ExpectedValue {
		t.Fatalf("values = (%v, %v), want (%v, %v)", got.WinOdds, got.ExpectedValue, input.WinOdds, input.ExpectedValue)
	}
	if !got.ComputedAt.Equal(computedAt) {
		t.Fatalf("computed_at = %v, want %v", got.ComputedAt, computedAt)
	}
}

func TestPutCampaignOddsUpserts(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	if err := store.PutCampaignOdds(ctx, []storage.CampaignOdds{{Attackers: 5, Defenders: 5, WinOdds: 0.1}}); err != nil {
		t.Fatalf("put campaign odds: %v", err)
	}
	if err := store.PutCampaignOdds(ctx, []storage.CampaignOdds{{Attackers: 5, Defenders: 5, WinOdds: 0.2, ExpectedValue: 1.5}}); err != nil {
		t.Fatalf("upsert campaign odds: %v", err)
	}

	got, err := store.GetCampaignOdds(ctx, 5, 5)
	if err != nil {
		t.Fatalf("get campaign odds: %v", err)
	}
	if got.WinOdds != 0.2 || got.ExpectedValue != 1.5 {
		t.Fatalf("campaign odds = %+v, want upserted values", got)
	}
	if got.ComputedAt.IsZero() {
		t.Fatal("expected computed_at to default to now")
	}
}

func TestGetCampaignOddsNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.GetCampaignOdds(context.Background(), 9, 9)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStoreHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.PutCampaignOdds(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("put campaign odds: expected context canceled, got %v", err)
	}
	if _, err := store.ListRoundOdds(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("list round odds: expected context canceled, got %v", err)
	}
	if _, err := store.GetCampaignOdds(ctx, 1, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("get campaign odds: expected context canceled, got %v", err)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "odds.db")
	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestPutListExportRuns(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	older := storage.ExportRun{
		ID:             "run-older",
		GridAttackers:  10,
		GridDefenders:  10,
		RoundRows:      14,
		CampaignStates: 90,
		StartedAt:      base,
		FinishedAt:     base.Add(time.Second),
	}
	newer := older
	newer.ID = "run-newer"
	newer.StartedAt = base.Add(time.Hour)
	newer.FinishedAt = base.Add(time.Hour + time.Second)

	for _, run := range []storage.ExportRun{older, newer} {
		if err := store.PutExportRun(ctx, run); err != nil {
			t.Fatalf("put export run %s: %v", run.ID, err)
		}
	}

	runs, err := store.ListExportRuns(ctx, 10)
	if err != nil {
		t.Fatalf("list export runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-newer" || runs[1].ID != "run-older" {
		t.Fatalf("runs = %+v", runs)
	}
	if !runs[1].StartedAt.Equal(base) || runs[1].CampaignStates != 90 {
		t.Fatalf("older run = %+v", runs[1])
	}

	limited, err := store.ListExportRuns(ctx, 1)
	if err != nil {
		t.Fatalf("list export runs: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "run-newer" {
		t.Fatalf("limited runs = %+v", limited)
	}
}

func TestPutExportRunValidates(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Now()
	for _, run := range []storage.ExportRun{
		{ID: " ", StartedAt: now, FinishedAt: now},
		{ID: "run-1", FinishedAt: now},
	} {
		if err := store.PutExportRun(context.Background(), run); err == nil {
			t.Fatalf("%+v: expected validation error", run)
		}
	}
	if _, err := store.ListExportRuns(context.Background(), 0); err == nil {
		t.Fatal("expected limit error")
	}
}

func TestPutExportRunRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Now()
	run := storage.ExportRun{ID: "run-1", StartedAt: now, FinishedAt: now}
	if err := store.PutExportRun(context.Background(), run); err != nil {
		t.Fatalf("put export run: %v", err)
	}
	if err := store.PutExportRun(context.Background(), run); err == nil {
		t.Fatal("expected duplicate id error")
	}
}
