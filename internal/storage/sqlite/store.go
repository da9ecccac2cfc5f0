// Package sqlite provides a SQLite-backed odds storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/riskodds/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/riskodds/internal/platform/timeouts"
	"github.com/louisbranch/riskodds/internal/storage"
	"github.com/louisbranch/riskodds/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists odds grids in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.GridStore = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite odds store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=%d&_synchronous=NORMAL",
		filepath.Clean(path), timeouts.StoreBusy.Milliseconds())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutRoundOdds replaces any stored rows for the same dice and loss pair.
func (s *Store) PutRoundOdds(ctx context.Context, rows []storage.RoundOdds) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	for _, row := range rows {
		if row.TotalOutcomes <= 0 {
			return fmt.Errorf("round odds %dv%d: total outcomes must be greater than zero", row.AttackDice, row.DefenseDice)
		}
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO round_odds (
		   attack_dice, defense_dice, attacker_losses, defender_losses,
		   outcomes, total_outcomes, probability
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (attack_dice, defense_dice, attacker_losses, defender_losses) DO UPDATE SET
		   outcomes = excluded.outcomes,
		   total_outcomes = excluded.total_outcomes,
		   probability = excluded.probability`)
		if err != nil {
			return fmt.Errorf("prepare round odds: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx,
				row.AttackDice,
				row.DefenseDice,
				row.AttackerLosses,
				row.DefenderLosses,
				row.Outcomes,
				row.TotalOutcomes,
				row.Probability,
			); err != nil {
				return fmt.Errorf("put round odds %dv%d: %w", row.AttackDice, row.DefenseDice, err)
			}
		}
		return nil
	})
}

// ListRoundOdds returns every stored round row ordered by defense dice, attack
// dice, then defender losses descending.
func (s *Store) ListRoundOdds(ctx context.Context) ([]storage.RoundOdds, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT
		   attack_dice, defense_dice, attacker_losses, defender_losses,
		   outcomes, total_outcomes, probability
		 FROM round_odds
		 ORDER BY defense_dice, attack_dice, defender_losses DESC`)
	if err != nil {
		return nil, fmt.Errorf("list round odds: %w", err)
	}
	defer rows.Close()

	var result []storage.RoundOdds
	for rows.Next() {
		var row storage.RoundOdds
		if err := rows.Scan(
			&row.AttackDice,
			&row.DefenseDice,
			&row.AttackerLosses,
			&row.DefenderLosses,
			&row.Outcomes,
			&row.TotalOutcomes,
			&row.Probability,
		); err != nil {
			return nil, fmt.Errorf("scan round odds: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate round odds: %w", err)
	}
	return result, nil
}

// PutCampaignOdds upserts every row in a single transaction.
func (s *Store) PutCampaignOdds(ctx context.Context, rows []storage.CampaignOdds) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	now := time.Now().UTC()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO campaign_odds (
		   attackers, defenders, win_odds, expected_value, computed_at
		 ) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (attackers, defenders) DO UPDATE SET
		   win_odds = excluded.win_odds,
		   expected_value = excluded.expected_value,
		   computed_at = excluded.computed_at`)
		if err != nil {
			return fmt.Errorf("prepare campaign odds: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			computedAt := row.ComputedAt
			if computedAt.IsZero() {
				computedAt = now
			}
			if _, err := stmt.ExecContext(ctx,
				row.Attackers,
				row.Defenders,
				row.WinOdds,
				row.ExpectedValue,
				toMillis(computedAt),
			); err != nil {
				return fmt.Errorf("put campaign odds %d attacking %d: %w", row.Attackers, row.Defenders, err)
			}
		}
		return nil
	})
}

// GetCampaignOdds returns the stored values for one state.
func (s *Store) GetCampaignOdds(ctx context.Context, attackers, defenders int) (storage.CampaignOdds, error) {
	if err := ctx.Err(); err != nil {
		return storage.CampaignOdds{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CampaignOdds{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `SELECT
		   attackers, defenders, win_odds, expected_value, computed_at
		 FROM campaign_odds
		 WHERE attackers = ? AND defenders = ?`,
		attackers, defenders,
	)
	var (
		result     storage.CampaignOdds
		computedAt int64
	)
	err := row.Scan(&result.Attackers, &result.Defenders, &result.WinOdds, &result.ExpectedValue, &computedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.CampaignOdds{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.CampaignOdds{}, fmt.Errorf("get campaign odds: %w", err)
	}
	result.ComputedAt = fromMillis(computedAt)
	return result, nil
}

// PutExportRun records one export. Run IDs are unique.
func (s *Store) PutExportRun(ctx context.Context, run storage.ExportRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(run.ID)
	if id == "" {
		return fmt.Errorf("export run id is required")
	}
	if run.StartedAt.IsZero() || run.FinishedAt.IsZero() {
		return fmt.Errorf("export run times are required")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO export_runs (
		   id, grid_attackers, grid_defenders, round_rows, campaign_states, started_at, finished_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		run.GridAttackers,
		run.GridDefenders,
		run.RoundRows,
		run.CampaignStates,
		toMillis(run.StartedAt),
		toMillis(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("put export run: %w", err)
	}
	return nil
}

// ListExportRuns returns up to limit runs, newest first.
func (s *Store) ListExportRuns(ctx context.Context, limit int) ([]storage.ExportRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, grid_attackers, grid_defenders, round_rows, campaign_states, started_at, finished_at
		 FROM export_runs
		 ORDER BY started_at DESC, id
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list export runs: %w", err)
	}
	defer rows.Close()

	var result []storage.ExportRun
	for rows.Next() {
		var (
			run                   storage.ExportRun
			startedAt, finishedAt int64
		)
		if err := rows.Scan(
			&run.ID,
			&run.GridAttackers,
			&run.GridDefenders,
			&run.RoundRows,
			&run.CampaignStates,
			&startedAt,
			&finishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan export run: %w", err)
		}
		run.StartedAt = fromMillis(startedAt)
		run.FinishedAt = fromMillis(finishedAt)
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export runs: %w", err)
	}
	return result, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
