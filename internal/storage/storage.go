// Package storage defines persistence contracts for computed odds.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/riskodds/internal/platform/errors"
)

// ErrNotFound indicates a requested odds record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// RoundOdds stores one loss pair of the single-round table.
type RoundOdds struct {
	AttackDice     int
	DefenseDice    int
	AttackerLosses int
	DefenderLosses int
	Outcomes       int
	TotalOutcomes  int
	Probability    float64
}

// CampaignOdds stores the solved values for one campaign state.
type CampaignOdds struct {
	Attackers     int
	Defenders     int
	WinOdds       float64
	ExpectedValue float64
	ComputedAt    time.Time
}

// ExportRun records one grid export.
type ExportRun struct {
	ID             string
	GridAttackers  int
	GridDefenders  int
	RoundRows      int
	CampaignStates int
	StartedAt      time.Time
	FinishedAt     time.Time
}

// OddsStore persists round and campaign odds.
type OddsStore interface {
	PutRoundOdds(ctx context.Context, rows []RoundOdds) error
	ListRoundOdds(ctx context.Context) ([]RoundOdds, error)
	PutCampaignOdds(ctx context.Context, rows []CampaignOdds) error
	GetCampaignOdds(ctx context.Context, attackers, defenders int) (CampaignOdds, error)
}

// ExportRunStore records grid exports.
type ExportRunStore interface {
	PutExportRun(ctx context.Context, run ExportRun) error
	ListExportRuns(ctx context.Context, limit int) ([]ExportRun, error)
}

// GridStore holds an exported odds grid and the runs that wrote it.
type GridStore interface {
	OddsStore
	ExportRunStore
}
