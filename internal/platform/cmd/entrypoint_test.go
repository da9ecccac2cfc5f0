package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type testConfig struct {
	DBPath string `env:"RISKODDS_CMD_TEST_DB_PATH" envDefault:"odds.db"`
	Lang   string `env:"RISKODDS_CMD_TEST_LANG" envDefault:"en"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("RISKODDS_CMD_TEST_DB_PATH", "env.db")
	t.Setenv("RISKODDS_CMD_TEST_LANG", "fr")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfgRef.DBPath, "db", cfgRef.DBPath, "db path")
	fs.StringVar(&cfgRef.Lang, "lang", cfgRef.Lang, "language")

	if err := ParseArgs(fs, []string{"-db", "flag.db", "10", "5"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.DBPath != "flag.db" {
		t.Fatalf("expected flag value for db path, got %q", cfgRef.DBPath)
	}
	if cfgRef.Lang != "fr" {
		t.Fatalf("expected env lang, got %q", cfgRef.Lang)
	}
	if got := fs.Args(); len(got) != 2 || got[0] != "10" || got[1] != "5" {
		t.Fatalf("positional args = %v", got)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	var cfg *testConfig
	if err := ParseConfig(cfg); err == nil {
		t.Fatal("expected nil target error")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceRiskOdds, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv("RISKODDS_OTEL_ENDPOINT", "")
	runErr := errors.New("boom")

	called := false
	err := RunWithTelemetry(context.Background(), ServiceRiskOdds, func(ctx context.Context) error {
		called = true
		if ctx == nil {
			t.Fatal("expected run context")
		}
		return runErr
	})
	if !called {
		t.Fatal("expected run to be called")
	}
	if !errors.Is(err, runErr) {
		t.Fatalf("expected run error, got %v", err)
	}
}
