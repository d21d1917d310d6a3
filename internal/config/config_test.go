package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cap-ledger/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Storage.LedgerBackend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 0.5, cfg.Contract.MaxWeight)

	league, err := cfg.LeagueRules()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultLeague(), league)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CAPLEDGER_LEAGUE_CAP_CEILING", "70000000")
	t.Setenv("CAPLEDGER_LEAGUE_TEAM_CODES", "AAA,BBB")
	t.Setenv("CAPLEDGER_PATHS_CAP_DIR", "/tmp/caps")
	t.Setenv("CAPLEDGER_LOG_PRETTY", "true")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, int64(70_000_000), cfg.League.CapCeiling)
	assert.Equal(t, []string{"AAA", "BBB"}, cfg.League.TeamCodes)
	assert.Equal(t, "/tmp/caps", cfg.Paths.CapDir)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoad_ConfigFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
league:
  games_per_season: 60
paths:
  save_dir: /data/save
  cap_dir: /data/caps
storage:
  ledger_backend: memory
`), 0o644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--config", path, "--cap-dir", "/override/caps"}))

	cfg, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.League.GamesPerSeason)
	assert.Equal(t, "/data/save", cfg.Paths.SaveDir)
	assert.Equal(t, "/override/caps", cfg.Paths.CapDir)
	assert.Equal(t, BackendMemory, cfg.Storage.LedgerBackend)
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	t.Setenv("CAPLEDGER_PATHS_ROSTER", "env.csv")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, "env.csv", cfg.Paths.Roster)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := Load(nil)
		require.NoError(t, err)
		return cfg
	}

	cfg := base(t)
	cfg.Storage.LedgerBackend = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg = base(t)
	cfg.Storage.LedgerBackend = BackendPostgres
	assert.Error(t, cfg.Validate())
	cfg.Storage.PostgresDSN = "postgres://localhost/caps"
	assert.NoError(t, cfg.Validate())

	cfg = base(t)
	cfg.League.TeamCodes = []string{"ANA", "ANA"}
	assert.Error(t, cfg.Validate())

	cfg = base(t)
	cfg.League.WaiverReference = "15/09/2023"
	assert.Error(t, cfg.Validate())

	cfg = base(t)
	cfg.Contract.RFADate = "july"
	assert.Error(t, cfg.Validate())
}

func TestRFADate(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, domain.NewDate(2024, 7, 1), cfg.RFADate(domain.NewDate(2024, 2, 10)))

	cfg.Contract.RFADate = "2012-07-01"
	assert.Equal(t, domain.NewDate(2012, 7, 1), cfg.RFADate(domain.NewDate(2024, 2, 10)))
}

func TestLeagueRules_EmptyWaiverReference(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	cfg.League.WaiverReference = ""
	league, err := cfg.LeagueRules()
	require.NoError(t, err)
	assert.True(t, league.WaiverReference.IsZero())
}
