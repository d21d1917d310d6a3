// Package config loads run settings from defaults, an optional YAML file,
// CAPLEDGER_ environment variables, a .env file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"cap-ledger/internal/domain"
)

// EnvPrefix prefixes every environment variable, e.g. CAPLEDGER_PATHS_CAP_DIR.
const EnvPrefix = "CAPLEDGER"

// Ledger backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

const dateLayout = "2006-01-02"

// Config holds the complete configuration for a run.
type Config struct {
	League   LeagueConfig   `mapstructure:"league"`
	Paths    PathsConfig    `mapstructure:"paths"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
	Contract ContractConfig `mapstructure:"contract"`
}

type LeagueConfig struct {
	TeamCodes         []string `mapstructure:"team_codes"`
	GamesPerSeason    int      `mapstructure:"games_per_season"`
	CapCeiling        int64    `mapstructure:"cap_ceiling"`
	MinorSalaryCap    int64    `mapstructure:"minor_salary_cap"`
	WaiverAge         float64  `mapstructure:"waiver_age"`
	WaiverReference   string   `mapstructure:"waiver_reference"` // YYYY-MM-DD, empty measures at the league date
	MinActivePros     int      `mapstructure:"min_active_pros"`
	ReplacementCapHit int64    `mapstructure:"replacement_cap_hit"`
	SalaryFloor       int64    `mapstructure:"salary_floor"`
}

type PathsConfig struct {
	SaveDir           string `mapstructure:"save_dir"`
	CapDir            string `mapstructure:"cap_dir"`
	Roster            string `mapstructure:"roster"`
	SeasonStartRoster string `mapstructure:"season_start_roster"`
	Penalties         string `mapstructure:"penalties"`
	LTIR              string `mapstructure:"ltir"`
	Brackets          string `mapstructure:"brackets"`
	SalaryReport      string `mapstructure:"salary_report"`
}

type StorageConfig struct {
	LedgerBackend    string `mapstructure:"ledger_backend"`
	PostgresDSN      string `mapstructure:"postgres_dsn"`
	PostgresMaxConns int32  `mapstructure:"postgres_max_conns"`
	ClickHouseDSN    string `mapstructure:"clickhouse_dsn"`
}

type MetricsConfig struct {
	PushGatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type ContractConfig struct {
	MaxWeight float64 `mapstructure:"max_weight"`
	MinWeight float64 `mapstructure:"min_weight"`
	RFADate   string  `mapstructure:"rfa_date"` // YYYY-MM-DD, empty uses July 1 of the league year
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"config":              "",
	"save-dir":            "paths.save_dir",
	"cap-dir":             "paths.cap_dir",
	"roster":              "paths.roster",
	"season-start-roster": "paths.season_start_roster",
	"penalties":           "paths.penalties",
	"ltir":                "paths.ltir",
	"brackets":            "paths.brackets",
	"salary-report":       "paths.salary_report",
	"ledger-backend":      "storage.ledger_backend",
	"postgres-dsn":        "storage.postgres_dsn",
	"clickhouse-dsn":      "storage.clickhouse_dsn",
	"pushgateway-url":     "metrics.pushgateway_url",
	"log-level":           "log.level",
	"log-pretty":          "log.pretty",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.String("save-dir", "", "directory holding schedule.ehm and league.ehm")
	fs.String("cap-dir", "", "directory for ledgers and reports (must exist)")
	fs.String("roster", "", "current roster CSV")
	fs.String("season-start-roster", "", "season-start roster CSV")
	fs.String("penalties", "", "per-team cap penalty file")
	fs.String("ltir", "", "per-team LTIR relief file")
	fs.String("brackets", "", "salary bracket YAML file")
	fs.String("salary-report", "", "output path for the salary report")
	fs.String("ledger-backend", "", "ledger backend: file, postgres or memory")
	fs.String("postgres-dsn", "", "Postgres DSN for the postgres ledger backend")
	fs.String("clickhouse-dsn", "", "ClickHouse DSN for projection history")
	fs.String("pushgateway-url", "", "Prometheus Pushgateway URL for run metrics")
	fs.String("log-level", "", "log level")
	fs.Bool("log-pretty", false, "human-readable console logs")
}

func setDefaults(v *viper.Viper) {
	league := domain.DefaultLeague()
	v.SetDefault("league.team_codes", league.TeamCodes)
	v.SetDefault("league.games_per_season", league.GamesPerSeason)
	v.SetDefault("league.cap_ceiling", league.CapCeiling)
	v.SetDefault("league.minor_salary_cap", league.MinorSalaryCap)
	v.SetDefault("league.waiver_age", league.WaiverAge)
	v.SetDefault("league.waiver_reference", fmt.Sprintf("%04d-%02d-%02d",
		league.WaiverReference.Year, league.WaiverReference.Month, league.WaiverReference.Day))
	v.SetDefault("league.min_active_pros", league.MinActivePros)
	v.SetDefault("league.replacement_cap_hit", league.ReplacementCapHit)
	v.SetDefault("league.salary_floor", league.SalaryFloor)

	v.SetDefault("paths.save_dir", ".")
	v.SetDefault("paths.cap_dir", "caps")
	v.SetDefault("paths.roster", "")
	v.SetDefault("paths.season_start_roster", "")
	v.SetDefault("paths.penalties", "")
	v.SetDefault("paths.ltir", "")
	v.SetDefault("paths.brackets", "")
	v.SetDefault("paths.salary_report", "")

	v.SetDefault("storage.ledger_backend", BackendFile)
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.postgres_max_conns", 4)
	v.SetDefault("storage.clickhouse_dsn", "")

	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job", "capledger")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("contract.max_weight", 0.5)
	v.SetDefault("contract.min_weight", 0.5)
	v.SetDefault("contract.rfa_date", "")
}

// Load builds the configuration. flags may be nil; only flags the user set
// override other sources. A .env file in the working directory is loaded
// first when present.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := os.Getenv(EnvPrefix + "_CONFIG")
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Changed {
			path = f.Value.String()
		}
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if key == "" || f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	league, err := c.LeagueRules()
	if err != nil {
		return err
	}
	if err := league.Validate(); err != nil {
		return fmt.Errorf("league: %w", err)
	}

	switch c.Storage.LedgerBackend {
	case BackendFile, BackendMemory:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn is required for the postgres ledger backend")
		}
	default:
		return fmt.Errorf("unknown ledger backend %q", c.Storage.LedgerBackend)
	}

	if c.Contract.MaxWeight < 0 || c.Contract.MinWeight < 0 {
		return errors.New("contract weights must not be negative")
	}
	if _, err := parseDate(c.Contract.RFADate); err != nil {
		return fmt.Errorf("contract.rfa_date: %w", err)
	}
	return nil
}

// LeagueRules builds the league rules from the configuration.
func (c *Config) LeagueRules() (domain.League, error) {
	ref, err := parseDate(c.League.WaiverReference)
	if err != nil {
		return domain.League{}, fmt.Errorf("league.waiver_reference: %w", err)
	}
	codes := make([]string, len(c.League.TeamCodes))
	copy(codes, c.League.TeamCodes)

	return domain.League{
		TeamCodes:         codes,
		GamesPerSeason:    c.League.GamesPerSeason,
		CapCeiling:        c.League.CapCeiling,
		MinorSalaryCap:    c.League.MinorSalaryCap,
		WaiverAge:         c.League.WaiverAge,
		WaiverReference:   ref,
		MinActivePros:     c.League.MinActivePros,
		ReplacementCapHit: c.League.ReplacementCapHit,
		SalaryFloor:       c.League.SalaryFloor,
	}, nil
}

// RFADate returns the date RFA ages are measured at, defaulting to July 1
// of the league year.
func (c *Config) RFADate(leagueDate domain.Date) domain.Date {
	d, err := parseDate(c.Contract.RFADate)
	if err != nil || d.IsZero() {
		return domain.NewDate(leagueDate.Year, 7, 1)
	}
	return d
}

func parseDate(s string) (domain.Date, error) {
	if s == "" {
		return domain.Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return domain.Date{}, err
	}
	return domain.NewDate(t.Year(), int(t.Month()), t.Day()), nil
}
