package store

import (
	"strings"
	"time"

	"disasterresponse/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	SQLite SQLiteConfig
	PG     PGConfig
	CH     CHConfig
}

// SQLiteConfig configures the SQLite file
type SQLiteConfig struct {
	Enabled       bool
	Path          string
	BusyTimeoutMs int
	LogSQL        bool
	SlowQueryMs   int
	MkdirAll      bool
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // default 6
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	Role    string
}

// FromDSN picks the relational backend from a database location:
// postgres:// and postgresql:// select Postgres, sqlite:/// is stripped
// to a file path, anything else is a SQLite file path
func FromDSN(dsn string) Config {
	dsn = strings.TrimSpace(dsn)
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return Config{PG: PGConfig{Enabled: true, URL: dsn}}
	case strings.HasPrefix(lower, "sqlite:///"):
		return Config{SQLite: SQLiteConfig{Enabled: true, Path: dsn[len("sqlite:///"):]}}
	case strings.HasPrefix(lower, "sqlite://"):
		return Config{SQLite: SQLiteConfig{Enabled: true, Path: dsn[len("sqlite://"):]}}
	default:
		return Config{SQLite: SQLiteConfig{Enabled: true, Path: dsn}}
	}
}

// ConfigFromEnv resolves dsn with FromDSN and layers tuning knobs from STORE_*:
// LOG_SQL, SLOW_MS, BUSY_TIMEOUT_MS, PG_MAX_CONNS, PG_CONNECT_RETRIES, CH_URL
func ConfigFromEnv(cfg config.Conf, dsn, role string) Config {
	c := FromDSN(dsn)
	c.AppName = role
	sc := cfg.Prefix("STORE_")

	logSQL := sc.MayBool("LOG_SQL", false)
	slow := sc.MayInt("SLOW_MS", 500)

	c.SQLite.LogSQL, c.SQLite.SlowQueryMs = logSQL, slow
	c.SQLite.BusyTimeoutMs = sc.MayInt("BUSY_TIMEOUT_MS", 10_000)

	c.PG.LogSQL, c.PG.SlowQueryMs = logSQL, slow
	c.PG.MaxConns = int32(sc.MayInt("PG_MAX_CONNS", 4))
	c.PG.ConnectRetries = sc.MayInt("PG_CONNECT_RETRIES", 6)
	c.PG.PingTimeout = sc.MayDuration("PG_PING_TIMEOUT", 3*time.Second)

	if u := sc.MayString("CH_URL", ""); u != "" {
		c.CH = CHConfig{Enabled: true, URL: u, Role: role}
	}
	return c
}
