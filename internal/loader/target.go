package loader

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/sqlgen"
)

// Target describes the database to seed.
type Target struct {
	Type     string            `koanf:"type" yaml:"type"`
	DSN      string            `koanf:"dsn" yaml:"dsn,omitempty"`
	Path     string            `koanf:"path" yaml:"path,omitempty"`
	Host     string            `koanf:"host" yaml:"host,omitempty"`
	Port     int               `koanf:"port" yaml:"port,omitempty"`
	User     string            `koanf:"user" yaml:"user,omitempty"`
	Password string            `koanf:"password" yaml:"password,omitempty"`
	Database string            `koanf:"database" yaml:"database,omitempty"`
	Schema   string            `koanf:"schema" yaml:"schema,omitempty"`
	Options  map[string]string `koanf:"options" yaml:"options,omitempty"`
}

// driver binds a target type to its database/sql driver.
type driver struct {
	name    string
	dialect sqlgen.Dialect
	schema  string
	dsn     func(Target) string
}

var drivers = map[string]driver{
	"sqlite":   {name: "sqlite", dialect: sqlgen.SQLite, dsn: fileDSN},
	"postgres": {name: "pgx", dialect: sqlgen.Postgres, schema: sqlgen.DefaultSchema, dsn: buildPostgresDSN},
	"duckdb":   {name: "duckdb", dialect: sqlgen.DuckDB, schema: sqlgen.DefaultSchema, dsn: fileDSN},
}

// Types returns the supported target types (sorted).
func Types() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownTargetError is returned when a target type has no driver.
type UnknownTargetError struct {
	Type      string
	Available []string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target type %q\nAvailable targets: %v\nHint: Check target.type in studentgen.yaml", e.Type, e.Available)
}

func (t Target) driver() (driver, error) {
	typ := strings.ToLower(strings.TrimSpace(t.Type))
	switch typ {
	case "postgresql", "pg":
		typ = "postgres"
	case "sqlite3":
		typ = "sqlite"
	}
	d, ok := drivers[typ]
	if !ok {
		return driver{}, &UnknownTargetError{Type: t.Type, Available: Types()}
	}
	return d, nil
}

// Validate checks that the target names a known type and a location.
func (t Target) Validate() error {
	d, err := t.driver()
	if err != nil {
		return err
	}
	if t.DSN != "" {
		return nil
	}
	if d.dialect != sqlgen.Postgres && t.Path == "" {
		return fmt.Errorf("target.path is required for %s targets", t.Type)
	}
	if d.dialect == sqlgen.Postgres && t.Database == "" {
		return fmt.Errorf("target.database is required for postgres targets")
	}
	return nil
}

// Dialect returns the SQL dialect statements for this target must use.
func (t Target) Dialect() (sqlgen.Dialect, error) {
	d, err := t.driver()
	if err != nil {
		return "", err
	}
	return d.dialect, nil
}

// TableSchema returns the schema owning the student tables on this target:
// the configured schema, else the driver default. SQLite has no schemas, so
// its tables default to unqualified names.
func (t Target) TableSchema() string {
	if t.Schema != "" {
		return t.Schema
	}
	d, err := t.driver()
	if err != nil {
		return sqlgen.DefaultSchema
	}
	return d.schema
}

// fileDSN builds the DSN of an embedded database, appending options as
// query parameters.
func fileDSN(t Target) string {
	if len(t.Options) == 0 {
		return t.Path
	}
	q := url.Values{}
	for k, v := range t.Options {
		q.Set(k, v)
	}
	return t.Path + "?" + q.Encode()
}

// buildPostgresDSN constructs a key=value PostgreSQL connection string.
func buildPostgresDSN(t Target) string {
	host := t.Host
	if host == "" {
		host = "localhost"
	}

	port := t.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if mode, ok := t.Options["sslmode"]; ok {
		sslmode = mode
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s", host, port, t.Database, sslmode)
	if t.User != "" {
		dsn += fmt.Sprintf(" user=%s", t.User)
	}
	if t.Password != "" {
		dsn += fmt.Sprintf(" password=%s", t.Password)
	}

	keys := make([]string, 0, len(t.Options))
	for k := range t.Options {
		if k != "sslmode" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		dsn += fmt.Sprintf(" %s=%s", k, t.Options[k])
	}
	return dsn
}
