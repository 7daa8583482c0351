package sqlgen

import (
	"fmt"
	"strings"
)

// Dialect selects the SQL flavour of generated statements.
type Dialect string

// Supported dialects.
const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
	DuckDB   Dialect = "duckdb"
)

// Dialects lists the supported dialects in display order.
func Dialects() []Dialect {
	return []Dialect{Postgres, SQLite, DuckDB}
}

// ParseDialect resolves a dialect name. The empty string means Postgres.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "postgres", "postgresql", "pg":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "duckdb":
		return DuckDB, nil
	default:
		return "", fmt.Errorf("unknown SQL dialect %q (available: postgres, sqlite, duckdb)", name)
	}
}

// Now returns the expression for the current timestamp.
func (d Dialect) Now() string {
	if d == SQLite {
		return "CURRENT_TIMESTAMP"
	}
	return "NOW()"
}

// True returns the boolean true literal.
func (d Dialect) True() string {
	if d == SQLite {
		return "1"
	}
	return "true"
}
