// Package loader executes generated INSERT statements against an existing
// database. It never creates schema: the students and enrollments tables must
// already exist on the target.
package loader

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/generator"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/sqlgen"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	_ "github.com/marcboeker/go-duckdb" // duckdb driver
	_ "modernc.org/sqlite"              // sqlite driver
)

// DB is an open connection to a seeding target.
type DB struct {
	db     *sql.DB
	target Target
	logger *slog.Logger
}

// Open connects to the target and verifies the connection.
// If logger is nil, a discard logger is used.
func Open(ctx context.Context, t Target, logger *slog.Logger) (*DB, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	d, err := t.driver()
	if err != nil {
		return nil, err
	}
	dsn := t.DSN
	if dsn == "" {
		dsn = d.dsn(t)
	}

	l := orDiscard(logger)
	l.Debug("connecting to target",
		slog.String("type", t.Type),
		slog.String("host", t.Host),
		slog.String("database", t.Database),
		slog.String("path", t.Path))

	db, err := sql.Open(d.name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", t.Type, err)
	}
	// a single connection keeps in-memory databases alive across statements
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", t.Type, err)
	}
	return New(db, t, l), nil
}

// New wraps an already open database handle.
func New(db *sql.DB, t Target, logger *slog.Logger) *DB {
	return &DB{db: db, target: t, logger: orDiscard(logger)}
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	d.logger.Debug("closing database connection")
	return d.db.Close()
}

// Result reports the rows one statement inserted.
type Result struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// Load executes stmts in a single transaction, in order. Any failure rolls
// the whole batch back.
func (d *DB) Load(ctx context.Context, stmts []sqlgen.Statement) ([]Result, error) {
	if d.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	if len(stmts) == 0 {
		return nil, nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	results := make([]Result, 0, len(stmts))
	for _, stmt := range stmts {
		res, err := tx.ExecContext(ctx, stmt.SQL)
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to insert into %s (the table must already exist): %w", stmt.Table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			n = int64(stmt.Rows)
		}
		d.logger.Debug("statement executed", slog.String("table", stmt.Table), slog.Int64("rows", n))
		results = append(results, Result{Table: stmt.Table, Rows: n})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	d.logger.Info("seed data loaded", slog.String("target", d.target.Type), slog.Int("statements", len(results)))
	return results, nil
}

// SectionCount is one row of the count-by-section verification query.
// SectionID is empty for class-level-only enrollments.
type SectionCount struct {
	SectionID string `json:"section_id"`
	Students  int64  `json:"students"`
}

// CountBySection runs the count-by-section verification query for r.
func (d *DB) CountBySection(ctx context.Context, r *generator.Roster, opts sqlgen.Options) ([]SectionCount, error) {
	if d.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	q := sqlgen.VerificationQueries(r, opts)[0]

	rows, err := d.db.QueryContext(ctx, q.SQL)
	if err != nil {
		return nil, fmt.Errorf("failed to count students by section: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []SectionCount
	for rows.Next() {
		var section sql.NullString
		var c SectionCount
		if err := rows.Scan(&section, &c.Students); err != nil {
			return nil, fmt.Errorf("failed to scan section count: %w", err)
		}
		c.SectionID = section.String
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating section counts: %w", err)
	}
	return counts, nil
}

func orDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
