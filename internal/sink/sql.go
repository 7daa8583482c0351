package sink

import (
	"io"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/generator"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/sqlgen"
)

// SQL writes a seeding script. The zero value renders Postgres statements
// for the default schema.
type SQL struct {
	Options sqlgen.ScriptOptions
}

// Name implements Serializer.
func (*SQL) Name() string { return FormatSQL }

// Extension implements Serializer.
func (*SQL) Extension() string { return ".sql" }

// Write implements Serializer.
func (s *SQL) Write(w io.Writer, r *generator.Roster) error {
	opts := s.Options
	if opts.Schema == "" && opts.Dialect == "" {
		opts.Schema = sqlgen.DefaultSchema
	}
	return sqlgen.Script(w, r, opts)
}

// WithSQL implements SQLConfigurer.
func (*SQL) WithSQL(opts sqlgen.ScriptOptions) Serializer {
	return &SQL{Options: opts}
}
