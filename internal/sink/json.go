package sink

import (
	"encoding/json"
	"io"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/generator"
)

// JSON writes the records as an indented JSON array.
type JSON struct{}

// Name implements Serializer.
func (JSON) Name() string { return FormatJSON }

// Extension implements Serializer.
func (JSON) Extension() string { return ".json" }

// Write implements Serializer.
func (JSON) Write(w io.Writer, r *generator.Roster) error {
	records := r.Records
	if records == nil {
		records = []generator.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
