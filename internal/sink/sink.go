// Package sink serializes generated rosters into output formats.
//
// Every format is a Serializer registered under a name. Formats that depend
// on optional build features (spreadsheets) register themselves only when
// compiled in, so callers check Available before relying on them.
package sink

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/generator"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/sqlgen"
)

// ErrUnavailable is wrapped by UnavailableError.
var ErrUnavailable = errors.New("output format unavailable")

// Serializer writes a roster in one output format.
type Serializer interface {
	// Name is the registry key, e.g. "csv".
	Name() string
	// Extension is the default file extension including the dot.
	Extension() string
	// Write serializes r to w.
	Write(w io.Writer, r *generator.Roster) error
}

// SQLConfigurer is implemented by serializers that embed a SQL script.
type SQLConfigurer interface {
	WithSQL(opts sqlgen.ScriptOptions) Serializer
}

// Configure returns s set up to render SQL with opts. Serializers that do
// not embed SQL are returned unchanged; registered instances are never
// modified.
func Configure(s Serializer, opts sqlgen.ScriptOptions) Serializer {
	if c, ok := s.(SQLConfigurer); ok {
		return c.WithSQL(opts)
	}
	return s
}

// Registry maps format names to serializers.
type Registry struct {
	mu          sync.RWMutex
	serializers map[string]Serializer
}

// NewRegistry returns a registry holding the given serializers.
func NewRegistry(serializers ...Serializer) *Registry {
	reg := &Registry{serializers: make(map[string]Serializer)}
	for _, s := range serializers {
		reg.Register(s)
	}
	return reg
}

// Default is the registry populated by this package's init functions.
var Default = NewRegistry()

// Register adds s, replacing any serializer with the same name.
func (reg *Registry) Register(s Serializer) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.serializers[s.Name()] = s
}

// Lookup returns the serializer registered under name.
func (reg *Registry) Lookup(name string) (Serializer, error) {
	reg.mu.RLock()
	s, ok := reg.serializers[name]
	reg.mu.RUnlock()
	if !ok {
		return nil, &UnavailableError{Format: name, Available: reg.Names()}
	}
	return s, nil
}

// Available reports whether name is registered.
func (reg *Registry) Available(name string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.serializers[name]
	return ok
}

// Names returns the registered format names, sorted.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	names := make([]string, 0, len(reg.serializers))
	for name := range reg.serializers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnavailableError is returned when a format is not compiled in or unknown.
type UnavailableError struct {
	Format    string
	Available []string
}

func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("output format %q is not available\nAvailable formats: %v", e.Format, e.Available)
	if isSpreadsheet(e.Format) {
		msg += "\nHint: this binary was built with -tags noxlsx; rebuild without it to enable spreadsheet output"
	}
	return msg
}

// Unwrap lets errors.Is match ErrUnavailable.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// Format names.
const (
	FormatCSV        = "csv"
	FormatJSON       = "json"
	FormatSQL        = "sql"
	FormatXLSX       = "xlsx"
	FormatXLSXImport = "xlsx-import"
)

func isSpreadsheet(format string) bool {
	return format == FormatXLSX || format == FormatXLSXImport
}

func init() {
	Default.Register(CSV{})
	Default.Register(JSON{})
	Default.Register(&SQL{})
}
