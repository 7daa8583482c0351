// Package generator builds synthetic student rosters.
//
// A run walks the configured categories in order and creates Count records
// for each. A single counter runs across all categories and drives the
// derived contact fields, so student<k>@<domain> is unique within a run.
// Generation performs no I/O; serializers in package sink consume the Roster.
package generator

import (
	"errors"
	"fmt"
	"time"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/idgen"
)

// ErrInvalidConfig is wrapped by every configuration error returned by
// Validate and Generate.
var ErrInvalidConfig = errors.New("invalid generator config")

// IDGenerator produces the identifiers assigned to students and enrollments.
type IDGenerator interface {
	NewID() string
}

// IDFunc adapts a plain function to IDGenerator.
type IDFunc func() string

// NewID calls f.
func (f IDFunc) NewID() string { return f() }

type options struct {
	ids IDGenerator
	now func() time.Time
}

// Option configures a Generate call.
type Option func(*options)

// WithIDGenerator sets the identifier source. Tests use a deterministic one.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) { o.ids = g }
}

// WithClock sets the clock used for Roster.GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Validate rejects configurations that cannot produce a meaningful roster.
func (c Config) Validate() error {
	if c.InstituteID == "" {
		return fmt.Errorf("%w: institute id is required", ErrInvalidConfig)
	}
	if c.ClassID == "" {
		return fmt.Errorf("%w: class id is required", ErrInvalidConfig)
	}
	if c.EmailDomain == "" {
		return fmt.Errorf("%w: email domain is required", ErrInvalidConfig)
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: at least one category is required", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("%w: category %d has no name", ErrInvalidConfig, i+1)
		}
		if seen[cat.Name] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidConfig, cat.Name)
		}
		seen[cat.Name] = true
		if cat.Count < 0 {
			return fmt.Errorf("%w: category %q has negative count %d", ErrInvalidConfig, cat.Name, cat.Count)
		}
	}
	return nil
}

// Generate validates cfg and returns one record per (category, position)
// pair. Category order is preserved and positions start at 1.
func Generate(cfg Config, opts ...Option) (*Roster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ids == nil {
		o.ids = idgen.New()
	}

	roster := &Roster{
		Config:      cfg,
		GeneratedAt: o.now().UTC(),
		Records:     make([]Record, 0, cfg.Total()),
	}

	counter := 0
	for _, cat := range cfg.Categories {
		label := cat.DisplayLabel()
		for pos := 1; pos <= cat.Count; pos++ {
			counter++
			roster.Records = append(roster.Records, newRecord(cfg, cat, label, counter, pos, o.ids))
		}
	}
	return roster, nil
}

func newRecord(cfg Config, cat Category, label string, counter, pos int, ids IDGenerator) Record {
	first := fmt.Sprintf("Student%d", counter)
	rec := Record{
		ID:            ids.NewID(),
		Counter:       counter,
		Position:      pos,
		Category:      cat.Name,
		Name:          first + " " + label,
		FirstName:     first,
		LastName:      label,
		Email:         Email(counter, cfg.EmailDomain),
		Phone:         Phone(cfg.PhonePrefix, counter),
		InstituteID:   cfg.InstituteID,
		InstituteName: cfg.InstituteName,
		ClassID:       cfg.ClassID,
		ClassName:     cfg.ClassName,
		ClassCode:     cfg.ClassCode,
		CourseID:      cfg.CourseID,
		Active:        true,
	}
	rec.EnrollmentID = ids.NewID()

	if cat.HasSection() {
		rec.SectionID = cat.SectionID
		rec.SectionName = cat.SectionName
		if rec.SectionName == "" {
			rec.SectionName = label
		}
	} else {
		rec.SectionName = NoSectionName
	}
	return rec
}

// Email returns the address for the k-th student.
func Email(k int, domain string) string {
	return fmt.Sprintf("student%d@%s", k, domain)
}

// Phone returns prefix followed by k zero-padded to four digits.
func Phone(prefix string, k int) string {
	return fmt.Sprintf("%s%04d", prefix, k)
}
