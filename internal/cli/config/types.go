// Package config loads studentgen settings from defaults, studentgen.yaml,
// STUDENTGEN_ environment variables and command-line flags.
package config

import (
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/loader"
)

// Config holds all CLI configuration options.
type Config struct {
	Institute        InstituteConfig  `koanf:"institute" yaml:"institute"`
	Class            ClassConfig      `koanf:"class" yaml:"class"`
	ClientID         string           `koanf:"client_id" yaml:"client_id"`
	CourseID         string           `koanf:"course_id" yaml:"course_id"`
	EmailDomain      string           `koanf:"domain" yaml:"domain"`
	PhonePrefix      string           `koanf:"phone_prefix" yaml:"phone_prefix"`
	StudentsPerGroup int              `koanf:"per_group" yaml:"per_group"`
	Categories       []CategoryConfig `koanf:"categories" yaml:"categories"`
	Only             []string         `koanf:"only" yaml:"only,omitempty"`
	SQL              SQLConfig        `koanf:"sql" yaml:"sql"`
	Target           loader.Target    `koanf:"target" yaml:"target"`
	Verbose          bool             `koanf:"verbose" yaml:"verbose"`
	OutputFormat     string           `koanf:"output" yaml:"output"`
	LogLevel         string           `koanf:"log_level" yaml:"log_level"`
}

// InstituteConfig identifies the institute every student belongs to.
type InstituteConfig struct {
	ID   string `koanf:"id" yaml:"id"`
	Name string `koanf:"name" yaml:"name"`
}

// ClassConfig identifies the class every student is enrolled in.
type ClassConfig struct {
	ID   string `koanf:"id" yaml:"id"`
	Name string `koanf:"name" yaml:"name"`
	Code string `koanf:"code" yaml:"code"`
}

// CategoryConfig declares one group of students. Count overrides
// per_group when set.
type CategoryConfig struct {
	Name        string `koanf:"name" yaml:"name"`
	Label       string `koanf:"label" yaml:"label,omitempty"`
	SectionID   string `koanf:"section_id" yaml:"section_id,omitempty"`
	SectionName string `koanf:"section_name" yaml:"section_name,omitempty"`
	Count       *int   `koanf:"count" yaml:"count,omitempty"`
}

// SQLConfig controls rendering of SQL scripts.
type SQLConfig struct {
	Schema      string `koanf:"schema" yaml:"schema"`
	Dialect     string `koanf:"dialect" yaml:"dialect"`
	PerCategory bool   `koanf:"per_category" yaml:"per_category"`
}

// Default configuration values. The organization identifiers belong to the
// Test University fixture tenant.
const (
	DefaultInstituteID      = "01KFSRV0T1D39E20016FB874CB"
	DefaultInstituteName    = "Test Uni Inst"
	DefaultClassID          = "01KFSZ83HQ0A66BDD01A0C3DB4"
	DefaultClassName        = "Computer engineering"
	DefaultClassCode        = "COM2024"
	DefaultMorningSectionID = "01KFSZ83J9CE865416EBF08497"
	DefaultEveningSectionID = "01KFSZ83JE92BAFC69C1D130B3"
	DefaultClientID         = "YOUR_CLIENT_ID_HERE"
	DefaultEmailDomain      = "testuni.com"
	DefaultPhonePrefix      = "+1555"
	DefaultPerGroup         = 10
	DefaultSchema           = "student"
	DefaultDialect          = "postgres"
	DefaultOutput           = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel         = "warn"
)

// DefaultCategories returns the morning, evening and class-only groups.
func DefaultCategories() []CategoryConfig {
	return []CategoryConfig{
		{Name: "morning", SectionID: DefaultMorningSectionID, SectionName: "Morning"},
		{Name: "evening", SectionID: DefaultEveningSectionID, SectionName: "Evening"},
		{Name: "class-only"},
	}
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Institute:        InstituteConfig{ID: DefaultInstituteID, Name: DefaultInstituteName},
		Class:            ClassConfig{ID: DefaultClassID, Name: DefaultClassName, Code: DefaultClassCode},
		ClientID:         DefaultClientID,
		EmailDomain:      DefaultEmailDomain,
		PhonePrefix:      DefaultPhonePrefix,
		StudentsPerGroup: DefaultPerGroup,
		Categories:       DefaultCategories(),
		SQL:              SQLConfig{Schema: DefaultSchema, Dialect: DefaultDialect},
		OutputFormat:     DefaultOutput,
		LogLevel:         DefaultLogLevel,
	}
}

// defaults flattens DefaultConfig for the confmap provider.
func defaults() map[string]any {
	cats := make([]any, 0, 3)
	for _, c := range DefaultCategories() {
		m := map[string]any{"name": c.Name}
		if c.SectionID != "" {
			m["section_id"] = c.SectionID
			m["section_name"] = c.SectionName
		}
		cats = append(cats, m)
	}
	return map[string]any{
		"institute.id":   DefaultInstituteID,
		"institute.name": DefaultInstituteName,
		"class.id":       DefaultClassID,
		"class.name":     DefaultClassName,
		"class.code":     DefaultClassCode,
		"client_id":      DefaultClientID,
		"course_id":      "",
		"domain":         DefaultEmailDomain,
		"phone_prefix":   DefaultPhonePrefix,
		"per_group":      DefaultPerGroup,
		"categories":     cats,
		"sql.schema":     DefaultSchema,
		"sql.dialect":    DefaultDialect,
		"verbose":        false,
		"output":         DefaultOutput,
		"log_level":      DefaultLogLevel,
	}
}
