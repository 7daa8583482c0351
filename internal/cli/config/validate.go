package config

import (
	"fmt"
	"strings"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/output"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/generator"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/sqlgen"
)

// Validate checks settings that can be judged without generating records.
// Record-level rules (required ids, duplicate categories) are enforced by
// the generator.
func (c *Config) Validate() error {
	if c.StudentsPerGroup < 0 {
		return fmt.Errorf("per_group must not be negative, got %d", c.StudentsPerGroup)
	}
	if !output.ValidMode(c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (valid: %s)", c.OutputFormat, strings.Join(output.Modes(), ", "))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := sqlgen.ParseDialect(c.SQL.Dialect); err != nil {
		return err
	}
	for _, name := range c.Only {
		if c.category(name) == nil {
			return fmt.Errorf("--only names unknown category %q (configured: %s)", name, strings.Join(c.CategoryNames(), ", "))
		}
	}
	return nil
}

// CategoryNames returns the configured category names in order.
func (c *Config) CategoryNames() []string {
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}

func (c *Config) category(name string) *CategoryConfig {
	for i := range c.Categories {
		if strings.EqualFold(c.Categories[i].Name, strings.TrimSpace(name)) {
			return &c.Categories[i]
		}
	}
	return nil
}

// Dialect returns the parsed SQL dialect.
func (c *Config) Dialect() sqlgen.Dialect {
	d, err := sqlgen.ParseDialect(c.SQL.Dialect)
	if err != nil {
		return sqlgen.Postgres
	}
	return d
}

// ScriptOptions returns the SQL rendering options.
func (c *Config) ScriptOptions() sqlgen.ScriptOptions {
	return sqlgen.ScriptOptions{
		Options:     sqlgen.Options{Schema: c.SQL.Schema, Dialect: c.Dialect()},
		PerCategory: c.SQL.PerCategory,
	}
}

// ToGenerator converts the configuration into a generation plan. When Only
// is set, the other categories are left out.
func (c *Config) ToGenerator() generator.Config {
	cats := make([]generator.Category, 0, len(c.Categories))
	for _, cc := range c.Categories {
		if len(c.Only) > 0 && !c.selected(cc.Name) {
			continue
		}
		count := c.StudentsPerGroup
		if cc.Count != nil {
			count = *cc.Count
		}
		cats = append(cats, generator.Category{
			Name:        cc.Name,
			Label:       cc.Label,
			SectionID:   cc.SectionID,
			SectionName: cc.SectionName,
			Count:       count,
		})
	}
	return generator.Config{
		InstituteID:   c.Institute.ID,
		InstituteName: c.Institute.Name,
		ClassID:       c.Class.ID,
		ClassName:     c.Class.Name,
		ClassCode:     c.Class.Code,
		ClientID:      c.ClientID,
		CourseID:      c.CourseID,
		EmailDomain:   c.EmailDomain,
		PhonePrefix:   c.PhonePrefix,
		Categories:    cats,
	}
}

func (c *Config) selected(name string) bool {
	for _, o := range c.Only {
		if strings.EqualFold(strings.TrimSpace(o), name) {
			return true
		}
	}
	return false
}
