package commands

import (
	"fmt"
	"strconv"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/output"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/generator"
	"github.com/spf13/cobra"
)

// PlanOutput is the JSON form of a generation plan.
type PlanOutput struct {
	InstituteID   string         `json:"institute_id"`
	InstituteName string         `json:"institute_name"`
	ClassID       string         `json:"class_id"`
	ClassName     string         `json:"class_name"`
	ClassCode     string         `json:"class_code"`
	EmailDomain   string         `json:"email_domain"`
	Total         int            `json:"total"`
	Categories    []PlanCategory `json:"categories"`
}

// PlanCategory is one category of a PlanOutput.
type PlanCategory struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	SectionID   string `json:"section_id,omitempty"`
	SectionName string `json:"section_name"`
	Count       int    `json:"count"`
	FirstEmail  string `json:"first_email,omitempty"`
	LastEmail   string `json:"last_email,omitempty"`
}

func newPlan(r *generator.Roster) PlanOutput {
	cfg := r.Config
	p := PlanOutput{
		InstituteID:   cfg.InstituteID,
		InstituteName: cfg.InstituteName,
		ClassID:       cfg.ClassID,
		ClassName:     cfg.ClassName,
		ClassCode:     cfg.ClassCode,
		EmailDomain:   cfg.EmailDomain,
		Total:         r.Total(),
		Categories:    []PlanCategory{},
	}
	for _, cc := range r.Counts() {
		pc := PlanCategory{
			Name:        cc.Category.Name,
			Label:       cc.Category.DisplayLabel(),
			SectionID:   cc.Category.SectionID,
			SectionName: sectionName(cc.Category),
			Count:       cc.Count,
		}
		if cc.Count > 0 {
			pc.FirstEmail = generator.Email(cc.First, cfg.EmailDomain)
			pc.LastEmail = generator.Email(cc.Last, cfg.EmailDomain)
		}
		p.Categories = append(p.Categories, pc)
	}
	return p
}

func sectionName(cat generator.Category) string {
	switch {
	case !cat.HasSection():
		return generator.NoSectionName
	case cat.SectionName != "":
		return cat.SectionName
	default:
		return cat.DisplayLabel()
	}
}

// renderPlan prints the plan header, identifiers and per-category table.
func renderPlan(r *output.Renderer, title string, p PlanOutput) {
	r.Header(1, title)
	r.KeyValue("Institute ID", p.InstituteID)
	r.KeyValue("Class ID", p.ClassID)
	for _, c := range p.Categories {
		if c.SectionID != "" {
			r.KeyValue(c.SectionName+" Section ID", c.SectionID)
		}
	}
	r.KeyValue("Total Students", strconv.Itoa(p.Total))
	r.Println("")

	rows := make([][]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		emails := "-"
		if c.Count > 0 {
			emails = c.FirstEmail + " - " + c.LastEmail
		}
		section := c.SectionID
		if section == "" {
			section = "(class level)"
		}
		rows = append(rows, []string{c.Label, c.SectionName, section, strconv.Itoa(c.Count), emails})
	}
	r.Table([]string{"Category", "Section", "Section ID", "Students", "Emails"}, rows)
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the generation plan without writing files",
		Long: `Show what would be generated: the organization identifiers, each
category with its section and the email range its students receive.

Nothing is written to disk.`,
		Example: `  # Plan for the default three groups
  studentgen summary

  # Plan as JSON
  studentgen summary -o json --per-group 25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			roster, err := cc.Generate()
			if err != nil {
				return err
			}
			plan := newPlan(roster)
			if cc.Renderer.EffectiveMode() == output.ModeJSON {
				return cc.Renderer.JSON(plan)
			}
			renderPlan(cc.Renderer, "Student Generation Plan", plan)
			cc.Renderer.Muted(fmt.Sprintf("Email format: student<no>@%s", plan.EmailDomain))
			return nil
		},
	}
}
