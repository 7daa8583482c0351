package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/commands"
	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/config"
	clitest "github.com/kunal-ak23/edudron/tools/studentgen/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

const projectConfig = `
institute:
  id: INST-1
  name: Staging Institute
class:
  id: CLASS-1
  name: Physics
  code: PHY101
domain: staging.edu
per_group: 4
categories:
  - name: day
    section_id: SEC-DAY
    section_name: Day
  - name: remote
    count: 2
`

func TestRoot_ConfigFileEnvAndFlags(t *testing.T) {
	clitest.SetupTestProject(t, projectConfig)
	t.Setenv("STUDENTGEN_DOMAIN", "env.edu")

	stdout, _, err := run(t, "summary", "-o", "json", "--per-group", "3")
	require.NoError(t, err)

	var plan commands.PlanOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &plan))
	assert.Equal(t, "INST-1", plan.InstituteID)
	assert.Equal(t, "PHY101", plan.ClassCode)
	assert.Equal(t, "env.edu", plan.EmailDomain)
	assert.Equal(t, 5, plan.Total)
	require.Len(t, plan.Categories, 2)
	assert.Equal(t, 3, plan.Categories[0].Count)
	assert.Equal(t, "Remote", plan.Categories[1].Label)
	assert.Equal(t, 2, plan.Categories[1].Count)
	assert.Equal(t, "student4@env.edu", plan.Categories[1].FirstEmail)
}

func TestRoot_ExplicitConfigAndVerbose(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(projectConfig), 0o600))

	stdout, stderr, err := run(t, "sql", "--config", path, "-v", "--client-id", "tenant")
	require.NoError(t, err)
	assert.Contains(t, stdout, "-- Generated Test Students for Staging Institute")
	assert.Contains(t, stdout, "'student1@staging.edu'")
	assert.NotContains(t, stdout, "IMPORTANT")
	assert.Contains(t, stderr, "using config file")
	assert.Contains(t, stderr, path)
}

func TestRoot_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"invalid output", []string{"summary", "-o", "yaml"}, "invalid output format"},
		{"invalid log level", []string{"summary", "--log-level", "loud"}, "loud"},
		{"negative group size", []string{"summary", "--per-group", "-1"}, "per_group must not be negative"},
		{"unknown category", []string{"summary", "--only", "night"}, "unknown category \"night\""},
		{"missing config file", []string{"summary", "--config", "missing.yaml"}, "missing.yaml"},
		{"stray argument", []string{"extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRoot_NoSubcommandRunsBulk(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := run(t, "--per-group", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Bulk Import File Generator")

	data, err := os.ReadFile(commands.DefaultCSVFile)
	require.NoError(t, err)
	assert.Equal(t, 7, bytes.Count(data, []byte("\n")))
}

func TestRoot_CompletionSkipsConfig(t *testing.T) {
	// A broken config file must not break completion.
	clitest.SetupTestProject(t, "per_group: [\n")

	stdout, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "studentgen")
}
