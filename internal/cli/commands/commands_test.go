package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/modeldoc/internal/cli/config"
	"github.com/leapstack-labs/modeldoc/internal/cli/testutil"
	"github.com/leapstack-labs/modeldoc/pkg/core"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/modeldoc/pkg/adapters/sqlite"
)

func TestNewGenerateCommand(t *testing.T) {
	cmd := NewGenerateCommand()

	assert.Equal(t, "generate", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	assert.Equal(t, []string{"gen"}, cmd.Aliases)

	flags := []string{"sort", "model", "dry-run", "ns"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestGenerateCommand_SortCompletion(t *testing.T) {
	cmd := NewGenerateCommand()

	complete, ok := cmd.GetFlagCompletionFunc("sort")
	require.True(t, ok, "sort flag should have a completion function")

	got, directive := complete(cmd, nil, "")
	assert.Equal(t, []string{"type", "name", "db"}, got)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}

func TestNewDriversCommand(t *testing.T) {
	cmd := NewDriversCommand()

	assert.Equal(t, "drivers", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestGeneratorOptions(t *testing.T) {
	cfg := &config.Config{
		ProjectRoot:      "/app",
		ModelsDir:        "/app/models",
		ModulesDir:       "/app/modules",
		Namespaces:       []string{"example.com/app/domain"},
		Sort:             "db",
		DryRun:           true,
		BaseModels:       []string{"Model", "Base"},
		ExcludeRelations: []string{"Audit"},
		Marker:           "docgen",
		Types:            config.TypesConfig{Temporal: "Carbon", Collection: "Collection|%s[]"},
	}

	opts := generatorOptions(cfg, "example.com/app/models.User")

	assert.Equal(t, "/app", opts.Root)
	assert.Equal(t, "/app/models", opts.ModelsDir)
	assert.Equal(t, "/app/modules", opts.ModulesDir)
	assert.Equal(t, []string{"example.com/app/domain"}, opts.Namespaces)
	assert.Equal(t, "example.com/app/models.User", opts.Model)
	assert.Equal(t, "db", opts.Sort)
	assert.True(t, opts.DryRun)
	assert.Equal(t, []string{"Model", "Base"}, opts.BaseModels)
	assert.Equal(t, []string{"Audit"}, opts.ExcludeRelations)
	assert.Equal(t, "Carbon", opts.Temporal)
	assert.Equal(t, "Collection|%s[]", opts.CollectionFormat)
	assert.Equal(t, "docgen", opts.Marker)
}

func TestDrivers(t *testing.T) {
	drivers := Drivers()

	var sqlite *DriverInfo
	for i := range drivers {
		if drivers[i].Name == "sqlite" {
			sqlite = &drivers[i]
		}
	}
	require.NotNil(t, sqlite, "sqlite provider should be registered")
	assert.False(t, sqlite.Fallback)
	assert.Contains(t, sqlite.Aliases, "sqlite3")

	names := DriverNames()
	assert.Contains(t, names, "sqlite")
	assert.Contains(t, names, "sqlite3")
	assert.IsNonDecreasing(t, names)
}

func TestDriversCommand_JSON(t *testing.T) {
	config.ResetConfig()
	t.Setenv("MODELDOC_OUTPUT", "json")

	cmd := NewDriversCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	var got []DriverInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.NotEmpty(t, got)
	assert.Empty(t, errOut.String())
}

func TestDriversCommand_Text(t *testing.T) {
	config.ResetConfig()
	t.Setenv("MODELDOC_OUTPUT", "text")

	cmd := NewDriversCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Drivers")
	assert.Contains(t, out.String(), "✓ sqlite aliases: sqlite3")
}

func TestRenderSummary(t *testing.T) {
	tr := testutil.NewTestRendererText()

	renderSummary(tr.Renderer, &core.Report{Results: []core.Result{
		{Model: "example.com/app/models.User", Table: "users", Status: core.StatusUpdated, Columns: 3, Relations: 1},
		{Model: "example.com/app/models.Tag", Table: "tags", Status: core.StatusSkipped, Reason: "table not found"},
	}})

	s := tr.Output()
	testutil.AssertNoANSI(t, s)
	testutil.AssertContains(t, s, "Summary")
	testutil.AssertContains(t, s, "example.com/app/models.User")
	testutil.AssertContains(t, s, "updated")
	testutil.AssertContains(t, s, "table not found")

	tr.Reset()
	renderSummary(tr.Renderer, &core.Report{})
	assert.Equal(t, "No models found\n", tr.Output())
}

func TestRenderSummary_JSONModeKeepsStdoutClean(t *testing.T) {
	tr := testutil.NewTestRendererJSON()

	renderSummary(tr.Renderer, &core.Report{Results: []core.Result{
		{Model: "example.com/app/models.User", Status: core.StatusPreviewed},
	}})
	_, err := tr.Document(map[string]string{"status": "ok"})
	require.NoError(t, err)

	testutil.AssertMachineOutput(t, tr)
	testutil.AssertContains(t, tr.ErrorOutput(), "example.com/app/models.User")
	testutil.AssertNotContains(t, tr.Output(), "Summary")
}
