package modeldoc_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/leapstack-labs/modeldoc/internal/testutil"
	"github.com/leapstack-labs/modeldoc/pkg/adapters/sqlite"
	"github.com/leapstack-labs/modeldoc/pkg/core"
	"github.com/leapstack-labs/modeldoc/pkg/modeldoc"
	"github.com/leapstack-labs/modeldoc/pkg/relation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Author struct {
	modeldoc.Model
	Name string
}

func (Author) Books() relation.HasMany[Book] { return relation.HasMany[Book]{} }

type Book struct {
	modeldoc.Model
}

func (Book) TableName() string { return "library_books" }

func (Book) Writer() relation.BelongsTo[Author] { return relation.BelongsTo[Author]{} }

type settings struct{}

func newProvider(t *testing.T) *sqlite.Adapter {
	t.Helper()
	ctx := context.Background()

	p := sqlite.New(testutil.NewTestLogger(t))
	require.NoError(t, p.Connect(ctx, core.ConnConfig{Database: t.TempDir() + "/lib.db"}))
	t.Cleanup(func() { _ = p.Close() })

	for _, stmt := range []string{
		"CREATE TABLE authors (id INTEGER, name TEXT)",
		"CREATE TABLE library_books (id INTEGER, title VARCHAR(200), published_on DATE, author_id INTEGER)",
	} {
		_, err := p.DB.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	return p
}

func TestGenerate_DryRun(t *testing.T) {
	provider := newProvider(t)
	var out, errOut bytes.Buffer

	report, err := modeldoc.Generate(context.Background(), provider, modeldoc.Config{
		DryRun: true,
		Sort:   "name",
		Out:    &out,
		ErrOut: &errOut,
		Logger: testutil.NewTestLogger(t),
	}, Author{}, &Book{}, settings{})
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	assert.Equal(t, 2, report.Count(core.StatusPreviewed))
	assert.Equal(t, 1, report.Count(core.StatusSkipped))

	byModel := make(map[string]core.Result)
	for _, res := range report.Results {
		byModel[res.Model] = res
	}

	author := byModel["github.com/leapstack-labs/modeldoc/pkg/modeldoc_test.Author"]
	assert.Equal(t, "authors", author.Table)
	assert.Contains(t, author.File, "modeldoc_test.go")
	assert.Equal(t, "/**\n"+
		" * @table authors\n"+
		" * @property  integer  int     $id\n"+
		" * @property  text     string  $name\n"+
		" * @property-read []Book $Books\n"+
		" */\n", author.Block)

	book := byModel["github.com/leapstack-labs/modeldoc/pkg/modeldoc_test.Book"]
	assert.Equal(t, "library_books", book.Table)
	assert.Contains(t, book.Block, " * @property  date          time.Time  $published_on\n")
	assert.Contains(t, book.Block, " * @property-read Author $Writer\n")

	assert.Contains(t, out.String(), "Author (preview):")
	assert.Contains(t, out.String(), "settings is not a model")
}

func TestGenerate_UnknownRoot(t *testing.T) {
	_, err := modeldoc.Generate(context.Background(), newProvider(t), modeldoc.Config{
		Root:   t.TempDir(),
		DryRun: true,
	}, Author{})
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindUserInput))
}

func TestGenerate_NilModel(t *testing.T) {
	_, err := modeldoc.Generate(context.Background(), newProvider(t), modeldoc.Config{DryRun: true}, nil)
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindDiscovery))
}
