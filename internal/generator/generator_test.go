package generator

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/modeldoc/internal/catalog"
	"github.com/leapstack-labs/modeldoc/internal/testutil"
	"github.com/leapstack-labs/modeldoc/pkg/adapter"
	"github.com/leapstack-labs/modeldoc/pkg/adapters/sqlite"
	"github.com/leapstack-labs/modeldoc/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Console that keeps every line with a level prefix.
type recorder struct {
	lines []string
}

func (r *recorder) Println(msg string) { r.lines = append(r.lines, msg) }
func (r *recorder) Success(msg string) { r.lines = append(r.lines, "ok: "+msg) }
func (r *recorder) Warning(msg string) { r.lines = append(r.lines, "warn: "+msg) }
func (r *recorder) Error(msg string)   { r.lines = append(r.lines, "error: "+msg) }
func (r *recorder) Muted(msg string)   { r.lines = append(r.lines, msg) }

func (r *recorder) Progress(label, target string) {
	r.lines = append(r.lines, label+": "+target)
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, l := range r.lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func (r *recorder) String() string {
	return strings.Join(r.lines, "\n")
}

const (
	modelSource = "package models\n\ntype Model struct{ ID int64 }\n"

	userSource = `package models

type User struct {
	Model
}

func (User) Posts() rel.HasMany[Post] { return rel.HasMany[Post]{} }
`

	postSource = `package models

// Post is an article.
type Post struct {
	Model
}

func (Post) Author() rel.BelongsTo[User] { return rel.BelongsTo[User]{} }
`
)

type project struct {
	root     string
	dbPath   string
	provider *sqlite.Adapter
}

func (p *project) path(rel string) string {
	return filepath.Join(p.root, filepath.FromSlash(rel))
}

func (p *project) read(t *testing.T, rel string) string {
	t.Helper()
	b, err := os.ReadFile(p.path(rel))
	require.NoError(t, err)
	return string(b)
}

func (p *project) write(t *testing.T, rel, content string) {
	t.Helper()
	path := p.path(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newProject(t *testing.T) *project {
	t.Helper()
	ctx := context.Background()

	p := &project{root: t.TempDir()}
	p.dbPath = filepath.Join(t.TempDir(), "app.db")
	p.write(t, "go.mod", "module example.com/app\n\ngo 1.21\n")
	p.write(t, "models/model.go", modelSource)
	p.write(t, "models/user.go", userSource)
	p.write(t, "models/post.go", postSource)

	p.provider = sqlite.New(testutil.NewTestLogger(t))
	require.NoError(t, p.provider.Connect(ctx, core.ConnConfig{Driver: "sqlite", Database: p.dbPath}))
	t.Cleanup(func() { _ = p.provider.Close() })

	for _, stmt := range []string{
		"CREATE TABLE users (id BIGINT PRIMARY KEY, email VARCHAR, created_at TIMESTAMP)",
		"CREATE TABLE posts (id INTEGER PRIMARY KEY, title TEXT, user_id BIGINT)",
	} {
		_, err := p.provider.DB.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	return p
}

func (p *project) options() Options {
	return Options{
		Root:       p.root,
		ModelsDir:  "models",
		ModulesDir: "modules",
	}
}

func run(t *testing.T, provider adapter.Provider, opts Options) (*core.Report, *recorder) {
	t.Helper()
	rec := &recorder{}
	g := New(provider, rec, opts, testutil.NewTestLogger(t))
	report, err := g.Run(context.Background())
	require.NoError(t, err)
	return report, rec
}

const wantUserSource = `package models

// modeldoc:begin User
/**
 * @table users
 * @property  bigint     int        $id
 * @property  varchar    string     $email
 * @property  timestamp  time.Time  $created_at
 * @property-read []Post $Posts
 */
// modeldoc:end User
type User struct {
	Model
}

func (User) Posts() rel.HasMany[Post] { return rel.HasMany[Post]{} }
`

func TestGenerator_Run_WritesBlocks(t *testing.T) {
	p := newProject(t)

	report, rec := run(t, p.provider, p.options())

	assert.Equal(t, wantUserSource, p.read(t, "models/user.go"))
	assert.Contains(t, p.read(t, "models/post.go"), "// Post is an article.\n// modeldoc:begin Post\n/**\n * @table posts\n")
	assert.Contains(t, p.read(t, "models/post.go"), " * @property-read User $Author\n")
	assert.Equal(t, modelSource, p.read(t, "models/model.go"))

	assert.Equal(t, 2, report.Count(core.StatusUpdated))
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "type", report.Sort)
	assert.Contains(t, rec.lines, "Scanning: example.com/app/models")
	assert.Contains(t, rec.lines, "ok: Updated: User")
	assert.Contains(t, rec.lines, "ok: Done generating model docs.")
}

func TestGenerator_Run_Idempotent(t *testing.T) {
	p := newProject(t)

	run(t, p.provider, p.options())
	first := p.read(t, "models/user.go") + p.read(t, "models/post.go")

	run(t, p.provider, p.options())
	second := p.read(t, "models/user.go") + p.read(t, "models/post.go")

	assert.Equal(t, first, second)
}

func TestGenerator_Run_DryRun(t *testing.T) {
	p := newProject(t)
	opts := p.options()
	opts.DryRun = true

	report, rec := run(t, p.provider, opts)

	assert.Equal(t, userSource, p.read(t, "models/user.go"))
	assert.Equal(t, postSource, p.read(t, "models/post.go"))
	assert.Equal(t, 2, report.Count(core.StatusPreviewed))
	assert.True(t, report.DryRun)
	assert.Contains(t, rec.String(), "User (preview):\n/**\n * @table users\n")
	assert.Zero(t, rec.count("ok: Updated"))
}

func TestGenerator_Run_SortPolicy(t *testing.T) {
	p := newProject(t)
	opts := p.options()
	opts.DryRun = true
	opts.Sort = "name"

	report, _ := run(t, p.provider, opts)
	for _, res := range report.Results {
		if strings.HasSuffix(res.Model, ".User") {
			assert.Contains(t, res.Block, "$created_at\n * @property  varchar    string     $email\n * @property  bigint     int        $id\n")
		}
	}
	assert.Equal(t, "name", report.Sort)
}

func TestGenerator_Run_InvalidSortFallsBack(t *testing.T) {
	p := newProject(t)
	opts := p.options()
	opts.DryRun = true
	opts.Sort = "size"

	report, rec := run(t, p.provider, opts)

	assert.Equal(t, 1, rec.count(`warn: Invalid sort option "size"`))
	assert.Equal(t, "type", report.Sort)
	assert.Equal(t, 2, report.Count(core.StatusPreviewed))
}

func TestGenerator_Run_MissingTable(t *testing.T) {
	p := newProject(t)
	p.write(t, "models/tag.go", "package models\n\ntype Tag struct{ Model }\n")

	report, rec := run(t, p.provider, p.options())

	assert.Contains(t, rec.lines, "warn: Table 'tags' not found for model Tag")
	assert.Equal(t, 1, report.Count(core.StatusSkipped))
	assert.Equal(t, 2, report.Count(core.StatusUpdated))
	assert.Equal(t, "package models\n\ntype Tag struct{ Model }\n", p.read(t, "models/tag.go"))
}

func TestGenerator_Run_UnloadableFile(t *testing.T) {
	p := newProject(t)
	p.write(t, "models/broken.go", "package models\n\ntype Broken struct {\n")

	report, rec := run(t, p.provider, p.options())

	assert.Equal(t, 1, rec.count("warn: Cannot load "))
	assert.Equal(t, 2, report.Count(core.StatusUpdated))
}

func TestGenerator_Run_WriteFailureContinues(t *testing.T) {
	p := newProject(t)
	p.write(t, "models/post.go", "package models\n\n// modeldoc:begin Post\ntype Post struct {\n\tModel\n}\n")

	report, rec := run(t, p.provider, p.options())

	assert.Equal(t, 1, report.Count(core.StatusFailed))
	assert.Equal(t, 1, report.Count(core.StatusUpdated))
	assert.True(t, report.Failed())
	assert.Equal(t, 1, rec.count("error: write error for Post"))
	assert.Equal(t, wantUserSource, p.read(t, "models/user.go"))
}

func TestGenerator_Run_FallbackWarnsOnce(t *testing.T) {
	p := newProject(t)

	generic := adapter.NewGeneric("sqlite", nil)
	require.NoError(t, generic.Connect(context.Background(), core.ConnConfig{Database: p.dbPath}))
	t.Cleanup(func() { _ = generic.Close() })

	opts := p.options()
	opts.DryRun = true
	report, rec := run(t, generic, opts)

	assert.Equal(t, 1, rec.count(`warn: Unsupported driver "sqlite"`))
	assert.Equal(t, 2, report.Count(core.StatusPreviewed))
}

func TestGenerator_Run_ModulesAndNamespaces(t *testing.T) {
	p := newProject(t)
	p.write(t, "modules/blog/models/comment.go", "package models\n\ntype Comment struct{ Model }\n")
	p.write(t, "modules/shop/go.mod", "module example.com/shop\n\ngo 1.21\n")
	p.write(t, "modules/shop/models/order.go", "package models\n\ntype Order struct{ Model }\n")
	p.write(t, "domain/entities/user.go", userSource)

	_, err := p.provider.DB.ExecContext(context.Background(), "CREATE TABLE comments (id INTEGER, body TEXT)")
	require.NoError(t, err)

	opts := p.options()
	opts.DryRun = true
	opts.Namespaces = []string{"example.com/app/domain/entities", "example.com/app/models", "example.com/app/nowhere"}

	report, rec := run(t, p.provider, opts)

	assert.Equal(t, []string{
		"Scanning: example.com/app/models",
		"Scanning: example.com/app/modules/blog/models",
		"Scanning: example.com/shop/models",
		"Scanning: example.com/app/domain/entities",
	}, scanningLines(rec))
	assert.Equal(t, 1, rec.count("warn: Namespace example.com/app/nowhere could not be resolved"))
	assert.Equal(t, 1, rec.count("warn: Table 'orders' not found"))

	models := make([]string, 0, len(report.Results))
	for _, res := range report.Results {
		models = append(models, res.Model)
	}
	assert.Contains(t, models, "example.com/app/modules/blog/models.Comment")
	assert.Contains(t, models, "example.com/app/domain/entities.User")
}

func TestGenerator_Run_NestedTargetsScannedOnce(t *testing.T) {
	const adminSource = "package admin\n\ntype User struct{ Model }\n"

	tests := []struct {
		name       string
		modelsDir  string
		namespaces []string
		scanning   []string
	}{
		{
			name:       "namespace inside models dir",
			modelsDir:  "models",
			namespaces: []string{"example.com/app/models/admin"},
			scanning:   []string{"Scanning: example.com/app/models"},
		},
		{
			name:       "namespace containing an earlier target",
			namespaces: []string{"example.com/app/models/admin", "example.com/app/models"},
			scanning:   []string{"Scanning: example.com/app/models"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProject(t)
			p.write(t, "models/admin/admin.go", adminSource)

			opts := p.options()
			opts.ModelsDir = tt.modelsDir
			opts.Namespaces = tt.namespaces
			opts.DryRun = true

			report, rec := run(t, p.provider, opts)

			assert.Equal(t, tt.scanning, scanningLines(rec))
			assert.Equal(t, 3, report.Count(core.StatusPreviewed))

			admins := 0
			for _, res := range report.Results {
				if res.Model == "example.com/app/models/admin.User" {
					admins++
				}
			}
			assert.Equal(t, 1, admins)
		})
	}
}

func TestGenerator_ResolveTargets_NestedModuleKept(t *testing.T) {
	p := newProject(t)
	p.write(t, "models/plugin/go.mod", "module example.com/plugin\n\ngo 1.21\n")
	p.write(t, "models/plugin/plugin.go", "package plugin\n\ntype Plugin struct{ Model }\n")
	p.write(t, "go.work", "go 1.21\n\nuse (\n\t.\n\t./models/plugin\n)\n")

	m, err := catalog.LoadManifest(p.root, "modules")
	require.NoError(t, err)

	opts := p.options()
	opts.Namespaces = []string{"example.com/plugin"}
	g := New(p.provider, &recorder{}, opts, testutil.NewTestLogger(t))

	var prefixes []string
	for _, target := range g.ResolveTargets(m) {
		prefixes = append(prefixes, target.Prefix)
	}
	assert.Equal(t, []string{"example.com/app/models", "example.com/plugin"}, prefixes)
}

func scanningLines(r *recorder) []string {
	var out []string
	for _, l := range r.lines {
		if strings.HasPrefix(l, "Scanning: ") {
			out = append(out, l)
		}
	}
	return out
}

func TestGenerator_Run_SingleModel(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
	t.Setenv("GOWORK", "off")
	t.Setenv("GOFLAGS", "-mod=mod")

	p := newProject(t)
	opts := p.options()
	opts.Model = "example.com/app/models/User"

	report, rec := run(t, p.provider, opts)

	require.Len(t, report.Results, 1)
	assert.Equal(t, core.StatusUpdated, report.Results[0].Status)
	assert.Contains(t, rec.lines, "Processing model: example.com/app/models.User")
	assert.Equal(t, wantUserSource, p.read(t, "models/user.go"))
	assert.Equal(t, postSource, p.read(t, "models/post.go"))
}

func TestGenerator_Run_SingleModelErrors(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
	t.Setenv("GOWORK", "off")
	t.Setenv("GOFLAGS", "-mod=mod")

	p := newProject(t)

	tests := []struct {
		name  string
		model string
		errIs error
	}{
		{"not a model", "example.com/app/models.Model", core.ErrNotModel},
		{"missing type", "example.com/app/models.Missing", core.ErrTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := p.options()
			opts.Model = tt.model

			g := New(p.provider, &recorder{}, opts, nil)
			report, err := g.Run(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.errIs)
			assert.True(t, core.IsKind(err, core.KindUserInput))
			assert.Empty(t, report.Results)
		})
	}

	g := New(p.provider, &recorder{}, Options{Root: p.root, Model: "User"}, nil)
	_, err := g.Run(context.Background())
	assert.True(t, core.IsKind(err, core.KindUserInput))
}

func TestGenerator_Properties(t *testing.T) {
	g := New(adapter.NewGeneric("x", nil), &recorder{}, Options{Temporal: "Carbon"}, nil)

	props := g.Properties([]core.Column{
		{Name: "id", Type: "bigint"},
		{Name: "seen_at", Type: "timestamp"},
		{Name: "n", Type: "integer", Generic: true, GoType: "sql.NullInt64"},
		{Name: "blob", Type: "blob", Generic: true},
	})

	assert.Equal(t, []core.Property{
		{Name: "id", NativeType: "bigint", DocType: "int"},
		{Name: "seen_at", NativeType: "timestamp", DocType: "Carbon"},
		{Name: "n", NativeType: "integer", DocType: "int"},
		{Name: "blob", NativeType: "blob", DocType: "mixed"},
	}, props)
}
