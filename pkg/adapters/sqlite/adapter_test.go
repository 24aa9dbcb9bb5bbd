package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/modeldoc/internal/testutil"
	"github.com/leapstack-labs/modeldoc/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	ctx := context.Background()

	a := New(testutil.NewTestLogger(t))
	err := a.Connect(ctx, core.ConnConfig{Driver: "sqlite", Database: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.DB.ExecContext(ctx, `CREATE TABLE users (
		id BIGINT PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		score DECIMAL(8,2),
		active BOOLEAN,
		created_at TIMESTAMP,
		payload
	)`)
	require.NoError(t, err)
	return a
}

func TestAdapter_Columns(t *testing.T) {
	a := newTestAdapter(t)

	cols, err := a.Columns(context.Background(), "users")
	require.NoError(t, err)
	assert.Equal(t, []core.Column{
		{Name: "id", Type: "bigint"},
		{Name: "email", Type: "varchar(255)"},
		{Name: "score", Type: "decimal(8,2)"},
		{Name: "active", Type: "boolean"},
		{Name: "created_at", Type: "timestamp"},
		{Name: "payload", Type: ""},
	}, cols)
}

func TestAdapter_Columns_MissingTable(t *testing.T) {
	a := newTestAdapter(t)

	_, err := a.Columns(context.Background(), "posts")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTableNotFound)
}

func TestAdapter_Connect_NoPath(t *testing.T) {
	a := New(nil)
	err := a.Connect(context.Background(), core.ConnConfig{Driver: "sqlite"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database path not configured")
}
