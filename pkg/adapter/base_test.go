package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/modeldoc/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB", setupDB: false},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := NewBase(nil)

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			assert.NoError(t, base.Close())
			assert.Equal(t, tt.setupDB, base.IsConnected())
		})
	}
}

func TestBaseSQLAdapter_QueryColumns(t *testing.T) {
	const query = "SELECT name, type FROM meta WHERE t = ?"

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      []core.Column
		errIs     error
		errMsg    string
	}{
		{
			name: "ordered and lowercased",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT name, type FROM meta").
					WithArgs("users").
					WillReturnRows(sqlmock.NewRows([]string{"name", "type"}).
						AddRow("id", "BIGINT").
						AddRow("email", "VARCHAR").
						AddRow("note", nil))
			},
			want: []core.Column{
				{Name: "id", Type: "bigint"},
				{Name: "email", Type: "varchar"},
				{Name: "note", Type: ""},
			},
		},
		{
			name: "no rows means missing table",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT name, type FROM meta").
					WithArgs("users").
					WillReturnRows(sqlmock.NewRows([]string{"name", "type"}))
			},
			errIs: core.ErrTableNotFound,
		},
		{
			name: "query error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT name, type FROM meta").
					WithArgs("users").
					WillReturnError(errors.New("connection reset"))
			},
			errMsg: "failed to query column metadata: connection reset",
		},
		{
			name: "row error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT name, type FROM meta").
					WithArgs("users").
					WillReturnRows(sqlmock.NewRows([]string{"name", "type"}).
						AddRow("id", "int").
						RowError(0, errors.New("broken row")))
			},
			errMsg: "error iterating column metadata: broken row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tt.setupMock(mock)
			base := NewBase(nil)
			base.DB = db

			cols, err := base.QueryColumns(context.Background(), "users", query, "users")
			switch {
			case tt.errIs != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.errIs)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, cols)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBaseSQLAdapter_QueryColumns_NotConnected(t *testing.T) {
	base := NewBase(nil)
	_, err := base.QueryColumns(context.Background(), "users", "SELECT 1")
	require.Error(t, err)
	assert.Equal(t, "database connection not established", err.Error())
}

func TestParseQualifiedName(t *testing.T) {
	schema, name := ParseQualifiedName("analytics.users", "public")
	assert.Equal(t, "analytics", schema)
	assert.Equal(t, "users", name)

	schema, name = ParseQualifiedName("users", "public")
	assert.Equal(t, "public", schema)
	assert.Equal(t, "users", name)
}
