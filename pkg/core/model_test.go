package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSortPolicy(t *testing.T) {
	tests := []struct {
		input string
		want  SortPolicy
		valid bool
	}{
		{"type", SortByType, true},
		{"name", SortByName, true},
		{"db", SortByDB, true},
		{" DB ", SortByDB, true},
		{"", SortByType, false},
		{"size", SortByType, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseSortPolicy(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestError(t *testing.T) {
	err := NewError(KindSchema, "User", fmt.Errorf("users: %w", ErrTableNotFound))

	assert.Equal(t, "schema error for User: users: table not found", err.Error())
	assert.True(t, errors.Is(err, ErrTableNotFound))
	assert.True(t, IsKind(err, KindSchema))
	assert.False(t, IsKind(err, KindWrite))
	assert.False(t, IsKind(errors.New("plain"), KindSchema))
}

func TestReport_Count(t *testing.T) {
	r := &Report{}
	r.Add(Result{Model: "User", Status: StatusUpdated})
	r.Add(Result{Model: "Post", Status: StatusSkipped})
	r.Add(Result{Model: "Tag", Status: StatusUpdated})

	assert.Equal(t, 2, r.Count(StatusUpdated))
	assert.Equal(t, 1, r.Count(StatusSkipped))
	assert.False(t, r.Failed())

	r.Add(Result{Model: "Bad", Status: StatusFailed})
	assert.True(t, r.Failed())
}
