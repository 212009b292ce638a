package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassifier(t *testing.T) {
	c := NewErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "nil", err: nil, want: ""},
		{name: "unique violation code", err: &pgconn.PgError{Code: "23505"}, want: DuplicateKeyError},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: DuplicateKeyError},
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, want: LockError},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, want: LockError},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}, want: ConstraintError},
		{name: "duplicate message", err: errors.New("UNIQUE constraint failed: transactions.id"), want: DuplicateKeyError},
		{name: "timeout message", err: errors.New("i/o timeout"), want: TransientError},
		{name: "dial message", err: errors.New("dial tcp: lookup db"), want: ConnectionError},
		{name: "unknown", err: errors.New("syntax error at or near"), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

func TestIsContextError(t *testing.T) {
	assert.True(t, isContextError(fmt.Errorf("query: %w", context.Canceled)))
	assert.True(t, isContextError(errors.New("failed to connect: context deadline exceeded")))
	assert.False(t, isContextError(errors.New("relation does not exist")))
	assert.False(t, isContextError(nil))
}
