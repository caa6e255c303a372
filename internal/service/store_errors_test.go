package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"clinicbook/internal/errors"
)

func TestStoreErr(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedKind errors.Kind
		expectedMsg  string
	}{
		{
			name:         "unique violation at commit becomes a retryable conflict",
			err:          &pgconn.PgError{Code: "23505"},
			expectedKind: errors.KindConflict,
			expectedMsg:  "concurrent modification, please retry",
		},
		{
			name:         "serialization failure becomes a retryable conflict",
			err:          &pgconn.PgError{Code: "40001"},
			expectedKind: errors.KindConflict,
			expectedMsg:  "concurrent modification, please retry",
		},
		{
			name:         "deadlock becomes a retryable conflict",
			err:          &pgconn.PgError{Code: "40P01"},
			expectedKind: errors.KindConflict,
			expectedMsg:  "concurrent modification, please retry",
		},
		{
			name:         "other postgres errors stay internal",
			err:          &pgconn.PgError{Code: "42P01"},
			expectedKind: errors.KindInternal,
		},
		{
			name:         "deadline overrun becomes a transient timeout",
			err:          context.DeadlineExceeded,
			expectedKind: errors.KindTimeout,
			expectedMsg:  "store operation timed out, retry later",
		},
		{
			name:         "wrapped deadline overrun is still a timeout",
			err:          fmt.Errorf("query: %w", context.DeadlineExceeded),
			expectedKind: errors.KindTimeout,
		},
		{
			name:         "untagged errors become internal",
			err:          stderrors.New("connection reset"),
			expectedKind: errors.KindInternal,
			expectedMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := storeErr(tt.err)
			assert.Error(t, got)
			assert.Equal(t, tt.expectedKind, errors.KindOf(got))
			if tt.expectedMsg != "" {
				assert.EqualError(t, got, tt.expectedMsg)
			}
		})
	}
}

func TestStoreErr_TaggedErrorsPassThrough(t *testing.T) {
	for _, tagged := range []error{
		errors.BadRequest("doctor fully booked for this slot"),
		errors.NotFound("no matching doctor"),
		errors.Unauthorized("authentication required"),
		errors.Conflict("concurrent modification, please retry"),
	} {
		// the kind set where the failure was detected is never rewritten
		assert.Equal(t, tagged, storeErr(tagged))
	}
}
