package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gocomet/ride-ledger/pkg/errors"
)

func TestTranslate_Nil(t *testing.T) {
	assert.NoError(t, Translate("passenger.create", nil))
}

func TestTranslate_ConstraintCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "pq unique",
			err:  &pq.Error{Code: "23505", Constraint: "passengers_phone_key"},
			want: `duplicate value violates unique constraint "passengers_phone_key"`,
		},
		{
			name: "pq foreign key",
			err:  &pq.Error{Code: "23503", Constraint: "rides_passenger_id_fkey"},
			want: `referenced row does not exist or is still referenced "rides_passenger_id_fkey"`,
		},
		{
			name: "pgx check",
			err:  &pgconn.PgError{Code: "23514", ConstraintName: "rides_price_check"},
			want: `value violates check constraint "rides_price_check"`,
		},
		{
			name: "pgx not null without constraint name",
			err:  &pgconn.PgError{Code: "23502"},
			want: "required column is null",
		},
		{
			name: "wrapped pq error",
			err:  fmt.Errorf("exec: %w", &pq.Error{Code: "23505"}),
			want: "duplicate value violates unique constraint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Translate("ride.create", tt.err)

			require.True(t, apperrors.IsConstraint(err))
			appErr := apperrors.GetAppError(err)
			assert.Equal(t, "ride.create", appErr.Op)
			assert.Equal(t, tt.want, appErr.Message)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestTranslate_OtherErrorsAreStoreFailures(t *testing.T) {
	tests := []error{
		errors.New("connection reset by peer"),
		&pq.Error{Code: "42P01"},
		&pgconn.PgError{Code: "57014"},
	}

	for _, cause := range tests {
		err := Translate("report.total_revenue", cause)
		assert.True(t, apperrors.IsStore(err), "%v", cause)
		assert.Equal(t, "report.total_revenue", apperrors.GetAppError(err).Op)
	}
}

func TestTranslate_AppErrorPassesThrough(t *testing.T) {
	in := apperrors.WithOp(apperrors.ErrRideNotFound, "ride.get")

	out := Translate("ride.other", in)

	assert.Same(t, in, out)
}
