package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/senyabanana/shipquote-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapPgError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, wrapPgError(nil, models.ErrQuoteNotFound))
	})

	t.Run("no rows becomes not found", func(t *testing.T) {
		err := wrapPgError(fmt.Errorf("scan: %w", pgx.ErrNoRows), models.ErrQuoteNotFound)
		assert.ErrorIs(t, err, models.ErrQuoteNotFound)
	})

	t.Run("no rows without not found passes through", func(t *testing.T) {
		err := wrapPgError(pgx.ErrNoRows, nil)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})

	for _, code := range []string{uniqueViolation, foreignKeyViolation, checkViolation} {
		t.Run("constraint "+code, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: code, Message: "violates constraint", ConstraintName: "quote_quote_number_key"}
			err := wrapPgError(pgErr, nil)
			assert.ErrorIs(t, err, models.ErrPersistenceConflict)
			assert.Contains(t, err.Error(), "quote_quote_number_key")
		})
	}

	t.Run("malformed id", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: invalidText, Message: "invalid input syntax for type uuid"}
		assert.ErrorIs(t, wrapPgError(pgErr, models.ErrPortNotFound), models.ErrPortNotFound)
		assert.ErrorIs(t, wrapPgError(pgErr, nil), models.ErrInvalidParameter)
	})

	t.Run("numeric overflow is an invalid parameter", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: numericOutOfRange, Message: "numeric field overflow"}
		err := wrapPgError(pgErr, models.ErrQuoteNotFound)
		assert.ErrorIs(t, err, models.ErrInvalidParameter)
		assert.NotErrorIs(t, err, models.ErrQuoteNotFound)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		cause := errors.New("connection reset")
		assert.Equal(t, cause, wrapPgError(cause, models.ErrQuoteNotFound))
	})
}
