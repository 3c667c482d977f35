package repository

import (
	"errors"
	"fmt"

	"github.com/senyabanana/shipquote-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
	invalidText         = "22P02"
	numericOutOfRange   = "22003"
)

// wrapPgError переводит нарушения ограничений БД в ErrPersistenceConflict,
// а отсутствие строки или некорректный ID - в переданную ошибку notFound.
func wrapPgError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation, foreignKeyViolation, checkViolation:
			return fmt.Errorf("%w: %s (%s)", models.ErrPersistenceConflict, pgErr.Message, pgErr.ConstraintName)
		case invalidText:
			if notFound != nil {
				return notFound
			}
			return fmt.Errorf("%w: %s", models.ErrInvalidParameter, pgErr.Message)
		case numericOutOfRange:
			return fmt.Errorf("%w: %s", models.ErrInvalidParameter, pgErr.Message)
		}
	}
	return err
}
