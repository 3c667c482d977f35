package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/senyabanana/shipquote-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// QuoteRepository - интерфейс для работы с предложениями и их позициями.
type QuoteRepository interface {
	CreateQuote(ctx context.Context, quote *models.Quote) error
	GetQuote(ctx context.Context, quoteId string) (*models.Quote, error)
	ListQuotes(ctx context.Context, filter models.QuoteFilter) ([]models.Quote, error)
	UpdateQuoteStatus(ctx context.Context, quoteId string, status models.QuoteStatus) (*models.Quote, error)
	InsertItem(ctx context.Context, item *models.QuoteItem) error
	UpdateItem(ctx context.Context, item *models.QuoteItem) error
	DeleteItem(ctx context.Context, quoteId, itemId string) error
}

// PostgresQuoteRepository - реализация QuoteRepository для базы данных.
type PostgresQuoteRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresQuoteRepository создаёт новый экземпляр PostgresQuoteRepository.
func NewPostgresQuoteRepository(db *pgxpool.Pool) *PostgresQuoteRepository {
	return &PostgresQuoteRepository{DB: db}
}

const quoteColumns = `id, quote_number, customer_name, customer_email, customer_company, origin_port_id, destination_port_id,
	status, documentation_fee, total_amount, currency, valid_until, created_at, updated_at, created_by, notes`

const quoteItemColumns = `id, quote_id, container_type_id, cargo_type_id, quantity, weight_kg, volume_cbm,
	base_rate, fuel_surcharge, handling_fee, documentation_fee, insurance_fee, subtotal`

func scanQuote(row pgx.Row) (*models.Quote, error) {
	var q models.Quote
	err := row.Scan(
		&q.ID,
		&q.QuoteNumber,
		&q.CustomerName,
		&q.CustomerEmail,
		&q.CustomerCompany,
		&q.OriginPortID,
		&q.DestinationPortID,
		&q.Status,
		&q.DocumentationFee,
		&q.TotalAmount,
		&q.Currency,
		&q.ValidUntil,
		&q.CreatedAt,
		&q.UpdatedAt,
		&q.CreatedBy,
		&q.Notes)
	if err != nil {
		return nil, err
	}
	q.Items = []models.QuoteItem{}
	return &q, nil
}

func scanQuoteItem(row pgx.Row) (*models.QuoteItem, error) {
	var it models.QuoteItem
	err := row.Scan(
		&it.ID,
		&it.QuoteID,
		&it.ContainerTypeID,
		&it.CargoTypeID,
		&it.Quantity,
		&it.WeightKg,
		&it.VolumeCbm,
		&it.BaseRate,
		&it.FuelSurcharge,
		&it.HandlingFee,
		&it.DocumentationFee,
		&it.InsuranceFee,
		&it.Subtotal)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func insertItem(ctx context.Context, tx pgx.Tx, it *models.QuoteItem) error {
	_, err := tx.Exec(ctx, `
       INSERT INTO quote_item (`+quoteItemColumns+`)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
   `,
		it.ID,
		it.QuoteID,
		it.ContainerTypeID,
		it.CargoTypeID,
		it.Quantity,
		it.WeightKg,
		it.VolumeCbm,
		it.BaseRate,
		it.FuelSurcharge,
		it.HandlingFee,
		it.DocumentationFee,
		it.InsuranceFee,
		it.Subtotal)
	return err
}

// CreateQuote сохраняет предложение вместе с позициями в одной транзакции.
// ID, временные метки и ID позиций проставляются здесь.
func (r *PostgresQuoteRepository) CreateQuote(ctx context.Context, quote *models.Quote) error {
	now := time.Now().UTC()
	quote.ID = uuid.New().String()
	quote.CreatedAt = now
	quote.UpdatedAt = now
	for i := range quote.Items {
		quote.Items[i].ID = uuid.New().String()
		quote.Items[i].QuoteID = quote.ID
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
       INSERT INTO quote (`+quoteColumns+`)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
   `,
		quote.ID,
		quote.QuoteNumber,
		quote.CustomerName,
		quote.CustomerEmail,
		quote.CustomerCompany,
		quote.OriginPortID,
		quote.DestinationPortID,
		quote.Status,
		quote.DocumentationFee,
		quote.TotalAmount,
		quote.Currency,
		quote.ValidUntil,
		quote.CreatedAt,
		quote.UpdatedAt,
		quote.CreatedBy,
		quote.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert quote: %w", wrapPgError(err, nil))
	}

	for i := range quote.Items {
		if err := insertItem(ctx, tx, &quote.Items[i]); err != nil {
			return fmt.Errorf("failed to insert quote item: %w", wrapPgError(err, nil))
		}
	}

	return tx.Commit(ctx)
}

// GetQuote возвращает предложение вместе с позициями.
func (r *PostgresQuoteRepository) GetQuote(ctx context.Context, quoteId string) (*models.Quote, error) {
	quote, err := scanQuote(r.DB.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quote WHERE id = $1`, quoteId))
	if err != nil {
		return nil, wrapPgError(err, models.ErrQuoteNotFound)
	}

	rows, err := r.DB.Query(ctx, `SELECT `+quoteItemColumns+` FROM quote_item WHERE quote_id = $1 ORDER BY position`, quote.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		it, err := scanQuoteItem(rows)
		if err != nil {
			return nil, err
		}
		quote.Items = append(quote.Items, *it)
	}
	return quote, rows.Err()
}

// ListQuotes возвращает список предложений без позиций, новые первыми.
func (r *PostgresQuoteRepository) ListQuotes(ctx context.Context, filter models.QuoteFilter) ([]models.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quote`
	var filters []string
	var args []interface{}
	argIndex := 1

	if len(filter.Statuses) > 0 {
		filters = append(filters, fmt.Sprintf("status = ANY($%d)", argIndex))
		args = append(args, pq.Array(filter.Statuses))
		argIndex++
	}
	if filter.CustomerEmail != "" {
		filters = append(filters, fmt.Sprintf("customer_email = $%d", argIndex))
		args = append(args, filter.CustomerEmail)
		argIndex++
	}

	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotes := []models.Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *q)
	}
	return quotes, rows.Err()
}

// UpdateQuoteStatus меняет статус предложения.
func (r *PostgresQuoteRepository) UpdateQuoteStatus(ctx context.Context, quoteId string, status models.QuoteStatus) (*models.Quote, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE quote SET status = $1, updated_at = NOW() WHERE id = $2`, status, quoteId)
	if err != nil {
		return nil, wrapPgError(err, models.ErrQuoteNotFound)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.ErrQuoteNotFound
	}
	return r.GetQuote(ctx, quoteId)
}

// InsertItem добавляет позицию и пересчитывает итоговую сумму предложения.
func (r *PostgresQuoteRepository) InsertItem(ctx context.Context, item *models.QuoteItem) error {
	item.ID = uuid.New().String()
	return r.withTotal(ctx, item.QuoteID, func(tx pgx.Tx) error {
		if err := insertItem(ctx, tx, item); err != nil {
			return fmt.Errorf("failed to insert quote item: %w", wrapPgError(err, nil))
		}
		return nil
	})
}

// UpdateItem перезаписывает позицию и пересчитывает итоговую сумму предложения.
func (r *PostgresQuoteRepository) UpdateItem(ctx context.Context, item *models.QuoteItem) error {
	return r.withTotal(ctx, item.QuoteID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
	       UPDATE quote_item SET container_type_id = $1, cargo_type_id = $2, quantity = $3, weight_kg = $4, volume_cbm = $5,
	              base_rate = $6, fuel_surcharge = $7, handling_fee = $8, documentation_fee = $9, insurance_fee = $10, subtotal = $11
	       WHERE id = $12 AND quote_id = $13
	   `,
			item.ContainerTypeID,
			item.CargoTypeID,
			item.Quantity,
			item.WeightKg,
			item.VolumeCbm,
			item.BaseRate,
			item.FuelSurcharge,
			item.HandlingFee,
			item.DocumentationFee,
			item.InsuranceFee,
			item.Subtotal,
			item.ID,
			item.QuoteID)
		if err != nil {
			return wrapPgError(err, models.ErrQuoteItemNotFound)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrQuoteItemNotFound
		}
		return nil
	})
}

// DeleteItem удаляет позицию и пересчитывает итоговую сумму предложения.
func (r *PostgresQuoteRepository) DeleteItem(ctx context.Context, quoteId, itemId string) error {
	return r.withTotal(ctx, quoteId, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM quote_item WHERE id = $1 AND quote_id = $2`, itemId, quoteId)
		if err != nil {
			return wrapPgError(err, models.ErrQuoteItemNotFound)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrQuoteItemNotFound
		}
		return nil
	})
}

// withTotal выполняет fn в транзакции и пересчитывает total_amount по сохранённым позициям.
// Строка предложения блокируется до изменения позиций, поэтому параллельные правки одного
// предложения выполняются по очереди.
func (r *PostgresQuoteRepository) withTotal(ctx context.Context, quoteId string, fn func(tx pgx.Tx) error) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var locked string
	err = tx.QueryRow(ctx, `SELECT id FROM quote WHERE id = $1 FOR UPDATE`, quoteId).Scan(&locked)
	if err != nil {
		return wrapPgError(err, models.ErrQuoteNotFound)
	}

	if err := fn(tx); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
	   UPDATE quote
	   SET total_amount = documentation_fee + (SELECT COALESCE(SUM(subtotal), 0) FROM quote_item WHERE quote_id = $1),
	       updated_at = NOW()
	   WHERE id = $1
	`, quoteId)
	if err != nil {
		return wrapPgError(err, nil)
	}
	return tx.Commit(ctx)
}
