package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	quoteNumberPrefix = "SQ"
	redisSeqKeyPrefix = "shipquote:quote_seq:"
	redisSeqTTL       = 48 * time.Hour
	seqDayLayout      = "20060102"
)

// QuoteNumberer выдаёт номера предложений вида SQ{YYYYMMDD}{NNNN}.
type QuoteNumberer interface {
	NextQuoteNumber(ctx context.Context, day time.Time) (string, error)
}

// FormatQuoteNumber собирает номер предложения из даты и порядкового номера за день.
func FormatQuoteNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("%s%s%04d", quoteNumberPrefix, day.UTC().Format(seqDayLayout), seq)
}

// PostgresQuoteNumberer - счётчик номеров в таблице quote_number_sequence.
type PostgresQuoteNumberer struct {
	DB *pgxpool.Pool
}

// NewPostgresQuoteNumberer создаёт новый экземпляр PostgresQuoteNumberer.
func NewPostgresQuoteNumberer(db *pgxpool.Pool) *PostgresQuoteNumberer {
	return &PostgresQuoteNumberer{DB: db}
}

// NextQuoteNumber атомарно увеличивает счётчик дня и возвращает номер.
func (n *PostgresQuoteNumberer) NextQuoteNumber(ctx context.Context, day time.Time) (string, error) {
	var seq int64
	err := n.DB.QueryRow(ctx, `
       INSERT INTO quote_number_sequence (day, last_value)
       VALUES ($1, 1)
       ON CONFLICT (day) DO UPDATE SET last_value = quote_number_sequence.last_value + 1
       RETURNING last_value
   `, day.UTC().Truncate(24*time.Hour)).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("failed to allocate quote number: %w", err)
	}
	return FormatQuoteNumber(day, seq), nil
}

// RedisQuoteNumberer - счётчик номеров на INCR в Redis.
type RedisQuoteNumberer struct {
	Client *redis.Client
}

// NewRedisQuoteNumberer создаёт новый экземпляр RedisQuoteNumberer.
func NewRedisQuoteNumberer(client *redis.Client) *RedisQuoteNumberer {
	return &RedisQuoteNumberer{Client: client}
}

func redisSeqKey(day time.Time) string {
	return redisSeqKeyPrefix + day.UTC().Format(seqDayLayout)
}

// NextQuoteNumber увеличивает счётчик дня. Ключ живёт двое суток.
func (n *RedisQuoteNumberer) NextQuoteNumber(ctx context.Context, day time.Time) (string, error) {
	key := redisSeqKey(day)

	pipe := n.Client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, redisSeqTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to allocate quote number: %w", err)
	}
	return FormatQuoteNumber(day, incr.Val()), nil
}
