// Package postgres stores parsed statements in PostgreSQL.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-parser/internal/models"
)

//go:embed 001_create_statements.sql
var migrationSQL string

// Store writes statements and their transactions to PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// New connects to dsn, checks the connection and runs the migration.
func New(ctx context.Context, dsn string, log zerolog.Logger) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("postgres DSN is empty")
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := pool.Exec(ctx, migrationSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migration: %w", err)
	}

	log.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Str("database", poolConfig.ConnConfig.Database).
		Msg("connected to PostgreSQL")

	return &Store{pool: pool, log: log}, nil
}

// Save inserts result under a new statement id in a single database
// transaction. source names where the document came from (a file name).
func (s *Store) Save(ctx context.Context, source string, result *models.StatementResult) (uuid.UUID, error) {
	id := uuid.New()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var limit *string
	if result.CreditLimit != nil {
		v := result.CreditLimit.String()
		limit = &v
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO statements (id, source, card_name, card_last_4_digits, name_on_card, credit_limit)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, source, result.CardName, result.CardLast4Digits, result.NameOnCard, limit,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting statement: %w", err)
	}

	if err := s.insertTransactions(ctx, tx, id, result.Transactions); err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("committing transaction: %w", err)
	}

	s.log.Info().
		Str("statement_id", id.String()).
		Int("transactions", len(result.Transactions)).
		Msg("stored statement")
	return id, nil
}

func (s *Store) insertTransactions(ctx context.Context, tx pgx.Tx, id uuid.UUID, txns []models.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, txn := range txns {
		batch.Queue(`
			INSERT INTO statement_transactions (statement_id, position, date, merchant, amount)
			VALUES ($1, $2, $3, $4, $5)`,
			id, i, txn.Date, txn.Merchant, txn.Amount.String(),
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range txns {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("inserting transaction %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("closing batch: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
		s.log.Info().Msg("closed PostgreSQL connection pool")
	}
}
