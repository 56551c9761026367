package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/healthbook/healthbook/internal/domain/healthbook"
	"github.com/healthbook/healthbook/internal/platform/db"
)

// PostgresHealthBookStorage keeps the health book document in the single row
// of the healthbook_document table created by Migrations.
type PostgresHealthBookStorage struct {
	conn   db.Conn
	schema string
	table  string
}

func NewPostgresHealthBookStorage(conn db.Conn, schema string) *PostgresHealthBookStorage {
	return &PostgresHealthBookStorage{
		conn:   conn,
		schema: schema,
		table:  db.QuoteSchema(schema) + ".healthbook_document",
	}
}

func (s *PostgresHealthBookStorage) Location() string {
	return "postgres:" + s.schema + ".healthbook_document"
}

func (s *PostgresHealthBookStorage) ReadHealthBook(ctx context.Context) (*healthbook.HealthBook, error) {
	var data []byte
	err := s.conn.QueryRow(ctx, fmt.Sprintf(`SELECT document FROM %s WHERE id = 1`, s.table)).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("read health book document: %w", err)
	}

	b, err := decodeHealthBook(data)
	if err != nil {
		return nil, &DataConversionError{Location: s.Location(), Err: err}
	}
	return b, nil
}

func (s *PostgresHealthBookStorage) SaveHealthBook(ctx context.Context, b *healthbook.HealthBook) error {
	data, err := encodeHealthBook(b)
	if err != nil {
		return fmt.Errorf("encode health book: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, document, updated_at) VALUES (1, $1::jsonb, NOW())
ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`, s.table)
	if _, err := s.conn.Exec(ctx, query, string(data)); err != nil {
		return fmt.Errorf("save health book document: %w", err)
	}
	return nil
}
