package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/libris-io/libris"
)

func createBooksTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexAuthor := pgx.Identifier{fmt.Sprintf("idx_%s_author", tableName)}.Sanitize()
	indexListing := pgx.Identifier{fmt.Sprintf("idx_%s_listing", tableName)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title TEXT NOT NULL,
			genre TEXT NOT NULL,
			author_id UUID NOT NULL,
			cover_image TEXT NOT NULL,
			file_url TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (author_id);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (created_at, id);
	`,
		quotedTable,
		indexAuthor, quotedTable,
		indexListing, quotedTable,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	return nil
}

func createUsersTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`, quotedTable)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

// Migrate creates the metadata tables if they do not exist.
// Tables should be validated before calling Migrate.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables libris.Tables) error {
	if err := createBooksTable(ctx, pool, tables.Books); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := createUsersTable(ctx, pool, tables.Users); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}
