// Package postgres implements the metadata repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/libris-io/libris"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaks.
const uniqueViolation = "23505"

// Repo implements libris.BookRepo on a pgx pool.
type Repo struct {
	pool       *pgxpool.Pool
	booksTable string
}

func NewRepo(pool *pgxpool.Pool, tables libris.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{pool: pool, booksTable: tables.Books}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repo) Create(ctx context.Context, book libris.NewBook) (libris.Book, error) {
	if book.Title == "" || book.Genre == "" || book.AuthorID == uuid.Nil {
		return libris.Book{}, fmt.Errorf("create book: %w: title, genre and author are required", libris.ErrValidation)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (title, genre, author_id, cover_image, file_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, genre, author_id, cover_image, file_url, created_at, updated_at
	`, r.booksTable)

	var b libris.Book
	err := r.pool.QueryRow(ctx, query, book.Title, book.Genre, book.AuthorID, book.CoverImage, book.File).Scan(
		&b.ID, &b.Title, &b.Genre, &b.AuthorID, &b.CoverImage, &b.File, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return libris.Book{}, fmt.Errorf("create book: %w: %w", libris.ErrPersistence, err)
	}

	return b, nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (libris.Book, error) {
	query := fmt.Sprintf(`
		SELECT id, title, genre, author_id, cover_image, file_url, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.booksTable)

	var b libris.Book
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Title, &b.Genre, &b.AuthorID, &b.CoverImage, &b.File, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return libris.Book{}, libris.ErrNotFound
		}
		return libris.Book{}, fmt.Errorf("get book: %w: %w", libris.ErrPersistence, err)
	}

	return b, nil
}

func (r *Repo) List(ctx context.Context) ([]libris.Book, error) {
	query := fmt.Sprintf(`
		SELECT id, title, genre, author_id, cover_image, file_url, created_at, updated_at
		FROM %s
		ORDER BY created_at, id
	`, r.booksTable)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list books: %w: %w", libris.ErrPersistence, err)
	}
	defer rows.Close()

	books := []libris.Book{}
	for rows.Next() {
		var b libris.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Genre, &b.AuthorID, &b.CoverImage, &b.File, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list books: scan: %w: %w", libris.ErrPersistence, err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: rows: %w: %w", libris.ErrPersistence, err)
	}

	return books, nil
}

// Update applies a partial patch; nil fields keep their stored values.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, patch libris.BookPatch) (libris.Book, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = COALESCE($2, title),
			genre = COALESCE($3, genre),
			cover_image = COALESCE($4, cover_image),
			file_url = COALESCE($5, file_url),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, genre, author_id, cover_image, file_url, created_at, updated_at
	`, r.booksTable)

	var b libris.Book
	err := r.pool.QueryRow(ctx, query, id, patch.Title, patch.Genre, patch.CoverImage, patch.File).Scan(
		&b.ID, &b.Title, &b.Genre, &b.AuthorID, &b.CoverImage, &b.File, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return libris.Book{}, libris.ErrNotFound
		}
		return libris.Book{}, fmt.Errorf("update book: %w: %w", libris.ErrPersistence, err)
	}

	return b, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.booksTable)

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete book: %w: %w", libris.ErrPersistence, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete book: %w", libris.ErrNotFound)
	}

	return nil
}

// UserRepo implements libris.UserRepo on a pgx pool.
type UserRepo struct {
	pool       *pgxpool.Pool
	usersTable string
}

func NewUserRepo(pool *pgxpool.Pool, tables libris.Tables) (*UserRepo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new user repo: %w", err)
	}

	return &UserRepo{pool: pool, usersTable: tables.Users}, nil
}

func (r *UserRepo) Create(ctx context.Context, user libris.User) (libris.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, password_hash, created_at
	`, r.usersTable)

	var u libris.User
	err := r.pool.QueryRow(ctx, query, user.Name, user.Email, user.PasswordHash).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return libris.User{}, fmt.Errorf("create user: %w: email already registered", libris.ErrValidation)
		}
		return libris.User{}, fmt.Errorf("create user: %w: %w", libris.ErrPersistence, err)
	}

	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (libris.User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, password_hash, created_at
		FROM %s
		WHERE email = $1
	`, r.usersTable)

	var u libris.User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return libris.User{}, libris.ErrNotFound
		}
		return libris.User{}, fmt.Errorf("get user: %w: %w", libris.ErrPersistence, err)
	}

	return u, nil
}
