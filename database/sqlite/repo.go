// Package sqlite implements the metadata repositories on SQLite. It is
// intended for local development and single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/libris-io/libris"
)

// Repo implements libris.BookRepo on a database/sql handle.
type Repo struct {
	db         *sql.DB
	booksTable string
}

func NewRepo(db *sql.DB, tables libris.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{db: db, booksTable: tables.Books}, nil
}

func (r *Repo) Create(ctx context.Context, book libris.NewBook) (libris.Book, error) {
	if book.Title == "" || book.Genre == "" || book.AuthorID == uuid.Nil {
		return libris.Book{}, fmt.Errorf("create book: %w: title, genre and author are required", libris.ErrValidation)
	}

	id := uuid.New()
	now := time.Now().UTC()
	nowStr := now.Format(time.RFC3339Nano)

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (id, title, genre, author_id, cover_image, file_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, quoteIdentifier(r.booksTable))

	_, err := r.db.ExecContext(ctx, query,
		id.String(), book.Title, book.Genre, book.AuthorID.String(), book.CoverImage, book.File, nowStr, nowStr,
	)
	if err != nil {
		return libris.Book{}, fmt.Errorf("create book: %w: %w", libris.ErrPersistence, err)
	}

	return libris.Book{
		ID:         id,
		Title:      book.Title,
		Genre:      book.Genre,
		AuthorID:   book.AuthorID,
		CoverImage: book.CoverImage,
		File:       book.File,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (libris.Book, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, title, genre, author_id, cover_image, file_url, created_at, updated_at
		FROM %s
		WHERE id = ?`, quoteIdentifier(r.booksTable))

	row := r.db.QueryRowContext(ctx, query, id.String())

	book, err := scanBook(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return libris.Book{}, libris.ErrNotFound
		}
		return libris.Book{}, fmt.Errorf("get book: %w: %w", libris.ErrPersistence, err)
	}

	return book, nil
}

func (r *Repo) List(ctx context.Context) ([]libris.Book, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, title, genre, author_id, cover_image, file_url, created_at, updated_at
		FROM %s
		ORDER BY created_at, id`, quoteIdentifier(r.booksTable))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list books: %w: %w", libris.ErrPersistence, err)
	}
	defer func() { _ = rows.Close() }()

	books := []libris.Book{}
	for rows.Next() {
		book, err := scanBook(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list books: %w: %w", libris.ErrPersistence, err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: rows: %w: %w", libris.ErrPersistence, err)
	}

	return books, nil
}

// Update reads the current row and writes it back with the patch applied.
// SQLite installs are single-writer, so read-then-write is race-free enough
// for the deployments this backend targets.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, patch libris.BookPatch) (libris.Book, error) {
	book, err := r.GetByID(ctx, id)
	if err != nil {
		return libris.Book{}, err
	}

	if patch.Title != nil {
		book.Title = *patch.Title
	}
	if patch.Genre != nil {
		book.Genre = *patch.Genre
	}
	if patch.CoverImage != nil {
		book.CoverImage = *patch.CoverImage
	}
	if patch.File != nil {
		book.File = *patch.File
	}
	book.UpdatedAt = time.Now().UTC()

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`UPDATE %s
		SET title = ?, genre = ?, cover_image = ?, file_url = ?, updated_at = ?
		WHERE id = ?`, quoteIdentifier(r.booksTable))

	_, err = r.db.ExecContext(ctx, query,
		book.Title, book.Genre, book.CoverImage, book.File,
		book.UpdatedAt.Format(time.RFC3339Nano), id.String(),
	)
	if err != nil {
		return libris.Book{}, fmt.Errorf("update book: %w: %w", libris.ErrPersistence, err)
	}

	return book, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`DELETE FROM %s WHERE id = ?`, quoteIdentifier(r.booksTable))

	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("delete book: %w: %w", libris.ErrPersistence, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book: rows affected: %w: %w", libris.ErrPersistence, err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("delete book: %w", libris.ErrNotFound)
	}

	return nil
}

// scanBook decodes one row, parsing the TEXT-encoded uuid and timestamps.
func scanBook(scan func(dest ...any) error) (libris.Book, error) {
	var b libris.Book
	var idStr, authorStr, createdAt, updatedAt string

	if err := scan(&idStr, &b.Title, &b.Genre, &authorStr, &b.CoverImage, &b.File, &createdAt, &updatedAt); err != nil {
		return libris.Book{}, err
	}

	var err error
	b.ID, err = uuid.Parse(idStr)
	if err != nil {
		return libris.Book{}, fmt.Errorf("parse id: %w", err)
	}

	b.AuthorID, err = uuid.Parse(authorStr)
	if err != nil {
		return libris.Book{}, fmt.Errorf("parse author_id: %w", err)
	}

	b.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return libris.Book{}, fmt.Errorf("parse created_at: %w", err)
	}

	b.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return libris.Book{}, fmt.Errorf("parse updated_at: %w", err)
	}

	return b, nil
}

// UserRepo implements libris.UserRepo on a database/sql handle.
type UserRepo struct {
	db         *sql.DB
	usersTable string
}

func NewUserRepo(db *sql.DB, tables libris.Tables) (*UserRepo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new user repo: %w", err)
	}

	return &UserRepo{db: db, usersTable: tables.Users}, nil
}

func (r *UserRepo) Create(ctx context.Context, user libris.User) (libris.User, error) {
	// Pre-check instead of decoding driver-specific constraint errors.
	var existing string
	checkQuery := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id FROM %s WHERE email = ?`, quoteIdentifier(r.usersTable))
	err := r.db.QueryRowContext(ctx, checkQuery, user.Email).Scan(&existing)
	if err == nil {
		return libris.User{}, fmt.Errorf("create user: %w: email already registered", libris.ErrValidation)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return libris.User{}, fmt.Errorf("create user: check existing: %w: %w", libris.ErrPersistence, err)
	}

	id := uuid.New()
	now := time.Now().UTC()

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (id, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`, quoteIdentifier(r.usersTable))

	_, err = r.db.ExecContext(ctx, query,
		id.String(), user.Name, user.Email, user.PasswordHash, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return libris.User{}, fmt.Errorf("create user: %w: %w", libris.ErrPersistence, err)
	}

	return libris.User{
		ID:           id,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    now,
	}, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (libris.User, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, name, email, password_hash, created_at
		FROM %s
		WHERE email = ?`, quoteIdentifier(r.usersTable))

	var u libris.User
	var idStr, createdAt string

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&idStr, &u.Name, &u.Email, &u.PasswordHash, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return libris.User{}, libris.ErrNotFound
		}
		return libris.User{}, fmt.Errorf("get user: %w: %w", libris.ErrPersistence, err)
	}

	u.ID, err = uuid.Parse(idStr)
	if err != nil {
		return libris.User{}, fmt.Errorf("get user: parse id: %w", err)
	}

	u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return libris.User{}, fmt.Errorf("get user: parse created_at: %w", err)
	}

	return u, nil
}
