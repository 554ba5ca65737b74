package libris

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookRepo is the authoritative metadata store for Book records.
//
// All methods accept a context for cancellation and timeout control.
// Implementations must return ErrNotFound for unknown identifiers,
// ErrValidation for missing required fields on Create, and wrap any
// infrastructure failure in ErrPersistence.
type BookRepo interface {
	// Create inserts a new record. Title, genre, and author are required.
	Create(ctx context.Context, book NewBook) (Book, error)

	// GetByID returns the record with the given identifier.
	GetByID(ctx context.Context, id uuid.UUID) (Book, error)

	// List returns all records, oldest first.
	List(ctx context.Context) ([]Book, error)

	// Update applies a partial patch; nil patch fields keep prior values.
	Update(ctx context.Context, id uuid.UUID, patch BookPatch) (Book, error)

	// Delete removes the record with the given identifier.
	Delete(ctx context.Context, id uuid.UUID) error
}

// UploadSpec describes how the remote store should place one asset.
type UploadSpec struct {
	Category    string
	Name        string
	Format      string
	ContentType string
	Kind        AssetKind
}

// AssetStore is the remote object store holding book assets. Implementations
// wrap failures in ErrStorage and never retry on their own; retry and
// compensation policy belongs to the orchestrator.
type AssetStore interface {
	// Upload stores the file at localPath under the spec's category and
	// name and returns the durable reference URL for the object.
	Upload(ctx context.Context, localPath string, spec UploadSpec) (string, error)

	// Delete removes the object a reference points at. The object key is
	// derived from the reference by ParseRef.
	Delete(ctx context.Context, ref string, kind AssetKind) error
}

// BookDraft carries the caller-supplied metadata for a new book.
type BookDraft struct {
	Title string
	Genre string
}

// LibraryService coordinates the asset lifecycle: staged local files are
// pushed to the remote store, the metadata record is written, and staged
// files are removed, with compensating remote deletes when a later step
// fails. Each request runs one strictly ordered pipeline; independent
// requests share nothing but configuration.
type LibraryService struct {
	books               BookRepo
	store               AssetStore
	compensationTimeout time.Duration
}

// ServiceConfig holds configuration options for LibraryService.
type ServiceConfig struct {
	// CompensationTimeout bounds rollback work after a failed step.
	// Compensations run on a background context so they complete even when
	// the request context is already cancelled (default: 30s).
	CompensationTimeout time.Duration
}

func NewLibraryService(books BookRepo, store AssetStore, cfg ServiceConfig) *LibraryService {
	timeout := cfg.CompensationTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LibraryService{
		books:               books,
		store:               store,
		compensationTimeout: timeout,
	}
}

// sagaStep is one (action, compensation) pair of a multi-step flow. When
// step N fails, compensations for steps 1..N-1 run in reverse order.
type sagaStep struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

func (s *LibraryService) runSaga(ctx context.Context, op string, steps []sagaStep) error {
	for i, step := range steps {
		if err := step.run(ctx); err != nil {
			s.rollback(op, steps[:i])
			return fmt.Errorf("%s: %s: %w", op, step.name, err)
		}
	}
	return nil
}

func (s *LibraryService) rollback(op string, completed []sagaStep) {
	if len(completed) == 0 {
		return
	}

	// The request context may already be cancelled; compensations get their
	// own bounded context so partial state is still unwound.
	ctx, cancel := context.WithTimeout(context.Background(), s.compensationTimeout)
	defer cancel()

	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.compensate == nil {
			continue
		}
		if err := step.compensate(ctx); err != nil {
			slog.Error("compensation failed", "op", op, "step", step.name, "err", err)
		}
	}
}

// CreateBook uploads both staged assets to the remote store, creates the
// metadata record with the requesting principal as author, and removes the
// staged files. The record is written only after both uploads succeed, so a
// Book is never externally visible mid-creation. On failure the already
// uploaded remote objects are deleted before the error is reported. Staged
// files are removed unconditionally, success or failure.
func (s *LibraryService) CreateBook(ctx context.Context, p Principal, draft BookDraft, assets Assets) (Book, error) {
	defer assets.Discard()

	if err := ctx.Err(); err != nil {
		return Book{}, fmt.Errorf("create book: %w", err)
	}

	if assets.Cover == nil || assets.Document == nil {
		return Book{}, fmt.Errorf("create book: %w: cover image and file are both required", ErrValidation)
	}

	if draft.Title == "" || draft.Genre == "" {
		return Book{}, fmt.Errorf("create book: %w: title and genre are required", ErrValidation)
	}

	var coverRef, fileRef string
	var book Book

	steps := []sagaStep{
		{
			name: "upload cover image",
			run: func(ctx context.Context) error {
				ref, err := s.store.Upload(ctx, assets.Cover.Path, coverUploadSpec(*assets.Cover))
				if err != nil {
					return err
				}
				coverRef = ref
				return nil
			},
			compensate: func(ctx context.Context) error {
				return s.store.Delete(ctx, coverRef, KindImage)
			},
		},
		{
			name: "upload document",
			run: func(ctx context.Context) error {
				ref, err := s.store.Upload(ctx, assets.Document.Path, documentUploadSpec(*assets.Document))
				if err != nil {
					return err
				}
				fileRef = ref
				return nil
			},
			compensate: func(ctx context.Context) error {
				return s.store.Delete(ctx, fileRef, KindRaw)
			},
		},
		{
			name: "persist metadata",
			run: func(ctx context.Context) error {
				created, err := s.books.Create(ctx, NewBook{
					Title:      draft.Title,
					Genre:      draft.Genre,
					AuthorID:   p.ID,
					CoverImage: coverRef,
					File:       fileRef,
				})
				if err != nil {
					return err
				}
				book = created
				return nil
			},
		},
	}

	if err := s.runSaga(ctx, "create book", steps); err != nil {
		return Book{}, err
	}

	return book, nil
}

// UpdateBook replaces the assets present in the staged set, one at a time,
// and applies title/genre/reference changes in a single patch. Assets and
// fields not supplied keep their current values. The previous remote object
// of a replaced asset is intentionally left in place; see the limitations
// section of the README.
func (s *LibraryService) UpdateBook(ctx context.Context, p Principal, id uuid.UUID, patch BookPatch, assets Assets) (Book, error) {
	defer assets.Discard()

	if err := ctx.Err(); err != nil {
		return Book{}, fmt.Errorf("update book: %w", err)
	}

	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("update book: %w", err)
	}

	if err := Authorize(p, book); err != nil {
		return Book{}, fmt.Errorf("update book: %w", err)
	}

	if assets.Cover != nil {
		ref, uploadErr := s.store.Upload(ctx, assets.Cover.Path, coverUploadSpec(*assets.Cover))
		if uploadErr != nil {
			return Book{}, fmt.Errorf("update book: upload cover image: %w", uploadErr)
		}
		patch.CoverImage = &ref
		removeConsumed(assets.Cover)
	}

	if assets.Document != nil {
		ref, uploadErr := s.store.Upload(ctx, assets.Document.Path, documentUploadSpec(*assets.Document))
		if uploadErr != nil {
			return Book{}, fmt.Errorf("update book: upload document: %w", uploadErr)
		}
		patch.File = &ref
		removeConsumed(assets.Document)
	}

	updated, err := s.books.Update(ctx, id, patch)
	if err != nil {
		return Book{}, fmt.Errorf("update book: %w", err)
	}

	return updated, nil
}

// DeleteBook removes both remote assets and then the metadata record.
// Remote deletion is best effort: a failure is logged and the record is
// deleted regardless, so metadata never outlives a request to remove it.
// The asymmetry with create/update, which do propagate storage failures, is
// intentional.
func (s *LibraryService) DeleteBook(ctx context.Context, p Principal, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if err := Authorize(p, book); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if err := s.store.Delete(ctx, book.CoverImage, KindImage); err != nil {
		slog.Warn("failed to delete remote cover image", "book", book.ID, "ref", book.CoverImage, "err", err)
	}

	if err := s.store.Delete(ctx, book.File, KindRaw); err != nil {
		slog.Warn("failed to delete remote document", "book", book.ID, "ref", book.File, "err", err)
	}

	if err := s.books.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	return nil
}

// GetBook is a pure read; no ownership check applies.
func (s *LibraryService) GetBook(ctx context.Context, id uuid.UUID) (Book, error) {
	if err := ctx.Err(); err != nil {
		return Book{}, fmt.Errorf("get book: %w", err)
	}

	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("get book: %w", err)
	}

	return book, nil
}

// ListBooks is a pure read; no ownership check applies.
func (s *LibraryService) ListBooks(ctx context.Context) ([]Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	books, err := s.books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return books, nil
}

func coverUploadSpec(f StagedFile) UploadSpec {
	return UploadSpec{
		Category:    CategoryCovers,
		Name:        stagedName(f),
		Format:      formatFromContentType(f.ContentType),
		ContentType: f.ContentType,
		Kind:        KindImage,
	}
}

func documentUploadSpec(f StagedFile) UploadSpec {
	return UploadSpec{
		Category:    CategoryDocuments,
		Name:        stagedName(f),
		Format:      "pdf",
		ContentType: f.ContentType,
		Kind:        KindRaw,
	}
}

// stagedName is the system-generated staging filename, already unique.
func stagedName(f StagedFile) string {
	return filepath.Base(f.Path)
}

// formatFromContentType maps a MIME type to the format suffix used in the
// delivery URL, e.g. "image/png" -> "png".
func formatFromContentType(contentType string) string {
	idx := strings.LastIndex(contentType, "/")
	if idx < 0 || idx == len(contentType)-1 {
		return ""
	}
	return strings.ToLower(contentType[idx+1:])
}

func removeConsumed(f *StagedFile) {
	if err := f.Remove(); err != nil {
		slog.Warn("failed to remove staged file", "path", f.Path, "err", err)
	}
}
