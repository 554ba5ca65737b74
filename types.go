package libris

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// AssetKind tells the remote store how to treat an object. Images are
// transformable media and are addressed without their format suffix; raw
// assets (documents) are stored and addressed byte-for-byte.
type AssetKind string

const (
	KindImage AssetKind = "image"
	KindRaw   AssetKind = "raw"
)

func (k AssetKind) IsValid() bool {
	switch k {
	case KindImage, KindRaw:
		return true
	default:
		return false
	}
}

// Remote namespace categories for the two book assets.
const (
	CategoryCovers    = "book-covers"
	CategoryDocuments = "book-pdfs"
)

// Book is the authoritative metadata record for an uploaded book.
// CoverImage and File hold the durable references returned by the remote
// asset store; the record owns those references, not the bytes behind them.
type Book struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Genre      string    `json:"genre"`
	AuthorID   uuid.UUID `json:"author_id"`
	CoverImage string    `json:"cover_image"`
	File       string    `json:"file"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewBook carries the fields needed to create a Book record.
type NewBook struct {
	Title      string
	Genre      string
	AuthorID   uuid.UUID
	CoverImage string
	File       string
}

// BookPatch is a partial update. Nil fields keep their current values.
type BookPatch struct {
	Title      *string
	Genre      *string
	CoverImage *string
	File       *string
}

// IsEmpty reports whether the patch changes nothing.
func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Genre == nil && p.CoverImage == nil && p.File == nil
}

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser carries a registration request. Password is the plaintext
// credential; it is hashed before it ever reaches a repository.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Principal is the authenticated identity attached to a request. It carries
// only the user ID; profile data stays in the users table.
type Principal struct {
	ID uuid.UUID
}

// StagedFile is an uploaded multipart field persisted to the local staging
// directory under a system-generated name. It is consumed exactly once by
// the lifecycle pipeline and removed when the request completes.
type StagedFile struct {
	Path         string
	OriginalName string
	ContentType  string
	Size         int64
}

// Remove deletes the staged file from local disk.
func (f StagedFile) Remove() error {
	if err := os.Remove(f.Path); err != nil {
		return fmt.Errorf("remove staged file: %w", err)
	}
	return nil
}

// Assets is the staged-file set produced by the upload receiver. On create
// both entries are required; on update either may be nil, meaning "keep the
// current asset".
type Assets struct {
	Cover    *StagedFile
	Document *StagedFile
}

// Discard removes any staged files still on disk. It is safe to call after
// the files have already been consumed and removed.
func (a Assets) Discard() {
	for _, f := range []*StagedFile{a.Cover, a.Document} {
		if f == nil {
			continue
		}
		if err := f.Remove(); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to remove staged file", "path", f.Path, "err", err)
		}
	}
}

// Tables holds configurable table names for metadata storage.
// This allows multi-tenant deployments to use different table names.
type Tables struct {
	Books string `mapstructure:"books"`
	Users string `mapstructure:"users"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	for _, tbl := range []struct {
		role string
		name string
	}{
		{"books", t.Books},
		{"users", t.Users},
	} {
		if tbl.name == "" {
			return fmt.Errorf("validate tables: %s table name cannot be empty", tbl.role)
		}
		if !IsValidTableName(tbl.name) {
			return fmt.Errorf("validate tables: invalid %s table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", tbl.role, tbl.name)
		}
	}
	return nil
}
