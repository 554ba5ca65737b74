// Package staging receives multipart uploads and persists each file part to
// a local staging directory under a system-generated name, so the lifecycle
// pipeline can hand them to the remote store and remove them afterwards.
package staging

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/libris-io/libris"
)

// Multipart field names for the two book assets.
const (
	FieldCover    = "coverImage"
	FieldDocument = "file"
)

// parseMemoryLimit caps how much of the form is held in memory while
// parsing; larger parts spill to temp files managed by net/http.
const parseMemoryLimit = 32 << 20

// Receiver stages incoming multipart uploads on local disk.
type Receiver struct {
	dir     string
	maxSize int64
}

// NewReceiver creates a Receiver writing to dir, creating it if needed.
// maxSize is the per-file size ceiling in bytes.
func NewReceiver(dir string, maxSize int64) (*Receiver, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("new receiver: max file size must be positive, got %d", maxSize)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("new receiver: create staging dir: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("new receiver: resolve staging dir: %w", err)
	}

	return &Receiver{dir: abs, maxSize: maxSize}, nil
}

// Receive parses the request's multipart form and stages the coverImage and
// file fields, at most one file each. With requireAll set (create), a
// missing field is an ErrPayload; otherwise (update) a missing field yields
// a nil entry meaning "keep the current asset". On error, any file already
// staged by this call is removed.
//
// Staged filenames are system-generated and collision-free, so concurrent
// requests sharing the staging directory never clobber each other.
func (rc *Receiver) Receive(r *http.Request, requireAll bool) (libris.Assets, error) {
	if err := r.ParseMultipartForm(parseMemoryLimit); err != nil {
		return libris.Assets{}, fmt.Errorf("receive upload: %w: %w", libris.ErrPayload, err)
	}

	cover, err := rc.stage(r, FieldCover, requireAll)
	if err != nil {
		return libris.Assets{}, err
	}

	document, err := rc.stage(r, FieldDocument, requireAll)
	if err != nil {
		libris.Assets{Cover: cover}.Discard()
		return libris.Assets{}, err
	}

	return libris.Assets{Cover: cover, Document: document}, nil
}

func (rc *Receiver) stage(r *http.Request, field string, required bool) (*libris.StagedFile, error) {
	headers := r.MultipartForm.File[field]

	if len(headers) == 0 {
		if required {
			return nil, fmt.Errorf("stage %s: %w: field is required", field, libris.ErrPayload)
		}
		return nil, nil
	}

	if len(headers) > 1 {
		return nil, fmt.Errorf("stage %s: %w: at most one file allowed", field, libris.ErrPayload)
	}

	header := headers[0]
	if header.Size > rc.maxSize {
		return nil, fmt.Errorf("stage %s: %w: file size %d exceeds limit %d", field, libris.ErrPayload, header.Size, rc.maxSize)
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("stage %s: open part: %w", field, err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			slog.Warn("failed to close multipart file", "field", field, "err", closeErr)
		}
	}()

	path := filepath.Join(rc.dir, stagedFileName())
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("stage %s: create staged file: %w", field, err)
	}

	written, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()

	if copyErr != nil || closeErr != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			slog.Warn("failed to remove partial staged file", "path", path, "err", rmErr)
		}
		if copyErr != nil {
			return nil, fmt.Errorf("stage %s: copy: %w", field, copyErr)
		}
		return nil, fmt.Errorf("stage %s: close staged file: %w", field, closeErr)
	}

	return &libris.StagedFile{
		Path:         path,
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         written,
	}, nil
}

func stagedFileName() string {
	return fmt.Sprintf("u%s", uuid.New().String())
}
