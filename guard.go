package libris

import (
	"fmt"

	"github.com/google/uuid"
)

// Authorize decides whether a principal may mutate a book record: allowed
// iff the principal is the record's author. Unauthenticated requests are
// rejected by the HTTP layer and never reach this check.
func Authorize(p Principal, book Book) error {
	if p.ID == uuid.Nil || book.AuthorID != p.ID {
		return fmt.Errorf("authorize book %s: %w", book.ID, ErrForbidden)
	}
	return nil
}
