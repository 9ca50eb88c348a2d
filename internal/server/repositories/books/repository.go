// Package books persists book records: metadata plus the asset references
// for the cover image and the PDF file.
package books

import (
	"context"

	"github.com/mzfirozuddin/elib-apis/internal/server/models"
)

// Repository is the persistence contract for book records.
type Repository interface {
	// Create inserts a new book. A duplicate title yields common.ErrorConflict.
	Create(ctx context.Context, book *models.Book) (*models.Book, error)

	// GetByID returns the book with the author's name joined in,
	// or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Book, error)

	// Update persists the merged record (metadata and asset references).
	Update(ctx context.Context, book *models.Book) error

	// Delete removes the record, or common.ErrorNotFound.
	Delete(ctx context.Context, id string) error

	// List returns one page of books ordered by creation time, newest first.
	// An empty authorID lists all books.
	List(ctx context.Context, authorID string, offset, limit int) ([]*models.Book, error)

	// Count returns the total number of books, optionally filtered by author.
	Count(ctx context.Context, authorID string) (int64, error)
}
