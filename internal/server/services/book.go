package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mzfirozuddin/elib-apis/internal/common"
	"github.com/mzfirozuddin/elib-apis/internal/dbx"
	"github.com/mzfirozuddin/elib-apis/internal/logging"
	"github.com/mzfirozuddin/elib-apis/internal/server/assets"
	"github.com/mzfirozuddin/elib-apis/internal/server/config"
	"github.com/mzfirozuddin/elib-apis/internal/server/models"
	"github.com/mzfirozuddin/elib-apis/internal/server/repositories/repomanager"
)

// Pagination defaults applied when the caller omits or mangles the query
// parameters.
const (
	DefaultPage    = 1
	DefaultPerPage = 6
)

// BookInput carries the metadata fields plus the staged file paths for a
// create or update. Empty paths mean "no file supplied".
type BookInput struct {
	Title       string
	Genre       string
	Description string
	CoverPath   string
	PDFPath     string
}

// BookService orchestrates validate → relay-upload → persist → relay-delete
// for book records, enforcing per-record ownership.
type BookService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	relay        assets.Relay
	logger       logging.Logger
	deletePolicy string
}

// NewBookService constructs a BookService.
func NewBookService(db *sql.DB, m repomanager.RepositoryManager, relay assets.Relay, logger logging.Logger, cfg *config.Config) *BookService {
	return &BookService{
		db:           db,
		repomanager:  m,
		relay:        relay,
		logger:       logger,
		deletePolicy: cfg.AssetDeletePolicy,
	}
}

// Create uploads both assets and persists the record. Either upload failing
// aborts the whole operation; no partial book is ever stored.
func (s *BookService) Create(ctx context.Context, authorID string, in BookInput) (*models.Book, error) {
	cover, err := s.relay.Upload(ctx, in.CoverPath, assets.KindImage)
	if err != nil {
		s.logger.Error(ctx, "cover upload failed", "error", err)
		return nil, common.ErrorUploadFailed
	}

	pdf, err := s.relay.Upload(ctx, in.PDFPath, assets.KindPDF)
	if err != nil {
		// The already-uploaded cover is orphaned in the store; the record is not.
		s.logger.Error(ctx, "pdf upload failed", "error", err, "orphaned_cover", cover.StorageKey)
		return nil, common.ErrorUploadFailed
	}

	book := &models.Book{
		Title:       in.Title,
		AuthorID:    authorID,
		Genre:       in.Genre,
		Description: in.Description,
		CoverImage:  *cover,
		PDFFile:     *pdf,
	}

	book, err = s.repomanager.Books(s.db).Create(ctx, book)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating book: %w", err)
	}

	return book, nil
}

// Update merges the supplied fields into an existing record. Replacement
// assets are uploaded before the DB write; the old assets are deleted only
// after it commits, so a crash in between leaves an orphaned asset, never a
// record pointing at nothing.
func (s *BookService) Update(ctx context.Context, callerID, bookID string, in BookInput) (*models.Book, error) {
	repo := s.repomanager.Books(s.db)

	book, err := repo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	if book.AuthorID != callerID {
		return nil, common.ErrorForbidden
	}

	oldCover, oldPDF := book.CoverImage, book.PDFFile
	coverReplaced, pdfReplaced := false, false

	if in.CoverPath != "" {
		ref, err := s.relay.Upload(ctx, in.CoverPath, assets.KindImage)
		if err != nil {
			s.logger.Error(ctx, "cover upload failed", "error", err)
			return nil, common.ErrorUploadFailed
		}
		book.CoverImage = *ref
		coverReplaced = true
	}

	if in.PDFPath != "" {
		ref, err := s.relay.Upload(ctx, in.PDFPath, assets.KindPDF)
		if err != nil {
			s.logger.Error(ctx, "pdf upload failed", "error", err)
			return nil, common.ErrorUploadFailed
		}
		book.PDFFile = *ref
		pdfReplaced = true
	}

	book.Title = in.Title
	book.Genre = in.Genre
	book.Description = in.Description

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Books(tx).Update(ctx, book)
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error updating book: %w", err)
	}

	if coverReplaced {
		if err := s.relay.Remove(ctx, oldCover, assets.KindImage); err != nil {
			s.logger.Warn(ctx, "old cover delete failed, asset orphaned", "key", oldCover.StorageKey, "error", err)
		}
	}
	if pdfReplaced {
		if err := s.relay.Remove(ctx, oldPDF, assets.KindPDF); err != nil {
			s.logger.Warn(ctx, "old pdf delete failed, asset orphaned", "key", oldPDF.StorageKey, "error", err)
		}
	}

	return book, nil
}

// Delete removes both assets and then the record. Under the best-effort
// policy a relay failure is logged and the record still goes away; under the
// strict policy it aborts the delete.
func (s *BookService) Delete(ctx context.Context, callerID, bookID string) error {
	repo := s.repomanager.Books(s.db)

	book, err := repo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	if book.AuthorID != callerID {
		return common.ErrorForbidden
	}

	if err := s.removeAsset(ctx, book.CoverImage, assets.KindImage); err != nil {
		return err
	}
	if err := s.removeAsset(ctx, book.PDFFile, assets.KindPDF); err != nil {
		return err
	}

	if err := repo.Delete(ctx, bookID); err != nil {
		return fmt.Errorf("error deleting book: %w", err)
	}
	return nil
}

func (s *BookService) removeAsset(ctx context.Context, ref models.AssetRef, kind assets.Kind) error {
	err := s.relay.Remove(ctx, ref, kind)
	if err == nil {
		return nil
	}
	if s.deletePolicy == config.AssetDeleteStrict {
		s.logger.Error(ctx, "asset delete failed, aborting book delete", "key", ref.StorageKey, "error", err)
		return common.ErrorInternal
	}
	s.logger.Warn(ctx, "asset delete failed, asset orphaned", "key", ref.StorageKey, "error", err)
	return nil
}

// Get returns a single book.
func (s *BookService) Get(ctx context.Context, bookID string) (*models.Book, error) {
	book, err := s.repomanager.Books(s.db).GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return book, nil
}

// List returns one page of books. An empty authorID lists everyone's.
// Out-of-range paging values fall back to the defaults.
func (s *BookService) List(ctx context.Context, authorID string, page, perPage int) (*models.BookPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	repo := s.repomanager.Books(s.db)

	data, err := repo.List(ctx, authorID, (page-1)*perPage, perPage)
	if err != nil {
		return nil, fmt.Errorf("error listing books: %w", err)
	}
	total, err := repo.Count(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("error counting books: %w", err)
	}

	totalPages := total / int64(perPage)
	if total%int64(perPage) != 0 {
		totalPages++
	}

	if data == nil {
		data = []*models.Book{}
	}

	return &models.BookPage{
		CurrentPage:  page,
		PerPage:      perPage,
		TotalRecords: total,
		TotalPages:   totalPages,
		Data:         data,
	}, nil
}
