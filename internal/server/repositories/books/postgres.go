package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mzfirozuddin/elib-apis/internal/common"
	"github.com/mzfirozuddin/elib-apis/internal/dbx"
	"github.com/mzfirozuddin/elib-apis/internal/server/models"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	query := `
		INSERT INTO books (title, author_id, genre, description,
		                   cover_image_url, cover_image_key, pdf_file_url, pdf_file_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		book.Title, book.AuthorID, book.Genre, book.Description,
		book.CoverImage.URL, book.CoverImage.StorageKey,
		book.PDFFile.URL, book.PDFFile.StorageKey,
	).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return book, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	query := `
		SELECT b.id, b.title, b.author_id, u.name, b.genre, b.description,
		       b.cover_image_url, b.cover_image_key, b.pdf_file_url, b.pdf_file_key,
		       b.created_at, b.updated_at
		FROM books b
		JOIN users u ON u.id = b.author_id
		WHERE b.id = $1
	`

	book := &models.Book{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&book.ID, &book.Title, &book.AuthorID, &book.AuthorName,
		&book.Genre, &book.Description,
		&book.CoverImage.URL, &book.CoverImage.StorageKey,
		&book.PDFFile.URL, &book.PDFFile.StorageKey,
		&book.CreatedAt, &book.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return book, nil
}

func (r *PostgresRepository) Update(ctx context.Context, book *models.Book) error {
	query := `
		UPDATE books
		SET title = $2, genre = $3, description = $4,
		    cover_image_url = $5, cover_image_key = $6,
		    pdf_file_url = $7, pdf_file_key = $8,
		    updated_at = now()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		book.ID, book.Title, book.Genre, book.Description,
		book.CoverImage.URL, book.CoverImage.StorageKey,
		book.PDFFile.URL, book.PDFFile.StorageKey,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM books
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, authorID string, offset, limit int) ([]*models.Book, error) {
	query := `
		SELECT b.id, b.title, b.author_id, u.name, b.genre, b.description,
		       b.cover_image_url, b.cover_image_key, b.pdf_file_url, b.pdf_file_key,
		       b.created_at, b.updated_at
		FROM books b
		JOIN users u ON u.id = b.author_id
		WHERE ($1 = '' OR b.author_id::text = $1)
		ORDER BY b.created_at DESC, b.id
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, authorID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Book
	for rows.Next() {
		book := &models.Book{}
		if err := rows.Scan(
			&book.ID, &book.Title, &book.AuthorID, &book.AuthorName,
			&book.Genre, &book.Description,
			&book.CoverImage.URL, &book.CoverImage.StorageKey,
			&book.PDFFile.URL, &book.PDFFile.StorageKey,
			&book.CreatedAt, &book.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context, authorID string) (int64, error) {
	query := `
		SELECT COUNT(*) FROM books
		WHERE ($1 = '' OR author_id::text = $1)
	`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, authorID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
