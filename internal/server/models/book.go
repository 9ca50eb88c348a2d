package models

import "time"

// Book is one library record. AuthorID references the owning user; only that
// user may mutate or delete the record. Cover and PDF are never zero once the
// record exists.
type Book struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	AuthorID    string   `json:"authorId"`
	AuthorName  string   `json:"authorName,omitempty"`
	Genre       string   `json:"genre"`
	Description string   `json:"description"`
	CoverImage  AssetRef `json:"coverImage"`
	PDFFile     AssetRef `json:"pdfFile"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookPage is one page of a book listing.
type BookPage struct {
	CurrentPage  int     `json:"currentPage"`
	PerPage      int     `json:"perPage"`
	TotalRecords int64   `json:"totalRecords"`
	TotalPages   int64   `json:"totalPages"`
	Data         []*Book `json:"data"`
}
