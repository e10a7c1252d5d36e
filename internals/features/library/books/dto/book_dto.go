package dto

import (
	"strings"
	"time"

	"perpusku_backend/internals/features/library/books/model"

	"github.com/google/uuid"
)

// ========================
// Request DTO
// ========================

type BookCreateRequest struct {
	BookTitle    string  `json:"book_title" validate:"required,min=1,max=255"`
	BookAuthor   string  `json:"book_author" validate:"required,min=1,max=255"`
	BookISBN     *string `json:"book_isbn" validate:"omitempty,max=32"`
	BookCategory *string `json:"book_category" validate:"omitempty,max=100"`
	BookSynopsis *string `json:"book_synopsis"`
	BookStock    int     `json:"book_stock" validate:"min=0"`
}

func (r *BookCreateRequest) Normalize() {
	r.BookTitle = strings.TrimSpace(r.BookTitle)
	r.BookAuthor = strings.TrimSpace(r.BookAuthor)
	r.BookISBN = trimPtr(r.BookISBN)
	r.BookCategory = trimPtr(r.BookCategory)
	r.BookSynopsis = trimPtr(r.BookSynopsis)
}

func (r *BookCreateRequest) ToModel(slug string) *model.BookModel {
	return &model.BookModel{
		BookTitle:          r.BookTitle,
		BookSlug:           slug,
		BookAuthor:         r.BookAuthor,
		BookISBN:           r.BookISBN,
		BookCategory:       r.BookCategory,
		BookSynopsis:       r.BookSynopsis,
		BookStockTotal:     r.BookStock,
		BookStockAvailable: r.BookStock,
	}
}

type BookUpdateRequest struct {
	BookTitle    *string `json:"book_title" validate:"omitempty,min=1,max=255"`
	BookAuthor   *string `json:"book_author" validate:"omitempty,min=1,max=255"`
	BookISBN     *string `json:"book_isbn" validate:"omitempty,max=32"`
	BookCategory *string `json:"book_category" validate:"omitempty,max=100"`
	BookSynopsis *string `json:"book_synopsis"`

	// Penambahan/pengurangan stok total, bukan nilai absolut,
	// supaya tidak menabrak stok yang sedang dipinjam.
	BookStockDelta *int `json:"book_stock_delta"`
}

func (r *BookUpdateRequest) Normalize() {
	r.BookTitle = trimPtr(r.BookTitle)
	r.BookAuthor = trimPtr(r.BookAuthor)
	r.BookISBN = trimPtr(r.BookISBN)
	r.BookCategory = trimPtr(r.BookCategory)
	r.BookSynopsis = trimPtr(r.BookSynopsis)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// ========================
// Response DTO
// ========================

type BookResponse struct {
	BookID             uuid.UUID `json:"book_id"`
	BookTitle          string    `json:"book_title"`
	BookSlug           string    `json:"book_slug"`
	BookAuthor         string    `json:"book_author"`
	BookISBN           *string   `json:"book_isbn,omitempty"`
	BookCategory       *string   `json:"book_category,omitempty"`
	BookSynopsis       *string   `json:"book_synopsis,omitempty"`
	BookCoverURL       *string   `json:"book_cover_url,omitempty"`
	BookStockTotal     int       `json:"book_stock_total"`
	BookStockAvailable int       `json:"book_stock_available"`
	BookCreatedAt      time.Time `json:"book_created_at"`
}

func ToBookResponse(m *model.BookModel) BookResponse {
	return BookResponse{
		BookID:             m.BookID,
		BookTitle:          m.BookTitle,
		BookSlug:           m.BookSlug,
		BookAuthor:         m.BookAuthor,
		BookISBN:           m.BookISBN,
		BookCategory:       m.BookCategory,
		BookSynopsis:       m.BookSynopsis,
		BookCoverURL:       m.BookCoverURL,
		BookStockTotal:     m.BookStockTotal,
		BookStockAvailable: m.BookStockAvailable,
		BookCreatedAt:      m.BookCreatedAt,
	}
}
