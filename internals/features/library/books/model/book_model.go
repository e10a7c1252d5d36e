package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookModel struct {
	BookID       uuid.UUID `gorm:"column:book_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"book_id"`
	BookTitle    string    `gorm:"column:book_title;type:varchar(255);not null" json:"book_title"`
	BookSlug     string    `gorm:"column:book_slug;type:varchar(100);not null;uniqueIndex:uq_book_slug" json:"book_slug"`
	BookAuthor   string    `gorm:"column:book_author;type:varchar(255);not null" json:"book_author"`
	BookISBN     *string   `gorm:"column:book_isbn;type:varchar(32)" json:"book_isbn,omitempty"`
	BookCategory *string   `gorm:"column:book_category;type:varchar(100);index:idx_book_category" json:"book_category,omitempty"`
	BookSynopsis *string   `gorm:"column:book_synopsis;type:text" json:"book_synopsis,omitempty"`
	BookCoverURL *string   `gorm:"column:book_cover_url;type:text" json:"book_cover_url,omitempty"`

	// Stok total vs stok yang masih bisa dipinjam. Available hanya
	// berubah di dalam transaksi peminjaman/pengembalian.
	BookStockTotal     int `gorm:"column:book_stock_total;not null;default:0;check:book_stock_total >= 0" json:"book_stock_total"`
	BookStockAvailable int `gorm:"column:book_stock_available;not null;default:0;check:book_stock_available >= 0" json:"book_stock_available"`

	BookCreatedAt time.Time      `gorm:"column:book_created_at;autoCreateTime" json:"book_created_at"`
	BookUpdatedAt time.Time      `gorm:"column:book_updated_at;autoUpdateTime" json:"book_updated_at"`
	BookDeletedAt gorm.DeletedAt `gorm:"column:book_deleted_at;index" json:"-"`
}

func (BookModel) TableName() string {
	return "books"
}
