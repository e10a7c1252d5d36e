package controller

import (
	"errors"
	"log"

	"perpusku_backend/internals/features/library/books/dto"
	"perpusku_backend/internals/features/library/books/model"
	helper "perpusku_backend/internals/helpers"
	"perpusku_backend/internals/helpers/oss"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

type BookAdminController struct {
	DB  *gorm.DB
	OSS *oss.OSSService
}

func NewBookAdminController(db *gorm.DB, ossSvc *oss.OSSService) *BookAdminController {
	return &BookAdminController{DB: db, OSS: ossSvc}
}

var validate = validator.New()

func bookSlugOptions() helper.SlugOptions {
	return helper.SlugOptions{
		Table:            "books",
		SlugColumn:       "book_slug",
		SoftDeleteColumn: "book_deleted_at",
		DefaultBase:      "buku",
	}
}

// POST /api/a/books
func (ctl *BookAdminController) Create(c *fiber.Ctx) error {
	var req dto.BookCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	slug, err := helper.GenerateUniqueSlug(ctl.DB, bookSlugOptions(), req.BookTitle)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat slug buku")
	}

	book := req.ToModel(slug)
	if err := ctl.DB.Create(book).Error; err != nil {
		log.Printf("[BOOK] gagal membuat buku: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan buku")
	}

	return helper.JsonCreated(c, "Buku berhasil dibuat", dto.ToBookResponse(book))
}

// PATCH /api/a/books/:id
func (ctl *BookAdminController) Update(c *fiber.Ctx) error {
	bookID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.BookUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var book model.BookModel
	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(forUpdate()).
			Where("book_id = ?", bookID).
			First(&book).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.BookTitle != nil {
			updates["book_title"] = *req.BookTitle
		}
		if req.BookAuthor != nil {
			updates["book_author"] = *req.BookAuthor
		}
		if req.BookISBN != nil {
			updates["book_isbn"] = *req.BookISBN
		}
		if req.BookCategory != nil {
			updates["book_category"] = *req.BookCategory
		}
		if req.BookSynopsis != nil {
			updates["book_synopsis"] = *req.BookSynopsis
		}
		if req.BookStockDelta != nil {
			delta := *req.BookStockDelta
			newTotal := book.BookStockTotal + delta
			newAvail := book.BookStockAvailable + delta
			if newTotal < 0 || newAvail < 0 {
				return errStockUnderflow
			}
			updates["book_stock_total"] = newTotal
			updates["book_stock_available"] = newAvail
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&book).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("book_id = ?", bookID).First(&book).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Buku tidak ditemukan")
		}
		if errors.Is(err, errStockUnderflow) {
			return helper.JsonErrorCode(c, fiber.StatusConflict, "CONFLICT",
				"Pengurangan stok melebihi stok yang tersedia")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui buku")
	}

	return helper.JsonUpdated(c, "Buku berhasil diperbarui", dto.ToBookResponse(&book))
}

var errStockUnderflow = errors.New("stok tidak mencukupi untuk pengurangan")

// POST /api/a/books/:id/cover
func (ctl *BookAdminController) UploadCover(c *fiber.Ctx) error {
	bookID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if ctl.OSS == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Penyimpanan media belum dikonfigurasi")
	}

	var book model.BookModel
	if err := ctl.DB.Where("book_id = ?", bookID).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Buku tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil buku")
	}

	fh, err := oss.GetImageFile(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	url, err := ctl.OSS.UploadImageAsWebP(c.Context(), fh, "books/covers")
	if err != nil {
		log.Printf("[BOOK] gagal upload cover book=%s: %v", bookID, err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Gagal mengunggah cover")
	}

	oldURL := book.BookCoverURL
	if err := ctl.DB.Model(&book).Update("book_cover_url", url).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan cover")
	}
	if oldURL != nil && *oldURL != url {
		if delErr := ctl.OSS.DeleteByPublicURL(c.Context(), *oldURL); delErr != nil {
			log.Printf("[BOOK] gagal hapus cover lama: %v", delErr)
		}
	}

	return helper.JsonUpdated(c, "Cover berhasil diunggah", fiber.Map{
		"book_id":        bookID,
		"book_cover_url": url,
	})
}

// DELETE /api/a/books/:id
func (ctl *BookAdminController) Delete(c *fiber.Ctx) error {
	bookID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	// Buku dengan pinjaman aktif tidak boleh dihapus.
	var activeLoans int64
	if err := ctl.DB.Table("loans").
		Where("loan_book_id = ? AND loan_status IN ? AND loan_deleted_at IS NULL",
			bookID, []string{"requested", "approved", "taken", "borrowing", "ready_for_return"}).
		Count(&activeLoans).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa pinjaman aktif")
	}
	if activeLoans > 0 {
		return helper.JsonErrorCode(c, fiber.StatusConflict, "CONFLICT",
			"Buku masih memiliki pinjaman aktif")
	}

	res := ctl.DB.Where("book_id = ?", bookID).Delete(&model.BookModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus buku")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Buku tidak ditemukan")
	}

	return helper.JsonDeleted(c, "Buku berhasil dihapus", fiber.Map{"book_id": bookID})
}
