package controller

import (
	"errors"
	"strings"

	"perpusku_backend/internals/features/library/books/dto"
	"perpusku_backend/internals/features/library/books/model"
	helper "perpusku_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookUserController struct {
	DB *gorm.DB
}

func NewBookUserController(db *gorm.DB) *BookUserController {
	return &BookUserController{DB: db}
}

// GET /api/public/books
// Query: q (judul/penulis), category, available=true
func (ctl *BookUserController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.BookModel{})

	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(book_title) LIKE ? OR LOWER(book_author) LIKE ?", like, like)
	}
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		q = q.Where("book_category = ?", cat)
	}
	if c.Query("available") == "true" {
		q = q.Where("book_stock_available > 0")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung buku")
	}

	var rows []model.BookModel
	if err := q.
		Order("book_title ASC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar buku")
	}

	resp := make([]dto.BookResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, dto.ToBookResponse(&rows[i]))
	}

	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.Limit)
	return helper.JsonList(c, "ok", resp, &pagination)
}

// GET /api/public/books/:idOrSlug
func (ctl *BookUserController) Detail(c *fiber.Ctx) error {
	param := strings.TrimSpace(c.Params("idOrSlug"))
	if param == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Parameter buku wajib diisi")
	}

	var book model.BookModel
	var err error
	if id, parseErr := uuid.Parse(param); parseErr == nil {
		err = ctl.DB.Where("book_id = ?", id).First(&book).Error
	} else {
		err = ctl.DB.Where("book_slug = ?", param).First(&book).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Buku tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil buku")
	}

	return helper.JsonOK(c, "OK", dto.ToBookResponse(&book))
}
