// internals/features/users/user/controller/user_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "perpusku_backend/internals/features/users/user/dto"
	model "perpusku_backend/internals/features/users/user/model"
	helper "perpusku_backend/internals/helpers"
	ossHelper "perpusku_backend/internals/helpers/oss"
)

type UserController struct {
	DB  *gorm.DB
	OSS *ossHelper.OSSService
}

var validate = validator.New()

// =========================================================
// GET /api/u/users/me
// =========================================================
func (h *UserController) GetMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var m model.UserModel
	if err := h.DB.First(&m, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}
	return helper.JsonOK(c, "ok", dto.ToUserResponse(&m))
}

// =========================================================
// PUT /api/u/users/me
// =========================================================
func (h *UserController) UpdateMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m model.UserModel
	if err := h.DB.First(&m, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	// Cek unik username jika berubah
	if req.UserName != nil && !strings.EqualFold(*req.UserName, m.UserName) {
		var cnt int64
		if err := h.DB.Model(&model.UserModel{}).
			Where("lower(user_name) = lower(?) AND id <> ?", *req.UserName, m.ID).
			Count(&cnt).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal cek duplikasi username")
		}
		if cnt > 0 {
			return helper.JsonError(c, fiber.StatusConflict, "Username sudah digunakan")
		}
	}

	req.ApplyToModel(&m)
	if err := h.DB.Save(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui data")
	}
	return helper.JsonUpdated(c, "Profil berhasil diperbarui", dto.ToUserResponse(&m))
}

// =========================================================
// POST /api/u/users/me/photo  (multipart)
// =========================================================
func (h *UserController) UploadPhoto(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	if h.OSS == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Penyimpanan media belum dikonfigurasi")
	}
	fh, err := ossHelper.GetImageFile(c, "photo", "file")
	if err != nil {
		return err
	}

	url, err := h.OSS.UploadImageAsWebP(c.UserContext(), fh, "users/photo")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := h.DB.Model(&model.UserModel{}).
		Where("id = ?", userID).
		Update("photo_url", url).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan foto profil")
	}
	return helper.JsonUpdated(c, "Foto profil berhasil diperbarui", fiber.Map{"photo_url": url})
}

// =========================================================
// GET /api/a/users  (admin; ?q=&page=&per_page=)
// =========================================================
func (h *UserController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := h.DB.Model(&model.UserModel{})
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("lower(user_name) LIKE ? OR lower(email) LIKE ? OR lower(coalesce(full_name,'')) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung data")
	}

	var rows []model.UserModel
	if err := q.Order("created_at DESC").Limit(p.Limit).Offset(p.Offset).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	out := make([]dto.UserResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToUserResponse(&rows[i]))
	}
	pg := helper.BuildPaginationFromPage(total, p.Page, p.PerPage)
	return helper.JsonList(c, "ok", out, &pg)
}

// =========================================================
// PATCH /api/a/users/:id/active  body: {"is_active": bool}
// =========================================================
func (h *UserController) SetActive(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		IsActive *bool `json:"is_active" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	res := h.DB.Model(&model.UserModel{}).Where("id = ?", id).Update("is_active", *req.IsActive)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui status user")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}
	return helper.JsonUpdated(c, "Status user diperbarui", fiber.Map{"id": id, "is_active": *req.IsActive})
}
