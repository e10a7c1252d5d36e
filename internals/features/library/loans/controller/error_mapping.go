package controller

import (
	"errors"

	"perpusku_backend/internals/features/library/loans/service"
	helper "perpusku_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

// mapServiceError memetakan error domain ke respons HTTP dengan
// error_code yang bisa dibedakan oleh frontend.
func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND",
			"Data tidak ditemukan")
	case errors.Is(err, service.ErrInvalidTransition):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "INVALID_TRANSITION",
			"Aksi tidak sah untuk status saat ini")
	case errors.Is(err, service.ErrOutOfStock):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "OUT_OF_STOCK",
			"Stok buku sedang habis")
	case errors.Is(err, service.ErrAlreadyBorrowed):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "ALREADY_BORROWED",
			"Kamu masih meminjam buku ini")
	case errors.Is(err, service.ErrValidation):
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "VALIDATION_ERROR",
			err.Error())
	case errors.Is(err, service.ErrConflict):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "CONFLICT",
			err.Error())
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError,
			"Terjadi kesalahan pada server")
	}
}
