package controller

import (
	"errors"
	"log"
	"time"

	"perpusku_backend/internals/features/library/fine_payments/dto"
	"perpusku_backend/internals/features/library/fine_payments/model"
	"perpusku_backend/internals/features/library/fine_payments/service"
	loanDTO "perpusku_backend/internals/features/library/loans/dto"
	loanModel "perpusku_backend/internals/features/library/loans/model"
	loanService "perpusku_backend/internals/features/library/loans/service"
	helper "perpusku_backend/internals/helpers"
	"perpusku_backend/internals/helpers/oss"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FinePaymentUserController struct {
	DB      *gorm.DB
	Service *service.FinePaymentService
	OSS     *oss.OSSService
}

func NewFinePaymentUserController(db *gorm.DB, svc *service.FinePaymentService, ossSvc *oss.OSSService) *FinePaymentUserController {
	return &FinePaymentUserController{DB: db, Service: svc, OSS: ossSvc}
}

var validate = validator.New()

// mapServiceError: taksonomi error domain dipakai bersama dengan modul
// pinjaman supaya frontend cukup mengenali satu set error_code.
func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, loanService.ErrNotFound):
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND",
			"Data tidak ditemukan")
	case errors.Is(err, loanService.ErrInvalidTransition):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "INVALID_TRANSITION",
			"Aksi tidak sah untuk status saat ini")
	case errors.Is(err, loanService.ErrValidation):
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "VALIDATION_ERROR",
			err.Error())
	case errors.Is(err, loanService.ErrConflict):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "CONFLICT",
			"Sebagian denda sudah dibayar atau sedang dalam batch lain")
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError,
			"Terjadi kesalahan pada server")
	}
}

// POST /api/u/fine-payments
func (ctl *FinePaymentUserController) Initiate(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.InitiateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	batch, err := ctl.Service.InitiateBatch(c.Context(), service.InitiateBatchInput{
		UserID:  userID,
		LoanIDs: req.LoanIDs,
		Method:  req.Method,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return helper.JsonCreated(c, "Batch pembayaran denda dibuat",
		ctl.toResponse(batch, true))
}

// POST /api/u/fine-payments/:id/proof
func (ctl *FinePaymentUserController) UploadProof(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	batchID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if ctl.OSS == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Penyimpanan media belum dikonfigurasi")
	}

	fh, err := oss.GetImageFile(c)
	if err != nil {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	proofURL, err := ctl.OSS.UploadImageAsWebP(c.Context(), fh, "fine-payments/proofs")
	if err != nil {
		log.Printf("[FINE_PAYMENT] gagal upload bukti batch=%s: %v", batchID, err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Gagal mengunggah bukti pembayaran")
	}

	batch, err := ctl.Service.UploadProof(c.Context(), userID, batchID, proofURL)
	if err != nil {
		if delErr := ctl.OSS.DeleteByPublicURL(c.Context(), proofURL); delErr != nil {
			log.Printf("[FINE_PAYMENT] gagal hapus bukti yatim %s: %v", proofURL, delErr)
		}
		return mapServiceError(c, err)
	}

	return helper.JsonUpdated(c, "Bukti pembayaran terkirim, menunggu verifikasi admin",
		ctl.toResponse(batch, false))
}

// GET /api/u/fine-payments
func (ctl *FinePaymentUserController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.FinePaymentBatchModel{}).
		Where("fine_payment_batch_user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		q = q.Where("fine_payment_batch_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung batch")
	}

	var rows []model.FinePaymentBatchModel
	if err := q.
		Order("fine_payment_batch_created_at DESC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil batch")
	}

	resp := make([]dto.FinePaymentBatchResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, ctl.toResponse(&rows[i], false))
	}

	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.Limit)
	return helper.JsonList(c, "ok", resp, &pagination)
}

// GET /api/u/fine-payments/:id
func (ctl *FinePaymentUserController) Detail(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	batchID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var batch model.FinePaymentBatchModel
	if err := ctl.DB.
		Where("fine_payment_batch_id = ? AND fine_payment_batch_user_id = ?", batchID, userID).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "Batch tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil batch")
	}

	return helper.JsonOK(c, "OK", ctl.toResponse(&batch, true))
}

func (ctl *FinePaymentUserController) toResponse(batch *model.FinePaymentBatchModel, withLoans bool) dto.FinePaymentBatchResponse {
	var loanResponses []loanDTO.LoanResponse
	if withLoans {
		loanResponses = ctl.batchLoans(batch.FinePaymentBatchID)
	}
	return dto.ToFinePaymentBatchResponse(batch, loanResponses)
}

func (ctl *FinePaymentUserController) batchLoans(batchID uuid.UUID) []loanDTO.LoanResponse {
	var loans []loanModel.LoanModel
	if err := ctl.DB.
		Where("loan_fine_payment_batch_id = ?", batchID).
		Find(&loans).Error; err != nil {
		log.Printf("[FINE_PAYMENT] gagal mengambil loan batch=%s: %v", batchID, err)
		return nil
	}
	now := time.Now()
	resp := make([]loanDTO.LoanResponse, 0, len(loans))
	for i := range loans {
		resp = append(resp, loanDTO.ToLoanResponse(&loans[i], now, 0))
	}
	return resp
}
