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
	helper "perpusku_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FinePaymentAdminController struct {
	DB      *gorm.DB
	Service *service.FinePaymentService
}

func NewFinePaymentAdminController(db *gorm.DB, svc *service.FinePaymentService) *FinePaymentAdminController {
	return &FinePaymentAdminController{DB: db, Service: svc}
}

// GET /api/a/fine-payments
// Default menampilkan antrian pending_verification.
func (ctl *FinePaymentAdminController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.FinePaymentBatchModel{})

	status := c.Query("status", model.BatchStatusPendingVerification)
	if status != "all" {
		q = q.Where("fine_payment_batch_status = ?", status)
	}
	if raw := c.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "user_id tidak valid")
		}
		q = q.Where("fine_payment_batch_user_id = ?", userID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung batch")
	}

	var rows []model.FinePaymentBatchModel
	if err := q.
		Order("fine_payment_batch_created_at ASC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil batch")
	}

	resp := make([]dto.FinePaymentBatchResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, dto.ToFinePaymentBatchResponse(&rows[i], nil))
	}

	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.Limit)
	return helper.JsonList(c, "ok", resp, &pagination)
}

// GET /api/a/fine-payments/:id
func (ctl *FinePaymentAdminController) Detail(c *fiber.Ctx) error {
	batchID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var batch model.FinePaymentBatchModel
	if err := ctl.DB.
		Where("fine_payment_batch_id = ?", batchID).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "Batch tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil batch")
	}

	var loans []loanModel.LoanModel
	if err := ctl.DB.
		Where("loan_fine_payment_batch_id = ?", batchID).
		Find(&loans).Error; err != nil {
		log.Printf("[FINE_PAYMENT] gagal mengambil loan batch=%s: %v", batchID, err)
	}
	now := time.Now()
	loanResponses := make([]loanDTO.LoanResponse, 0, len(loans))
	for i := range loans {
		loanResponses = append(loanResponses, loanDTO.ToLoanResponse(&loans[i], now, 0))
	}

	return helper.JsonOK(c, "OK", dto.ToFinePaymentBatchResponse(&batch, loanResponses))
}

// PATCH /api/a/fine-payments/:id/verify
func (ctl *FinePaymentAdminController) Verify(c *fiber.Ctx) error {
	batchID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.VerifyBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	batch, err := ctl.Service.Verify(c.Context(), service.VerifyBatchInput{
		BatchID: batchID,
		Approve: req.Approve,
		Note:    req.Note,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	msg := "Pembayaran denda ditolak"
	if req.Approve {
		msg = "Pembayaran denda diverifikasi"
	}
	return helper.JsonUpdated(c, msg, dto.ToFinePaymentBatchResponse(batch, nil))
}
