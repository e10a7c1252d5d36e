package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"perpusku_backend/internals/features/library/loans/dto"
	"perpusku_backend/internals/features/library/loans/model"
	"perpusku_backend/internals/features/library/loans/service"
	helper "perpusku_backend/internals/helpers"
	"perpusku_backend/internals/helpers/oss"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoanAdminController struct {
	DB      *gorm.DB
	Service *service.LoanService
	OSS     *oss.OSSService
}

func NewLoanAdminController(db *gorm.DB, svc *service.LoanService, ossSvc *oss.OSSService) *LoanAdminController {
	return &LoanAdminController{DB: db, Service: svc, OSS: ossSvc}
}

// GET /api/a/loans
// Query: status (termasuk "overdue"), user_id, book_id, q (kode pinjam)
func (ctl *LoanAdminController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)
	now := time.Now()

	q := ctl.DB.Model(&model.LoanModel{})

	switch status := c.Query("status"); status {
	case "":
	case model.LoanStatusOverdueDerived:
		q = q.Where("loan_status = ? AND loan_expected_return_at < ?",
			model.LoanStatusBorrowing, now)
	default:
		q = q.Where("loan_status = ?", status)
	}
	if raw := c.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "user_id tidak valid")
		}
		q = q.Where("loan_user_id = ?", userID)
	}
	if raw := c.Query("book_id"); raw != "" {
		bookID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "book_id tidak valid")
		}
		q = q.Where("loan_book_id = ?", bookID)
	}
	if code := strings.TrimSpace(c.Query("q")); code != "" {
		q = q.Where("loan_code ILIKE ?", "%"+code+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung pinjaman")
	}

	var rows []model.LoanModel
	if err := q.
		Order("loan_created_at DESC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pinjaman")
	}

	cfg := ctl.Service.Cfg
	resp := make([]dto.LoanResponse, 0, len(rows))
	for i := range rows {
		running := service.RunningFine(&rows[i], now, cfg.PenaltyPerDayIDR, cfg.Location)
		resp = append(resp, dto.ToLoanResponse(&rows[i], now, running))
	}

	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.Limit)
	return helper.JsonList(c, "ok", resp, &pagination)
}

// GET /api/a/loans/:id
func (ctl *LoanAdminController) Detail(c *fiber.Ctx) error {
	loanID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var loan model.LoanModel
	if err := ctl.DB.Where("loan_id = ?", loanID).First(&loan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "Pinjaman tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pinjaman")
	}

	now := time.Now()
	cfg := ctl.Service.Cfg
	running := service.RunningFine(&loan, now, cfg.PenaltyPerDayIDR, cfg.Location)
	return helper.JsonOK(c, "OK", dto.ToLoanResponse(&loan, now, running))
}

// PATCH /api/a/loans/:id/approve
func (ctl *LoanAdminController) ApproveRequest(c *fiber.Ctx) error {
	loanID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.LoanDecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Format request tidak valid")
		}
	}
	req.Normalize()

	loan, err := ctl.Service.ApproveRequest(c.Context(), loanID, req.Note)
	if err != nil {
		return mapServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Pinjaman disetujui", ctl.toResponse(loan))
}

// PATCH /api/a/loans/:id/reject
func (ctl *LoanAdminController) RejectRequest(c *fiber.Ctx) error {
	loanID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.LoanDecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Format request tidak valid")
		}
	}
	req.Normalize()

	loan, err := ctl.Service.RejectRequest(c.Context(), loanID, req.Note)
	if err != nil {
		return mapServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Pinjaman ditolak", ctl.toResponse(loan))
}

// PATCH /api/a/loans/:id/taken
func (ctl *LoanAdminController) ConfirmTaken(c *fiber.Ctx) error {
	loanID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	loan, err := ctl.Service.ConfirmTaken(c.Context(), loanID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Serah terima dicatat", ctl.toResponse(loan))
}

// PATCH /api/a/loans/:id/start-borrowing
func (ctl *LoanAdminController) StartBorrowing(c *fiber.Ctx) error {
	loanID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	loan, err := ctl.Service.StartBorrowing(c.Context(), loanID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Masa pinjam dimulai", ctl.toResponse(loan))
}

// PATCH /api/a/loans/:id/return/approve
func (ctl *LoanAdminController) ApproveReturn(c *fiber.Ctx) error {
	loanID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ApproveReturnRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Format request tidak valid")
		}
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	loan, err := ctl.Service.ApproveReturn(c.Context(), service.ApproveReturnInput{
		LoanID:        loanID,
		ManualFineIDR: req.ManualFineIDR,
		FineReason:    req.FineReason,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Pengembalian disetujui", ctl.toResponse(loan))
}

// PATCH /api/a/loans/:id/return/reject
// Bisa multipart (dengan foto bukti tandingan admin) atau JSON biasa.
func (ctl *LoanAdminController) RejectReturn(c *fiber.Ctx) error {
	loanID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.RejectReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var adminProofURL *string
	if oss.IsMultipart(c) && ctl.OSS != nil {
		if fh, fhErr := oss.GetImageFile(c); fhErr == nil {
			url, upErr := ctl.OSS.UploadImageAsWebP(c.Context(), fh, "loans/admin-proofs")
			if upErr != nil {
				log.Printf("[LOAN] gagal upload bukti admin loan=%s: %v", loanID, upErr)
				return helper.JsonError(c, fiber.StatusBadGateway, "Gagal mengunggah bukti admin")
			}
			adminProofURL = &url
		}
	}

	loan, err := ctl.Service.RejectReturn(c.Context(), service.RejectReturnInput{
		LoanID:        loanID,
		Reason:        req.Reason,
		FineIDR:       req.FineIDR,
		AdminProofURL: adminProofURL,
	})
	if err != nil {
		if adminProofURL != nil {
			if delErr := ctl.OSS.DeleteByPublicURL(c.Context(), *adminProofURL); delErr != nil {
				log.Printf("[LOAN] gagal hapus bukti admin yatim: %v", delErr)
			}
		}
		return mapServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Bukti pengembalian ditolak, pinjaman kembali aktif",
		ctl.toResponse(loan))
}

func (ctl *LoanAdminController) toResponse(loan *model.LoanModel) dto.LoanResponse {
	now := time.Now()
	cfg := ctl.Service.Cfg
	running := service.RunningFine(loan, now, cfg.PenaltyPerDayIDR, cfg.Location)
	return dto.ToLoanResponse(loan, now, running)
}
