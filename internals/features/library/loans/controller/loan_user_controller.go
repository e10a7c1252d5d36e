package controller

import (
	"errors"
	"log"
	"time"

	"perpusku_backend/internals/features/library/loans/dto"
	"perpusku_backend/internals/features/library/loans/model"
	"perpusku_backend/internals/features/library/loans/service"
	helper "perpusku_backend/internals/helpers"
	"perpusku_backend/internals/helpers/oss"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LoanUserController struct {
	DB      *gorm.DB
	Service *service.LoanService
	OSS     *oss.OSSService
}

func NewLoanUserController(db *gorm.DB, svc *service.LoanService, ossSvc *oss.OSSService) *LoanUserController {
	return &LoanUserController{DB: db, Service: svc, OSS: ossSvc}
}

var validate = validator.New()

// POST /api/u/loans
func (ctl *LoanUserController) RequestLoan(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.RequestLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	loan, err := ctl.Service.RequestLoan(c.Context(), service.RequestLoanInput{
		UserID:           userID,
		BookID:           req.BookID,
		ExpectedReturnAt: req.ExpectedReturnAt,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return helper.JsonCreated(c, "Pengajuan pinjaman terkirim",
		ctl.toResponse(loan))
}

// GET /api/u/loans
// Query: status (termasuk "overdue" turunan), active=true
func (ctl *LoanUserController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)
	now := time.Now()

	q := ctl.DB.Model(&model.LoanModel{}).
		Where("loan_user_id = ?", userID)

	switch status := c.Query("status"); status {
	case "":
		// semua
	case model.LoanStatusOverdueDerived:
		q = q.Where("loan_status = ? AND loan_expected_return_at < ?",
			model.LoanStatusBorrowing, now)
	default:
		q = q.Where("loan_status = ?", status)
	}
	if c.Query("active") == "true" {
		q = q.Where("loan_status IN ?", model.ActiveLoanStatuses)
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

	resp := make([]dto.LoanResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, ctl.toResponse(&rows[i]))
	}

	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.Limit)
	return helper.JsonList(c, "ok", resp, &pagination)
}

// GET /api/u/loans/:id
func (ctl *LoanUserController) Detail(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	loanID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var loan model.LoanModel
	if err := ctl.DB.
		Where("loan_id = ? AND loan_user_id = ?", loanID, userID).
		First(&loan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "Pinjaman tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pinjaman")
	}

	return helper.JsonOK(c, "OK", ctl.toResponse(&loan))
}

// POST /api/u/loans/:id/return-proof
// Multipart: file foto + field form latitude/longitude/accuracy_m/
// captured_at/address.
func (ctl *LoanUserController) SubmitReturnProof(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	loanID, err := helper.ParseUUIDParam(c, "id")
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

	var meta dto.ReturnProofMetaRequest
	if err := c.BodyParser(&meta); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format metadata tidak valid")
	}
	if err := validate.Struct(meta); err != nil {
		return helper.ValidationError(c, err)
	}

	proofURL, err := ctl.OSS.UploadImageAsWebP(c.Context(), fh, "loans/return-proofs")
	if err != nil {
		log.Printf("[LOAN] gagal upload bukti pengembalian loan=%s: %v", loanID, err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Gagal mengunggah bukti pengembalian")
	}

	loan, err := ctl.Service.SubmitReturnProof(c.Context(), service.ReturnProofInput{
		LoanID:   loanID,
		UserID:   userID,
		ProofURL: proofURL,
		Meta:     meta.ToMap(),
	})
	if err != nil {
		// Status gagal berubah; bukti yang terlanjur naik dibersihkan.
		if delErr := ctl.OSS.DeleteByPublicURL(c.Context(), proofURL); delErr != nil {
			log.Printf("[LOAN] gagal hapus bukti yatim %s: %v", proofURL, delErr)
		}
		return mapServiceError(c, err)
	}

	return helper.JsonUpdated(c, "Bukti pengembalian terkirim, menunggu verifikasi admin",
		ctl.toResponse(loan))
}

// GET /api/u/loans/fines/summary
// Denda aktif = denda berjalan loan aktif + denda tersimpan yang belum
// dibayar.
func (ctl *LoanUserController) MyFineSummary(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var loans []model.LoanModel
	if err := ctl.DB.
		Where("loan_user_id = ?", userID).
		Where("loan_status IN ? OR (loan_status = ? AND loan_fine_payment_status <> ?)",
			[]string{model.LoanStatusBorrowing, model.LoanStatusReadyForReturn},
			model.LoanStatusReturned, model.FinePaymentStatusPaid).
		Find(&loans).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data denda")
	}

	now := time.Now()
	cfg := ctl.Service.Cfg
	total := service.ActiveFineTotal(loans, now, cfg.PenaltyPerDayIDR, cfg.Location)

	items := make([]dto.LoanResponse, 0, len(loans))
	for i := range loans {
		l := &loans[i]
		running := service.RunningFine(l, now, cfg.PenaltyPerDayIDR, cfg.Location)
		if l.LoanStatus == model.LoanStatusReturned && l.LoanFineAmountIDR == 0 {
			continue
		}
		if l.LoanStatus != model.LoanStatusReturned && running == 0 {
			continue
		}
		items = append(items, dto.ToLoanResponse(l, now, running))
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"active_fine_total_idr": total,
		"penalty_per_day_idr":   cfg.PenaltyPerDayIDR,
		"loans":                 items,
	})
}

func (ctl *LoanUserController) toResponse(loan *model.LoanModel) dto.LoanResponse {
	now := time.Now()
	cfg := ctl.Service.Cfg
	running := service.RunningFine(loan, now, cfg.PenaltyPerDayIDR, cfg.Location)
	return dto.ToLoanResponse(loan, now, running)
}
