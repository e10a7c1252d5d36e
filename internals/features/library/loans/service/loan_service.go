package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"perpusku_backend/internals/configs"
	bookModel "perpusku_backend/internals/features/library/books/model"
	"perpusku_backend/internals/features/library/loans/model"
	notifModel "perpusku_backend/internals/features/home/notifications/model"
	notifService "perpusku_backend/internals/features/home/notifications/service"
	userModel "perpusku_backend/internals/features/users/user/model"
	helper "perpusku_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoanService memegang seluruh transisi status pinjaman. Setiap operasi
// berjalan dalam satu transaksi DB; efek samping (stok buku, ledger
// denda user) ikut commit/rollback bersama perubahan status. Notifikasi
// push dikirim best-effort setelah commit.
type LoanService struct {
	DB       *gorm.DB
	Cfg      configs.LendingConfig
	Notifier *notifService.Notifier
}

func NewLoanService(db *gorm.DB, cfg configs.LendingConfig, notifier *notifService.Notifier) *LoanService {
	return &LoanService{DB: db, Cfg: cfg, Notifier: notifier}
}

func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// ============================
// Pengajuan pinjaman
// ============================

type RequestLoanInput struct {
	UserID           uuid.UUID
	BookID           uuid.UUID
	ExpectedReturnAt time.Time
}

func (s *LoanService) RequestLoan(ctx context.Context, in RequestLoanInput) (*model.LoanModel, error) {
	now := time.Now()
	if !in.ExpectedReturnAt.After(now) {
		return nil, ValidationErr("Tanggal kembali harus di masa depan")
	}
	if s.Cfg.MaxLoanDays != nil {
		max := now.AddDate(0, 0, *s.Cfg.MaxLoanDays)
		if in.ExpectedReturnAt.After(max) {
			return nil, ValidationErr(fmt.Sprintf("Durasi pinjam maksimal %d hari", *s.Cfg.MaxLoanDays))
		}
	}

	var loan *model.LoanModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book bookModel.BookModel
		if err := tx.Clauses(forUpdate()).
			Where("book_id = ?", in.BookID).
			First(&book).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if book.BookStockAvailable <= 0 {
			return ErrOutOfStock
		}

		// Satu pinjaman aktif per (user, buku).
		var activeCount int64
		if err := tx.Model(&model.LoanModel{}).
			Where("loan_user_id = ? AND loan_book_id = ? AND loan_status IN ?",
				in.UserID, in.BookID, model.ActiveLoanStatuses).
			Count(&activeCount).Error; err != nil {
			return err
		}
		if activeCount > 0 {
			return ErrAlreadyBorrowed
		}

		loan = &model.LoanModel{
			LoanCode:             helper.GenerateBorrowCode(now),
			LoanUserID:           in.UserID,
			LoanBookID:           in.BookID,
			LoanStatus:           model.LoanStatusRequested,
			LoanRequestedAt:      now,
			LoanExpectedReturnAt: in.ExpectedReturnAt,
			LoanFinePaymentStatus: model.FinePaymentStatusNone,
		}
		if err := tx.Create(loan).Error; err != nil {
			return err
		}

		return tx.Model(&userModel.UserModel{}).
			Where("id = ?", in.UserID).
			Update("user_active_loans_count", gorm.Expr("user_active_loans_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(in.UserID, "Pengajuan pinjaman diterima",
		fmt.Sprintf("Pengajuan %s sedang menunggu persetujuan admin.", loan.LoanCode),
		[]string{"loan", "requested"}, loan)
	return loan, nil
}

// ============================
// Keputusan admin atas pengajuan
// ============================

func (s *LoanService) ApproveRequest(ctx context.Context, loanID uuid.UUID, note *string) (*model.LoanModel, error) {
	var loan model.LoanModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		updates := map[string]interface{}{
			"loan_status":      model.LoanStatusApproved,
			"loan_approved_at": now,
		}
		if note != nil {
			updates["loan_decision_note"] = *note
		}
		res := tx.Model(&model.LoanModel{}).
			Where("loan_id = ? AND loan_status = ?", loanID, model.LoanStatusRequested).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.classifyMiss(tx, loanID)
		}
		if err := tx.Where("loan_id = ?", loanID).First(&loan).Error; err != nil {
			return err
		}

		// Stok dipegang sejak disetujui, bukan sejak diambil.
		stockRes := tx.Model(&bookModel.BookModel{}).
			Where("book_id = ? AND book_stock_available > 0", loan.LoanBookID).
			Update("book_stock_available", gorm.Expr("book_stock_available - 1"))
		if stockRes.Error != nil {
			return stockRes.Error
		}
		if stockRes.RowsAffected == 0 {
			return ErrOutOfStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(loan.LoanUserID, "Pinjaman disetujui",
		fmt.Sprintf("Pinjaman %s disetujui. Silakan ambil buku di perpustakaan.", loan.LoanCode),
		[]string{"loan", "approved"}, &loan)
	return &loan, nil
}

func (s *LoanService) RejectRequest(ctx context.Context, loanID uuid.UUID, note *string) (*model.LoanModel, error) {
	var loan model.LoanModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"loan_status": model.LoanStatusRejected,
		}
		if note != nil {
			updates["loan_decision_note"] = *note
		}
		res := tx.Model(&model.LoanModel{}).
			Where("loan_id = ? AND loan_status = ?", loanID, model.LoanStatusRequested).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.classifyMiss(tx, loanID)
		}
		if err := tx.Where("loan_id = ?", loanID).First(&loan).Error; err != nil {
			return err
		}
		return decrementActiveLoans(tx, loan.LoanUserID)
	})
	if err != nil {
		return nil, err
	}

	s.notify(loan.LoanUserID, "Pinjaman ditolak",
		fmt.Sprintf("Pengajuan %s ditolak admin.", loan.LoanCode),
		[]string{"loan", "rejected"}, &loan)
	return &loan, nil
}

// ============================
// Serah terima fisik
// ============================

// ConfirmTaken mencatat buku sudah diserahkan ke peminjam.
func (s *LoanService) ConfirmTaken(ctx context.Context, loanID uuid.UUID) (*model.LoanModel, error) {
	loan, err := s.transition(ctx, loanID, model.LoanStatusApproved, map[string]interface{}{
		"loan_status":   model.LoanStatusTaken,
		"loan_taken_at": time.Now(),
	})
	if err != nil {
		return nil, err
	}
	s.notify(loan.LoanUserID, "Buku diserahkan",
		fmt.Sprintf("Buku untuk pinjaman %s sudah diserahkan.", loan.LoanCode),
		[]string{"loan", "taken"}, loan)
	return loan, nil
}

// StartBorrowing memulai masa pinjam setelah serah terima.
func (s *LoanService) StartBorrowing(ctx context.Context, loanID uuid.UUID) (*model.LoanModel, error) {
	loan, err := s.transition(ctx, loanID, model.LoanStatusTaken, map[string]interface{}{
		"loan_status": model.LoanStatusBorrowing,
	})
	if err != nil {
		return nil, err
	}
	s.notify(loan.LoanUserID, "Masa pinjam dimulai",
		fmt.Sprintf("Pinjaman %s aktif sampai %s.", loan.LoanCode,
			loan.LoanExpectedReturnAt.In(s.loc()).Format("02 Jan 2006")),
		[]string{"loan", "borrowing"}, loan)
	return loan, nil
}

// ============================
// Bukti pengembalian
// ============================

type ReturnProofInput struct {
	LoanID   uuid.UUID
	UserID   uuid.UUID
	ProofURL string
	Meta     map[string]interface{} // lat, lng, accuracy, captured_at, address
}

func (s *LoanService) SubmitReturnProof(ctx context.Context, in ReturnProofInput) (*model.LoanModel, error) {
	if in.ProofURL == "" {
		return nil, ValidationErr("Foto bukti pengembalian wajib diunggah")
	}

	var loan model.LoanModel
	var notifRow *notifModel.NotificationModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		updates := map[string]interface{}{
			"loan_status":              model.LoanStatusReadyForReturn,
			"loan_return_proof_url":    in.ProofURL,
			"loan_return_submitted_at": now,
		}
		if in.Meta != nil {
			updates["loan_return_proof_meta"] = datatypes.JSONMap(in.Meta)
		}
		res := tx.Model(&model.LoanModel{}).
			Where("loan_id = ? AND loan_user_id = ? AND loan_status = ?",
				in.LoanID, in.UserID, model.LoanStatusBorrowing).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.classifyMiss(tx, in.LoanID)
		}
		if err := tx.Where("loan_id = ?", in.LoanID).First(&loan).Error; err != nil {
			return err
		}
		if s.Notifier == nil {
			return nil
		}
		row, err := s.Notifier.Record(tx, notifService.Payload{
			UserID:  loan.LoanUserID,
			Title:   "Bukti pengembalian terkirim",
			Message: fmt.Sprintf("Bukti pengembalian %s menunggu verifikasi admin.", loan.LoanCode),
			Tags:    []string{"loan", "ready_for_return"},
			Data:    map[string]interface{}{"loan_id": loan.LoanID.String()},
		})
		if err != nil {
			return err
		}
		notifRow = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.Notifier != nil {
		s.Notifier.PushAfterCommit(notifRow)
	}
	return &loan, nil
}

// ApproveReturn menutup pinjaman. Denda final = denda keterlambatan
// sampai hari ini + denda manual admin + denda manual yang tertunda
// dari penolakan sebelumnya.
type ApproveReturnInput struct {
	LoanID        uuid.UUID
	ManualFineIDR int
	FineReason    string
}

func (s *LoanService) ApproveReturn(ctx context.Context, in ApproveReturnInput) (*model.LoanModel, error) {
	if in.ManualFineIDR < 0 {
		return nil, ValidationErr("Denda manual tidak boleh negatif")
	}
	if in.ManualFineIDR > 0 && in.FineReason == "" {
		return nil, ValidationErr("Alasan denda wajib diisi saat memberi denda manual")
	}

	var loan model.LoanModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate()).
			Where("loan_id = ?", in.LoanID).
			First(&loan).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if loan.LoanStatus != model.LoanStatusReadyForReturn {
			return ErrInvalidTransition
		}

		now := time.Now()
		accrued := Penalty(loan.LoanExpectedReturnAt, now, s.Cfg.PenaltyPerDayIDR, s.loc())
		fine := accrued + in.ManualFineIDR + loan.LoanPendingManualFineIDR

		updates := map[string]interface{}{
			"loan_status":                  model.LoanStatusReturned,
			"loan_actual_return_at":        now,
			"loan_fine_amount_idr":         fine,
			"loan_pending_manual_fine_idr": 0,
		}
		if in.FineReason != "" {
			updates["loan_fine_note"] = in.FineReason
		}
		res := tx.Model(&model.LoanModel{}).
			Where("loan_id = ? AND loan_status = ?", in.LoanID, model.LoanStatusReadyForReturn).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		// Stok kembali tersedia.
		if err := tx.Model(&bookModel.BookModel{}).
			Where("book_id = ? AND book_stock_available < book_stock_total", loan.LoanBookID).
			Update("book_stock_available", gorm.Expr("book_stock_available + 1")).Error; err != nil {
			return err
		}

		if err := decrementActiveLoans(tx, loan.LoanUserID); err != nil {
			return err
		}
		if fine > 0 {
			if err := tx.Model(&userModel.UserModel{}).
				Where("id = ?", loan.LoanUserID).
				Updates(map[string]interface{}{
					"user_delta_unpaid_idr":    gorm.Expr("user_delta_unpaid_idr + ?", fine),
					"user_historical_fine_idr": gorm.Expr("user_historical_fine_idr + ?", fine),
				}).Error; err != nil {
				return err
			}
		}

		return tx.Where("loan_id = ?", in.LoanID).First(&loan).Error
	})
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Pengembalian %s diterima.", loan.LoanCode)
	if loan.LoanFineAmountIDR > 0 {
		msg = fmt.Sprintf("Pengembalian %s diterima dengan denda Rp %d.", loan.LoanCode, loan.LoanFineAmountIDR)
	}
	s.notify(loan.LoanUserID, "Pengembalian diterima", msg,
		[]string{"loan", "returned"}, &loan)
	return &loan, nil
}

// RejectReturn mengembalikan pinjaman ke status borrowing (overdue
// mengikuti turunan tanggal). Alasan wajib; denda manual opsional
// ditampung di pending sampai pengembalian benar-benar disetujui.
type RejectReturnInput struct {
	LoanID        uuid.UUID
	Reason        string
	FineIDR       int
	AdminProofURL *string
}

func (s *LoanService) RejectReturn(ctx context.Context, in RejectReturnInput) (*model.LoanModel, error) {
	if in.Reason == "" {
		return nil, ValidationErr("Alasan penolakan wajib diisi")
	}
	if in.FineIDR < 0 {
		return nil, ValidationErr("Denda tidak boleh negatif")
	}

	var loan model.LoanModel
	var notifRow *notifModel.NotificationModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"loan_status":      model.LoanStatusBorrowing,
			"loan_review_note": in.Reason,
		}
		if in.FineIDR > 0 {
			updates["loan_pending_manual_fine_idr"] = gorm.Expr("loan_pending_manual_fine_idr + ?", in.FineIDR)
		}
		if in.AdminProofURL != nil {
			updates["loan_admin_proof_url"] = *in.AdminProofURL
		}
		res := tx.Model(&model.LoanModel{}).
			Where("loan_id = ? AND loan_status = ?", in.LoanID, model.LoanStatusReadyForReturn).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.classifyMiss(tx, in.LoanID)
		}
		if err := tx.Where("loan_id = ?", in.LoanID).First(&loan).Error; err != nil {
			return err
		}
		if s.Notifier == nil {
			return nil
		}
		row, err := s.Notifier.Record(tx, notifService.Payload{
			UserID:  loan.LoanUserID,
			Title:   "Bukti pengembalian ditolak",
			Message: fmt.Sprintf("Bukti pengembalian %s ditolak: %s", loan.LoanCode, in.Reason),
			Tags:    []string{"loan", "return_rejected"},
			Data:    map[string]interface{}{"loan_id": loan.LoanID.String()},
		})
		if err != nil {
			return err
		}
		notifRow = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.Notifier != nil {
		s.Notifier.PushAfterCommit(notifRow)
	}
	return &loan, nil
}

// ============================
// Util internal
// ============================

// transition menjalankan update bersyarat sederhana satu langkah.
func (s *LoanService) transition(ctx context.Context, loanID uuid.UUID, from string, updates map[string]interface{}) (*model.LoanModel, error) {
	var loan model.LoanModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.LoanModel{}).
			Where("loan_id = ? AND loan_status = ?", loanID, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.classifyMiss(tx, loanID)
		}
		return tx.Where("loan_id = ?", loanID).First(&loan).Error
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// classifyMiss membedakan "loan tidak ada" dari "loan ada tapi bukan
// di status asal" saat update bersyarat tidak mengenai baris apa pun.
func (s *LoanService) classifyMiss(tx *gorm.DB, loanID uuid.UUID) error {
	var count int64
	if err := tx.Model(&model.LoanModel{}).
		Where("loan_id = ?", loanID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrInvalidTransition
}

func decrementActiveLoans(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Model(&userModel.UserModel{}).
		Where("id = ? AND user_active_loans_count > 0", userID).
		Update("user_active_loans_count", gorm.Expr("user_active_loans_count - 1")).Error
}

func (s *LoanService) loc() *time.Location {
	if s.Cfg.Location != nil {
		return s.Cfg.Location
	}
	return time.Local
}

func (s *LoanService) notify(userID uuid.UUID, title, message string, tags []string, loan *model.LoanModel) {
	if s.Notifier == nil {
		log.Printf("[LOAN] notifier belum terpasang, lewati notifikasi %q", title)
		return
	}
	data := map[string]interface{}{}
	if loan != nil {
		data["loan_id"] = loan.LoanID.String()
		data["loan_code"] = loan.LoanCode
		data["loan_status"] = loan.LoanStatus
	}
	s.Notifier.Notify(notifService.Payload{
		UserID:  userID,
		Title:   title,
		Message: message,
		Tags:    tags,
		Data:    data,
	})
}
