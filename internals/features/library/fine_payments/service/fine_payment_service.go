package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	notifModel "perpusku_backend/internals/features/home/notifications/model"
	notifService "perpusku_backend/internals/features/home/notifications/service"
	"perpusku_backend/internals/features/library/fine_payments/model"
	loanModel "perpusku_backend/internals/features/library/loans/model"
	loanService "perpusku_backend/internals/features/library/loans/service"
	userModel "perpusku_backend/internals/features/users/user/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FinePaymentService menjalankan siklus pembayaran denda per batch.
// Total batch dibekukan saat inisiasi; verifikasi admin menyelesaikan
// semua loan anggota sekaligus atau tidak sama sekali.
type FinePaymentService struct {
	DB       *gorm.DB
	Notifier *notifService.Notifier
	QRIS     *QRISAssist
}

func NewFinePaymentService(db *gorm.DB, notifier *notifService.Notifier, qris *QRISAssist) *FinePaymentService {
	return &FinePaymentService{DB: db, Notifier: notifier, QRIS: qris}
}

func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// ============================
// Aturan batch (murni, tanpa DB)
// ============================

// batchLoanEligibility memeriksa satu loan calon anggota batch.
// Satu loan gagal = seluruh inisiasi batal (pemanggil membatalkan
// transaksi tanpa menyentuh apa pun).
func batchLoanEligibility(l *loanModel.LoanModel) error {
	if l.LoanStatus != loanModel.LoanStatusReturned {
		return loanService.ValidationErr(
			fmt.Sprintf("Pinjaman %s belum berstatus dikembalikan", l.LoanCode))
	}
	if l.LoanFineAmountIDR <= 0 {
		return loanService.ValidationErr(
			fmt.Sprintf("Pinjaman %s tidak memiliki denda", l.LoanCode))
	}
	if l.LoanFinePaymentStatus == loanModel.FinePaymentStatusPaid {
		return loanService.ErrConflict
	}
	if l.LoanFinePaymentBatchID != nil {
		return loanService.ErrConflict
	}
	return nil
}

// deltaUnpaidAfterPayment memotong ledger unpaid user sebesar total
// batch, dilantai di nol — total batch bisa melampaui delta saat denda
// manual dicatat setelah batch dibekukan.
func deltaUnpaidAfterPayment(current, batchTotal int) int {
	next := current - batchTotal
	if next < 0 {
		return 0
	}
	return next
}

// rejectStatuses menentukan status tujuan saat verifikasi ditolak:
// metode berbasis bukti kembali ke awaiting_proof, cash tetap
// pending_verification (tidak ada bukti untuk diunggah ulang).
func rejectStatuses(method string) (batchStatus, loanStatus string) {
	if method == loanModel.FinePaymentMethodCash {
		return model.BatchStatusPendingVerification, loanModel.FinePaymentStatusPendingVerification
	}
	return model.BatchStatusAwaitingProof, loanModel.FinePaymentStatusAwaitingProof
}

// ============================
// Inisiasi batch
// ============================

type InitiateBatchInput struct {
	UserID  uuid.UUID
	LoanIDs []uuid.UUID
	Method  string
}

func (s *FinePaymentService) InitiateBatch(ctx context.Context, in InitiateBatchInput) (*model.FinePaymentBatchModel, error) {
	if len(in.LoanIDs) == 0 {
		return nil, loanService.ValidationErr("Pilih minimal satu pinjaman")
	}
	if !model.IsValidBatchMethod(in.Method) {
		return nil, loanService.ValidationErr("Metode pembayaran harus bank, qris, atau cash")
	}

	var batch model.FinePaymentBatchModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loans []loanModel.LoanModel
		if err := tx.Clauses(forUpdate()).
			Where("loan_id IN ? AND loan_user_id = ?", in.LoanIDs, in.UserID).
			Find(&loans).Error; err != nil {
			return err
		}
		if len(loans) != len(in.LoanIDs) {
			return loanService.ErrNotFound
		}

		// Validasi all-or-nothing: satu loan tidak memenuhi syarat
		// membatalkan seluruh batch tanpa menyentuh apa pun.
		total := 0
		for i := range loans {
			if err := batchLoanEligibility(&loans[i]); err != nil {
				return err
			}
			total += loans[i].LoanFineAmountIDR
		}

		batch = model.FinePaymentBatchModel{
			FinePaymentBatchUserID:   in.UserID,
			FinePaymentBatchTotalIDR: total,
			FinePaymentBatchMethod:   in.Method,
			FinePaymentBatchStatus:   model.InitialStatus(in.Method),
		}
		if err := tx.Create(&batch).Error; err != nil {
			return err
		}

		return tx.Model(&loanModel.LoanModel{}).
			Where("loan_id IN ?", in.LoanIDs).
			Updates(map[string]interface{}{
				"loan_fine_payment_batch_id": batch.FinePaymentBatchID,
				"loan_fine_payment_status":   batch.FinePaymentBatchStatus,
				"loan_fine_payment_method":   in.Method,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	// Link pembayaran QRIS dibuat di luar transaksi — panggilan gateway
	// tidak boleh menahan lock DB. Gagal di sini tidak membatalkan
	// batch; user tetap bisa bayar manual.
	if in.Method == loanModel.FinePaymentMethodQRIS && s.QRIS != nil {
		token, redirectURL, qrisErr := s.QRIS.CreatePaymentLink(&batch)
		if qrisErr != nil {
			log.Printf("[FINE_PAYMENT] gagal membuat link QRIS batch=%s: %v",
				batch.FinePaymentBatchID, qrisErr)
		} else {
			updates := map[string]interface{}{
				"fine_payment_batch_gateway_token": token,
				"fine_payment_batch_gateway_url":   redirectURL,
			}
			if err := s.DB.WithContext(ctx).Model(&batch).Updates(updates).Error; err != nil {
				log.Printf("[FINE_PAYMENT] gagal simpan link QRIS batch=%s: %v",
					batch.FinePaymentBatchID, err)
			}
		}
	}

	s.notify(batch.FinePaymentBatchUserID, "Pembayaran denda dimulai",
		fmt.Sprintf("Batch pembayaran denda Rp %d (%s) dibuat.",
			batch.FinePaymentBatchTotalIDR, batch.FinePaymentBatchMethod),
		[]string{"fine_payment", "initiated"}, &batch)
	return &batch, nil
}

// ============================
// Unggah bukti
// ============================

func (s *FinePaymentService) UploadProof(ctx context.Context, userID, batchID uuid.UUID, proofURL string) (*model.FinePaymentBatchModel, error) {
	if proofURL == "" {
		return nil, loanService.ValidationErr("Bukti pembayaran wajib diunggah")
	}

	var batch model.FinePaymentBatchModel
	var notifRow *notifModel.NotificationModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.FinePaymentBatchModel{}).
			Where("fine_payment_batch_id = ? AND fine_payment_batch_user_id = ? AND fine_payment_batch_status = ?",
				batchID, userID, model.BatchStatusAwaitingProof).
			Updates(map[string]interface{}{
				"fine_payment_batch_status":    model.BatchStatusPendingVerification,
				"fine_payment_batch_proof_url": proofURL,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.classifyBatchMiss(tx, batchID)
		}
		if err := tx.Where("fine_payment_batch_id = ?", batchID).First(&batch).Error; err != nil {
			return err
		}

		if err := tx.Model(&loanModel.LoanModel{}).
			Where("loan_fine_payment_batch_id = ?", batchID).
			Update("loan_fine_payment_status", loanModel.FinePaymentStatusPendingVerification).Error; err != nil {
			return err
		}

		// Jejak audit bukti pembayaran harus tahan banting: baris
		// notifikasi ikut transaksi ini, push menyusul setelah commit.
		if s.Notifier == nil {
			return nil
		}
		row, err := s.Notifier.Record(tx, notifService.Payload{
			UserID:  batch.FinePaymentBatchUserID,
			Title:   "Bukti pembayaran terkirim",
			Message: fmt.Sprintf("Bukti pembayaran denda Rp %d menunggu verifikasi admin.", batch.FinePaymentBatchTotalIDR),
			Tags:    []string{"fine_payment", "proof_submitted"},
			Data: map[string]interface{}{
				"fine_payment_batch_id": batch.FinePaymentBatchID.String(),
				"proof_url":             proofURL,
			},
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
	return &batch, nil
}

// ============================
// Verifikasi admin
// ============================

type VerifyBatchInput struct {
	BatchID uuid.UUID
	Approve bool
	Note    string
}

func (s *FinePaymentService) Verify(ctx context.Context, in VerifyBatchInput) (*model.FinePaymentBatchModel, error) {
	if !in.Approve && in.Note == "" {
		return nil, loanService.ValidationErr("Alasan penolakan wajib diisi")
	}

	var batch model.FinePaymentBatchModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate()).
			Where("fine_payment_batch_id = ?", in.BatchID).
			First(&batch).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loanService.ErrNotFound
			}
			return err
		}
		if batch.FinePaymentBatchStatus != model.BatchStatusPendingVerification {
			return loanService.ErrInvalidTransition
		}

		if in.Approve {
			return s.approveLocked(tx, &batch, in.Note)
		}
		return s.rejectLocked(tx, &batch, in.Note)
	})
	if err != nil {
		return nil, err
	}

	if in.Approve {
		s.notify(batch.FinePaymentBatchUserID, "Pembayaran denda diterima",
			fmt.Sprintf("Pembayaran denda Rp %d sudah diverifikasi. Terima kasih!", batch.FinePaymentBatchTotalIDR),
			[]string{"fine_payment", "paid"}, &batch)
	} else {
		s.notify(batch.FinePaymentBatchUserID, "Pembayaran denda ditolak",
			fmt.Sprintf("Verifikasi pembayaran denda ditolak: %s", in.Note),
			[]string{"fine_payment", "rejected"}, &batch)
	}
	return &batch, nil
}

// approveLocked menyelesaikan seluruh loan anggota sekaligus dan
// memotong ledger unpaid user sebesar total batch, tidak pernah sampai
// negatif.
func (s *FinePaymentService) approveLocked(tx *gorm.DB, batch *model.FinePaymentBatchModel, note string) error {
	now := time.Now()

	updates := map[string]interface{}{
		"fine_payment_batch_status":      model.BatchStatusPaid,
		"fine_payment_batch_verified_at": now,
	}
	if note != "" {
		updates["fine_payment_batch_note"] = note
		batch.FinePaymentBatchNote = &note
	}
	res := tx.Model(&model.FinePaymentBatchModel{}).
		Where("fine_payment_batch_id = ? AND fine_payment_batch_status = ?",
			batch.FinePaymentBatchID, model.BatchStatusPendingVerification).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanService.ErrInvalidTransition
	}

	if err := tx.Model(&loanModel.LoanModel{}).
		Where("loan_fine_payment_batch_id = ?", batch.FinePaymentBatchID).
		Updates(map[string]interface{}{
			"loan_fine_payment_status": loanModel.FinePaymentStatusPaid,
			"loan_fine_payment_at":     now,
		}).Error; err != nil {
		return err
	}

	var payer userModel.UserModel
	if err := tx.Clauses(forUpdate()).
		Where("id = ?", batch.FinePaymentBatchUserID).
		First(&payer).Error; err != nil {
		return err
	}
	if err := tx.Model(&userModel.UserModel{}).
		Where("id = ?", payer.ID).
		Update("user_delta_unpaid_idr",
			deltaUnpaidAfterPayment(payer.UserDeltaUnpaidIDR, batch.FinePaymentBatchTotalIDR)).Error; err != nil {
		return err
	}

	batch.FinePaymentBatchStatus = model.BatchStatusPaid
	batch.FinePaymentBatchVerifiedAt = &now
	return nil
}

// rejectLocked: metode berbasis bukti kembali ke awaiting_proof agar
// user bisa unggah ulang; cash tetap pending_verification dengan catatan.
func (s *FinePaymentService) rejectLocked(tx *gorm.DB, batch *model.FinePaymentBatchModel, note string) error {
	nextBatchStatus, nextLoanStatus := rejectStatuses(batch.FinePaymentBatchMethod)

	updates := map[string]interface{}{
		"fine_payment_batch_note": note,
	}
	if nextBatchStatus != model.BatchStatusPendingVerification {
		updates["fine_payment_batch_status"] = nextBatchStatus
	}
	batch.FinePaymentBatchStatus = nextBatchStatus
	batch.FinePaymentBatchNote = &note

	res := tx.Model(&model.FinePaymentBatchModel{}).
		Where("fine_payment_batch_id = ? AND fine_payment_batch_status = ?",
			batch.FinePaymentBatchID, model.BatchStatusPendingVerification).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanService.ErrInvalidTransition
	}

	return tx.Model(&loanModel.LoanModel{}).
		Where("loan_fine_payment_batch_id = ?", batch.FinePaymentBatchID).
		Update("loan_fine_payment_status", nextLoanStatus).Error
}

// ============================
// Util
// ============================

func (s *FinePaymentService) classifyBatchMiss(tx *gorm.DB, batchID uuid.UUID) error {
	var count int64
	if err := tx.Model(&model.FinePaymentBatchModel{}).
		Where("fine_payment_batch_id = ?", batchID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return loanService.ErrNotFound
	}
	return loanService.ErrInvalidTransition
}

func (s *FinePaymentService) notify(userID uuid.UUID, title, message string, tags []string, batch *model.FinePaymentBatchModel) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Notify(notifService.Payload{
		UserID:  userID,
		Title:   title,
		Message: message,
		Tags:    tags,
		Data: map[string]interface{}{
			"fine_payment_batch_id": batch.FinePaymentBatchID.String(),
			"status":                batch.FinePaymentBatchStatus,
			"total_idr":             batch.FinePaymentBatchTotalIDR,
		},
	})
}
