package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================
// Status pinjaman (enum tertutup)
// ============================
//
// "overdue" sengaja TIDAK ada di daftar ini: overdue adalah klasifikasi
// turunan saat dibaca (now > expected return & status masih aktif),
// bukan status yang disimpan. Lihat EffectiveStatus.
const (
	LoanStatusRequested      = "requested"
	LoanStatusApproved       = "approved"
	LoanStatusTaken          = "taken"
	LoanStatusBorrowing      = "borrowing"
	LoanStatusReadyForReturn = "ready_for_return"
	LoanStatusReturned       = "returned"
	LoanStatusRejected       = "rejected"

	// Hanya untuk tampilan / filter baca.
	LoanStatusOverdueDerived = "overdue"
)

// ============================
// Status pembayaran denda per loan
// ============================
const (
	FinePaymentStatusNone                = "none"
	FinePaymentStatusAwaitingProof       = "awaiting_proof"
	FinePaymentStatusPendingVerification = "pending_verification"
	FinePaymentStatusPaid                = "paid"
)

const (
	FinePaymentMethodBank = "bank"
	FinePaymentMethodQRIS = "qris"
	FinePaymentMethodCash = "cash"
)

// ActiveLoanStatuses = semua status non-terminal.
var ActiveLoanStatuses = []string{
	LoanStatusRequested,
	LoanStatusApproved,
	LoanStatusTaken,
	LoanStatusBorrowing,
	LoanStatusReadyForReturn,
}

// legalTransitions memetakan status asal → status tujuan yang sah.
// Semua perubahan status wajib lewat peta ini; update di DB selalu
// bersyarat `WHERE loan_status = <asal>` supaya penulis kedua yang
// kalah balapan mendapat InvalidTransition, bukan menimpa diam-diam.
var legalTransitions = map[string][]string{
	LoanStatusRequested:      {LoanStatusApproved, LoanStatusRejected},
	LoanStatusApproved:       {LoanStatusTaken},
	LoanStatusTaken:          {LoanStatusBorrowing},
	LoanStatusBorrowing:      {LoanStatusReadyForReturn},
	LoanStatusReadyForReturn: {LoanStatusReturned, LoanStatusBorrowing},
}

func IsLegalTransition(from, to string) bool {
	for _, t := range legalTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func IsActiveStatus(status string) bool {
	for _, s := range ActiveLoanStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type LoanModel struct {
	LoanID     uuid.UUID `gorm:"column:loan_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"loan_id"`
	LoanCode   string    `gorm:"column:loan_code;type:varchar(32);not null;uniqueIndex:uq_loan_code" json:"loan_code"`
	LoanUserID uuid.UUID `gorm:"column:loan_user_id;type:uuid;not null;index:idx_loan_user" json:"loan_user_id"`
	LoanBookID uuid.UUID `gorm:"column:loan_book_id;type:uuid;not null;index:idx_loan_book" json:"loan_book_id"`

	LoanStatus string `gorm:"column:loan_status;type:varchar(20);not null;default:'requested';index:idx_loan_status" json:"loan_status"`

	LoanRequestedAt      time.Time  `gorm:"column:loan_requested_at;not null" json:"loan_requested_at"`
	LoanExpectedReturnAt time.Time  `gorm:"column:loan_expected_return_at;not null" json:"loan_expected_return_at"`
	LoanApprovedAt       *time.Time `gorm:"column:loan_approved_at" json:"loan_approved_at,omitempty"`
	LoanTakenAt          *time.Time `gorm:"column:loan_taken_at" json:"loan_taken_at,omitempty"`
	LoanActualReturnAt   *time.Time `gorm:"column:loan_actual_return_at" json:"loan_actual_return_at,omitempty"`

	// Bukti pengembalian dari user (foto + metadata GPS).
	LoanReturnProofURL     *string           `gorm:"column:loan_return_proof_url;type:text" json:"loan_return_proof_url,omitempty"`
	LoanReturnProofMeta    datatypes.JSONMap `gorm:"column:loan_return_proof_meta;type:jsonb" json:"loan_return_proof_meta,omitempty"`
	LoanReturnSubmittedAt  *time.Time        `gorm:"column:loan_return_submitted_at" json:"loan_return_submitted_at,omitempty"`
	LoanReviewNote         *string           `gorm:"column:loan_review_note;type:text" json:"loan_review_note,omitempty"`
	LoanAdminProofURL      *string           `gorm:"column:loan_admin_proof_url;type:text" json:"loan_admin_proof_url,omitempty"`
	LoanDecisionNote       *string           `gorm:"column:loan_decision_note;type:text" json:"loan_decision_note,omitempty"`

	// Denda. FineAmount terisi final saat status returned.
	// PendingManualFine menampung denda manual yang dijatuhkan admin
	// saat menolak bukti pengembalian; ikut dijumlahkan saat approve.
	LoanFineAmountIDR        int     `gorm:"column:loan_fine_amount_idr;not null;default:0" json:"loan_fine_amount_idr"`
	LoanPendingManualFineIDR int     `gorm:"column:loan_pending_manual_fine_idr;not null;default:0" json:"loan_pending_manual_fine_idr"`
	LoanFineNote             *string `gorm:"column:loan_fine_note;type:text" json:"loan_fine_note,omitempty"`

	LoanFinePaymentStatus  string     `gorm:"column:loan_fine_payment_status;type:varchar(25);not null;default:'none';index:idx_loan_fine_payment_status" json:"loan_fine_payment_status"`
	LoanFinePaymentMethod  *string    `gorm:"column:loan_fine_payment_method;type:varchar(10)" json:"loan_fine_payment_method,omitempty"`
	LoanFinePaymentAt      *time.Time `gorm:"column:loan_fine_payment_at" json:"loan_fine_payment_at,omitempty"`
	LoanFinePaymentBatchID *uuid.UUID `gorm:"column:loan_fine_payment_batch_id;type:uuid;index:idx_loan_fine_payment_batch" json:"loan_fine_payment_batch_id,omitempty"`

	LoanCreatedAt time.Time      `gorm:"column:loan_created_at;autoCreateTime" json:"loan_created_at"`
	LoanUpdatedAt time.Time      `gorm:"column:loan_updated_at;autoUpdateTime" json:"loan_updated_at"`
	LoanDeletedAt gorm.DeletedAt `gorm:"column:loan_deleted_at;index" json:"-"`
}

func (LoanModel) TableName() string {
	return "loans"
}

// EffectiveStatus mengembalikan status untuk tampilan: borrowing yang
// sudah lewat tanggal kembali dilaporkan sebagai overdue tanpa
// mengubah apa pun di DB.
func (m *LoanModel) EffectiveStatus(now time.Time) string {
	if m.LoanStatus == LoanStatusBorrowing && now.After(m.LoanExpectedReturnAt) {
		return LoanStatusOverdueDerived
	}
	return m.LoanStatus
}

func (m *LoanModel) IsActive() bool {
	return IsActiveStatus(m.LoanStatus)
}
