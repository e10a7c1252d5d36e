package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status batch mengikuti finePaymentStatus loan, diterapkan atomik ke
// seluruh loan anggota.
const (
	BatchStatusAwaitingProof       = "awaiting_proof"
	BatchStatusPendingVerification = "pending_verification"
	BatchStatusPaid                = "paid"
)

// FinePaymentBatchModel mengelompokkan denda beberapa loan dalam satu
// upaya pembayaran. Total dibekukan saat inisiasi dan tidak pernah
// dihitung ulang — perubahan denda berjalan di loan lain tidak boleh
// menyentuh batch yang sudah berjalan.
type FinePaymentBatchModel struct {
	FinePaymentBatchID     uuid.UUID `gorm:"column:fine_payment_batch_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"fine_payment_batch_id"`
	FinePaymentBatchUserID uuid.UUID `gorm:"column:fine_payment_batch_user_id;type:uuid;not null;index:idx_fine_payment_batch_user" json:"fine_payment_batch_user_id"`

	FinePaymentBatchTotalIDR int    `gorm:"column:fine_payment_batch_total_idr;not null;check:fine_payment_batch_total_idr > 0" json:"fine_payment_batch_total_idr"`
	FinePaymentBatchMethod   string `gorm:"column:fine_payment_batch_method;type:varchar(10);not null" json:"fine_payment_batch_method"`
	FinePaymentBatchStatus   string `gorm:"column:fine_payment_batch_status;type:varchar(25);not null;index:idx_fine_payment_batch_status" json:"fine_payment_batch_status"`

	FinePaymentBatchProofURL *string `gorm:"column:fine_payment_batch_proof_url;type:text" json:"fine_payment_batch_proof_url,omitempty"`
	FinePaymentBatchNote     *string `gorm:"column:fine_payment_batch_note;type:text" json:"fine_payment_batch_note,omitempty"`

	// Bantuan QRIS via Midtrans. Link pembayaran hanya mempermudah —
	// bukti transfer tetap wajib diunggah dan verifikasi tetap manual.
	FinePaymentBatchGatewayToken *string `gorm:"column:fine_payment_batch_gateway_token;type:text" json:"fine_payment_batch_gateway_token,omitempty"`
	FinePaymentBatchGatewayURL   *string `gorm:"column:fine_payment_batch_gateway_url;type:text" json:"fine_payment_batch_gateway_url,omitempty"`

	FinePaymentBatchVerifiedAt *time.Time `gorm:"column:fine_payment_batch_verified_at" json:"fine_payment_batch_verified_at,omitempty"`

	FinePaymentBatchCreatedAt time.Time      `gorm:"column:fine_payment_batch_created_at;autoCreateTime" json:"fine_payment_batch_created_at"`
	FinePaymentBatchUpdatedAt time.Time      `gorm:"column:fine_payment_batch_updated_at;autoUpdateTime" json:"fine_payment_batch_updated_at"`
	FinePaymentBatchDeletedAt gorm.DeletedAt `gorm:"column:fine_payment_batch_deleted_at;index" json:"-"`
}

func (FinePaymentBatchModel) TableName() string {
	return "fine_payment_batches"
}

func IsValidBatchMethod(method string) bool {
	switch method {
	case "bank", "qris", "cash":
		return true
	}
	return false
}

// InitialStatus: bank/qris butuh bukti dulu; cash langsung menunggu
// verifikasi admin (bukti dikumpulkan belakangan di loket).
func InitialStatus(method string) string {
	if method == "cash" {
		return BatchStatusPendingVerification
	}
	return BatchStatusAwaitingProof
}
