package dto

import (
	"strings"
	"time"

	"perpusku_backend/internals/features/library/fine_payments/model"
	loanDTO "perpusku_backend/internals/features/library/loans/dto"

	"github.com/google/uuid"
)

// ========================
// Request DTO
// ========================

type InitiateBatchRequest struct {
	LoanIDs []uuid.UUID `json:"loan_ids" validate:"required,min=1,dive,required"`
	Method  string      `json:"method" validate:"required,oneof=bank qris cash"`
}

func (r *InitiateBatchRequest) Normalize() {
	r.Method = strings.ToLower(strings.TrimSpace(r.Method))
}

type VerifyBatchRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note" validate:"omitempty,max=500"`
}

func (r *VerifyBatchRequest) Normalize() {
	r.Note = strings.TrimSpace(r.Note)
}

// ========================
// Response DTO
// ========================

type FinePaymentBatchResponse struct {
	FinePaymentBatchID       uuid.UUID  `json:"fine_payment_batch_id"`
	FinePaymentBatchUserID   uuid.UUID  `json:"fine_payment_batch_user_id"`
	FinePaymentBatchTotalIDR int        `json:"fine_payment_batch_total_idr"`
	FinePaymentBatchMethod   string     `json:"fine_payment_batch_method"`
	FinePaymentBatchStatus   string     `json:"fine_payment_batch_status"`
	FinePaymentBatchProofURL *string    `json:"fine_payment_batch_proof_url,omitempty"`
	FinePaymentBatchNote     *string    `json:"fine_payment_batch_note,omitempty"`
	GatewayPaymentURL        *string    `json:"gateway_payment_url,omitempty"`
	VerifiedAt               *time.Time `json:"verified_at,omitempty"`
	CreatedAt                time.Time  `json:"created_at"`

	Loans []loanDTO.LoanResponse `json:"loans,omitempty"`
}

func ToFinePaymentBatchResponse(m *model.FinePaymentBatchModel, loans []loanDTO.LoanResponse) FinePaymentBatchResponse {
	return FinePaymentBatchResponse{
		FinePaymentBatchID:       m.FinePaymentBatchID,
		FinePaymentBatchUserID:   m.FinePaymentBatchUserID,
		FinePaymentBatchTotalIDR: m.FinePaymentBatchTotalIDR,
		FinePaymentBatchMethod:   m.FinePaymentBatchMethod,
		FinePaymentBatchStatus:   m.FinePaymentBatchStatus,
		FinePaymentBatchProofURL: m.FinePaymentBatchProofURL,
		FinePaymentBatchNote:     m.FinePaymentBatchNote,
		GatewayPaymentURL:        m.FinePaymentBatchGatewayURL,
		VerifiedAt:               m.FinePaymentBatchVerifiedAt,
		CreatedAt:                m.FinePaymentBatchCreatedAt,
		Loans:                    loans,
	}
}
