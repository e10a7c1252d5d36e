package dto

import (
	"strings"
	"time"

	"perpusku_backend/internals/features/library/loans/model"

	"github.com/google/uuid"
)

// ========================
// Request DTO
// ========================

type RequestLoanRequest struct {
	BookID           uuid.UUID `json:"book_id" validate:"required"`
	ExpectedReturnAt time.Time `json:"expected_return_at" validate:"required"`
}

type LoanDecisionRequest struct {
	Note *string `json:"note" validate:"omitempty,max=500"`
}

func (r *LoanDecisionRequest) Normalize() {
	r.Note = trimPtr(r.Note)
}

// Metadata GPS menempel di bukti pengembalian, bukan tabel sendiri.
type ReturnProofMetaRequest struct {
	Latitude   *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	AccuracyM  *float64 `json:"accuracy_m" validate:"omitempty,gte=0"`
	CapturedAt *string  `json:"captured_at"`
	Address    *string  `json:"address" validate:"omitempty,max=500"`
}

func (r *ReturnProofMetaRequest) ToMap() map[string]interface{} {
	m := map[string]interface{}{}
	if r.Latitude != nil {
		m["latitude"] = *r.Latitude
	}
	if r.Longitude != nil {
		m["longitude"] = *r.Longitude
	}
	if r.AccuracyM != nil {
		m["accuracy_m"] = *r.AccuracyM
	}
	if r.CapturedAt != nil && strings.TrimSpace(*r.CapturedAt) != "" {
		m["captured_at"] = strings.TrimSpace(*r.CapturedAt)
	}
	if r.Address != nil && strings.TrimSpace(*r.Address) != "" {
		m["address"] = strings.TrimSpace(*r.Address)
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

type ApproveReturnRequest struct {
	ManualFineIDR int    `json:"manual_fine_idr" validate:"omitempty,min=0"`
	FineReason    string `json:"fine_reason" validate:"omitempty,max=500"`
}

func (r *ApproveReturnRequest) Normalize() {
	r.FineReason = strings.TrimSpace(r.FineReason)
}

type RejectReturnRequest struct {
	Reason  string `json:"reason" validate:"required,min=3,max=500"`
	FineIDR int    `json:"fine_idr" validate:"omitempty,min=0"`
}

func (r *RejectReturnRequest) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// ========================
// Response DTO
// ========================

type LoanResponse struct {
	LoanID     uuid.UUID `json:"loan_id"`
	LoanCode   string    `json:"loan_code"`
	LoanUserID uuid.UUID `json:"loan_user_id"`
	LoanBookID uuid.UUID `json:"loan_book_id"`

	// Status tersimpan + status efektif (borrowing lewat jatuh tempo
	// tampil sebagai overdue).
	LoanStatus          string `json:"loan_status"`
	LoanEffectiveStatus string `json:"loan_effective_status"`

	LoanRequestedAt      time.Time  `json:"loan_requested_at"`
	LoanExpectedReturnAt time.Time  `json:"loan_expected_return_at"`
	LoanApprovedAt       *time.Time `json:"loan_approved_at,omitempty"`
	LoanTakenAt          *time.Time `json:"loan_taken_at,omitempty"`
	LoanActualReturnAt   *time.Time `json:"loan_actual_return_at,omitempty"`

	LoanReturnProofURL    *string                `json:"loan_return_proof_url,omitempty"`
	LoanReturnProofMeta   map[string]interface{} `json:"loan_return_proof_meta,omitempty"`
	LoanReturnSubmittedAt *time.Time             `json:"loan_return_submitted_at,omitempty"`
	LoanReviewNote        *string                `json:"loan_review_note,omitempty"`
	LoanAdminProofURL     *string                `json:"loan_admin_proof_url,omitempty"`
	LoanDecisionNote      *string                `json:"loan_decision_note,omitempty"`

	LoanFineAmountIDR        int     `json:"loan_fine_amount_idr"`
	LoanRunningFineIDR       int     `json:"loan_running_fine_idr"`
	LoanPendingManualFineIDR int     `json:"loan_pending_manual_fine_idr"`
	LoanFineNote             *string `json:"loan_fine_note,omitempty"`

	LoanFinePaymentStatus  string     `json:"loan_fine_payment_status"`
	LoanFinePaymentMethod  *string    `json:"loan_fine_payment_method,omitempty"`
	LoanFinePaymentAt      *time.Time `json:"loan_fine_payment_at,omitempty"`
	LoanFinePaymentBatchID *uuid.UUID `json:"loan_fine_payment_batch_id,omitempty"`

	LoanCreatedAt time.Time `json:"loan_created_at"`
}

func ToLoanResponse(m *model.LoanModel, now time.Time, runningFineIDR int) LoanResponse {
	return LoanResponse{
		LoanID:                   m.LoanID,
		LoanCode:                 m.LoanCode,
		LoanUserID:               m.LoanUserID,
		LoanBookID:               m.LoanBookID,
		LoanStatus:               m.LoanStatus,
		LoanEffectiveStatus:      m.EffectiveStatus(now),
		LoanRequestedAt:          m.LoanRequestedAt,
		LoanExpectedReturnAt:     m.LoanExpectedReturnAt,
		LoanApprovedAt:           m.LoanApprovedAt,
		LoanTakenAt:              m.LoanTakenAt,
		LoanActualReturnAt:       m.LoanActualReturnAt,
		LoanReturnProofURL:       m.LoanReturnProofURL,
		LoanReturnProofMeta:      m.LoanReturnProofMeta,
		LoanReturnSubmittedAt:    m.LoanReturnSubmittedAt,
		LoanReviewNote:           m.LoanReviewNote,
		LoanAdminProofURL:        m.LoanAdminProofURL,
		LoanDecisionNote:         m.LoanDecisionNote,
		LoanFineAmountIDR:        m.LoanFineAmountIDR,
		LoanRunningFineIDR:       runningFineIDR,
		LoanPendingManualFineIDR: m.LoanPendingManualFineIDR,
		LoanFineNote:             m.LoanFineNote,
		LoanFinePaymentStatus:    m.LoanFinePaymentStatus,
		LoanFinePaymentMethod:    m.LoanFinePaymentMethod,
		LoanFinePaymentAt:        m.LoanFinePaymentAt,
		LoanFinePaymentBatchID:   m.LoanFinePaymentBatchID,
		LoanCreatedAt:            m.LoanCreatedAt,
	}
}
