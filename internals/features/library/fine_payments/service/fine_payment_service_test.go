package service

import (
	"errors"
	"testing"

	"perpusku_backend/internals/features/library/fine_payments/model"
	loanModel "perpusku_backend/internals/features/library/loans/model"
	loanService "perpusku_backend/internals/features/library/loans/service"

	"github.com/google/uuid"
)

func TestBatchLoanEligibility(t *testing.T) {
	otherBatch := uuid.New()

	tests := []struct {
		name    string
		loan    loanModel.LoanModel
		wantErr error // nil = lolos
	}{
		{
			name: "loan returned dengan denda belum dibayar lolos",
			loan: loanModel.LoanModel{
				LoanCode:              "PJM-20260901-AAAAAA",
				LoanStatus:            loanModel.LoanStatusReturned,
				LoanFineAmountIDR:     5000,
				LoanFinePaymentStatus: loanModel.FinePaymentStatusNone,
			},
		},
		{
			name: "loan masih borrowing ditolak",
			loan: loanModel.LoanModel{
				LoanStatus:        loanModel.LoanStatusBorrowing,
				LoanFineAmountIDR: 5000,
			},
			wantErr: loanService.ErrValidation,
		},
		{
			name: "loan tanpa denda ditolak",
			loan: loanModel.LoanModel{
				LoanStatus:        loanModel.LoanStatusReturned,
				LoanFineAmountIDR: 0,
			},
			wantErr: loanService.ErrValidation,
		},
		{
			name: "denda sudah dibayar ditolak",
			loan: loanModel.LoanModel{
				LoanStatus:            loanModel.LoanStatusReturned,
				LoanFineAmountIDR:     5000,
				LoanFinePaymentStatus: loanModel.FinePaymentStatusPaid,
			},
			wantErr: loanService.ErrConflict,
		},
		{
			name: "loan sudah terkunci batch lain ditolak",
			loan: loanModel.LoanModel{
				LoanStatus:             loanModel.LoanStatusReturned,
				LoanFineAmountIDR:      5000,
				LoanFinePaymentStatus:  loanModel.FinePaymentStatusAwaitingProof,
				LoanFinePaymentBatchID: &otherBatch,
			},
			wantErr: loanService.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := batchLoanEligibility(&tt.loan)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("batchLoanEligibility() = %v, mau nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("batchLoanEligibility() = %v, mau %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeltaUnpaidAfterPayment(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    int
	}{
		{"bayar persis melunasi", 15000, 15000, 0},
		{"bayar sebagian menyisakan delta", 15000, 5000, 10000},
		{"total melebihi delta dilantai di nol", 5000, 15000, 0},
		{"delta sudah nol tetap nol", 0, 5000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deltaUnpaidAfterPayment(tt.current, tt.total)
			if got != tt.want {
				t.Fatalf("deltaUnpaidAfterPayment(%d, %d) = %d, mau %d",
					tt.current, tt.total, got, tt.want)
			}
		})
	}
}

func TestRejectStatuses(t *testing.T) {
	tests := []struct {
		method          string
		wantBatchStatus string
		wantLoanStatus  string
	}{
		{loanModel.FinePaymentMethodBank, model.BatchStatusAwaitingProof, loanModel.FinePaymentStatusAwaitingProof},
		{loanModel.FinePaymentMethodQRIS, model.BatchStatusAwaitingProof, loanModel.FinePaymentStatusAwaitingProof},
		{loanModel.FinePaymentMethodCash, model.BatchStatusPendingVerification, loanModel.FinePaymentStatusPendingVerification},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			batchStatus, loanStatus := rejectStatuses(tt.method)
			if batchStatus != tt.wantBatchStatus {
				t.Errorf("status batch = %s, mau %s", batchStatus, tt.wantBatchStatus)
			}
			if loanStatus != tt.wantLoanStatus {
				t.Errorf("status loan = %s, mau %s", loanStatus, tt.wantLoanStatus)
			}
		})
	}
}
