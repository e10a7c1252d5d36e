package dto

import (
	"testing"
	"time"

	"perpusku_backend/internals/features/library/loans/model"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestReturnProofMetaToMap(t *testing.T) {
	tests := []struct {
		name string
		req  ReturnProofMetaRequest
		want map[string]interface{}
	}{
		{
			name: "kosong menghasilkan nil",
			req:  ReturnProofMetaRequest{},
			want: nil,
		},
		{
			name: "string kosong tidak ikut",
			req: ReturnProofMetaRequest{
				Address:    strPtr("   "),
				CapturedAt: strPtr(""),
			},
			want: nil,
		},
		{
			name: "koordinat lengkap",
			req: ReturnProofMetaRequest{
				Latitude:  floatPtr(-6.2),
				Longitude: floatPtr(106.8),
				AccuracyM: floatPtr(12.5),
				Address:   strPtr("  Perpustakaan Pusat  "),
			},
			want: map[string]interface{}{
				"latitude":   -6.2,
				"longitude":  106.8,
				"accuracy_m": 12.5,
				"address":    "Perpustakaan Pusat",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.req.ToMap()
			if tt.want == nil {
				if got != nil {
					t.Fatalf("ToMap() = %v, want nil", got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ToMap() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("ToMap()[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestToLoanResponseEffectiveStatus(t *testing.T) {
	due := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	loan := model.LoanModel{
		LoanStatus:           model.LoanStatusBorrowing,
		LoanExpectedReturnAt: due,
	}

	resp := ToLoanResponse(&loan, due.Add(24*time.Hour), 1000)
	if resp.LoanStatus != model.LoanStatusBorrowing {
		t.Errorf("status tersimpan berubah: %q", resp.LoanStatus)
	}
	if resp.LoanEffectiveStatus != model.LoanStatusOverdueDerived {
		t.Errorf("status efektif = %q, want overdue", resp.LoanEffectiveStatus)
	}
	if resp.LoanRunningFineIDR != 1000 {
		t.Errorf("denda berjalan = %d, want 1000", resp.LoanRunningFineIDR)
	}
}
