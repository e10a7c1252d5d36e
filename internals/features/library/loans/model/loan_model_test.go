package model

import (
	"testing"
	"time"
)

func TestIsLegalTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"requested dapat disetujui", LoanStatusRequested, LoanStatusApproved, true},
		{"requested dapat ditolak", LoanStatusRequested, LoanStatusRejected, true},
		{"approved lanjut ke taken", LoanStatusApproved, LoanStatusTaken, true},
		{"taken lanjut ke borrowing", LoanStatusTaken, LoanStatusBorrowing, true},
		{"borrowing lanjut ke ready_for_return", LoanStatusBorrowing, LoanStatusReadyForReturn, true},
		{"ready_for_return disetujui jadi returned", LoanStatusReadyForReturn, LoanStatusReturned, true},
		{"ready_for_return ditolak kembali borrowing", LoanStatusReadyForReturn, LoanStatusBorrowing, true},

		{"requested tidak bisa langsung borrowing", LoanStatusRequested, LoanStatusBorrowing, false},
		{"requested tidak bisa langsung returned", LoanStatusRequested, LoanStatusReturned, false},
		{"approved tidak bisa ditolak lagi", LoanStatusApproved, LoanStatusRejected, false},
		{"borrowing tidak bisa langsung returned", LoanStatusBorrowing, LoanStatusReturned, false},
		{"returned terminal", LoanStatusReturned, LoanStatusBorrowing, false},
		{"rejected terminal", LoanStatusRejected, LoanStatusApproved, false},
		{"overdue bukan status tersimpan", LoanStatusOverdueDerived, LoanStatusReturned, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLegalTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("IsLegalTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsActiveStatus(t *testing.T) {
	active := []string{
		LoanStatusRequested, LoanStatusApproved, LoanStatusTaken,
		LoanStatusBorrowing, LoanStatusReadyForReturn,
	}
	for _, s := range active {
		if !IsActiveStatus(s) {
			t.Errorf("IsActiveStatus(%q) = false, want true", s)
		}
	}

	terminal := []string{LoanStatusReturned, LoanStatusRejected, LoanStatusOverdueDerived}
	for _, s := range terminal {
		if IsActiveStatus(s) {
			t.Errorf("IsActiveStatus(%q) = true, want false", s)
		}
	}
}

func TestEffectiveStatus(t *testing.T) {
	due := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status string
		now    time.Time
		want   string
	}{
		{"borrowing sebelum jatuh tempo", LoanStatusBorrowing, due.Add(-time.Hour), LoanStatusBorrowing},
		{"borrowing lewat jatuh tempo jadi overdue", LoanStatusBorrowing, due.Add(time.Hour), LoanStatusOverdueDerived},
		{"ready_for_return tidak berubah walau lewat tempo", LoanStatusReadyForReturn, due.Add(48 * time.Hour), LoanStatusReadyForReturn},
		{"returned tidak berubah", LoanStatusReturned, due.Add(48 * time.Hour), LoanStatusReturned},
		{"requested tidak berubah", LoanStatusRequested, due.Add(48 * time.Hour), LoanStatusRequested},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := LoanModel{
				LoanStatus:           tt.status,
				LoanExpectedReturnAt: due,
			}
			if got := loan.EffectiveStatus(tt.now); got != tt.want {
				t.Errorf("EffectiveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
