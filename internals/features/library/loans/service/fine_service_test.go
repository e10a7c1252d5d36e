package service

import (
	"testing"
	"time"

	"perpusku_backend/internals/features/library/loans/model"
)

var jakarta = mustLoadLocation("Asia/Jakarta")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, jakarta)
}

func TestLateDays(t *testing.T) {
	tests := []struct {
		name      string
		expected  time.Time
		reference time.Time
		want      int
	}{
		{
			name:      "dikembalikan sebelum jatuh tempo",
			expected:  at(2025, 3, 10, 12, 0),
			reference: at(2025, 3, 8, 9, 0),
			want:      0,
		},
		{
			name:      "tepat di hari jatuh tempo pagi",
			expected:  at(2025, 3, 10, 12, 0),
			reference: at(2025, 3, 10, 6, 0),
			want:      0,
		},
		{
			name:      "tepat di hari jatuh tempo malam",
			expected:  at(2025, 3, 10, 8, 0),
			reference: at(2025, 3, 10, 23, 59),
			want:      0,
		},
		{
			name:      "terlambat tiga hari, jam sama",
			expected:  at(2025, 3, 10, 14, 0),
			reference: at(2025, 3, 13, 14, 0),
			want:      3,
		},
		{
			name:      "terlambat satu hari walau hanya lewat beberapa menit kalender",
			expected:  at(2025, 3, 10, 23, 50),
			reference: at(2025, 3, 11, 0, 5),
			want:      1,
		},
		{
			name:      "jam tidak memperbesar denda di hari yang sama",
			expected:  at(2025, 3, 10, 6, 0),
			reference: at(2025, 3, 13, 23, 0),
			want:      3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LateDays(tt.expected, tt.reference, jakarta)
			if got != tt.want {
				t.Errorf("LateDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPenalty(t *testing.T) {
	const perDay = 1000

	tests := []struct {
		name      string
		expected  time.Time
		reference time.Time
		want      int
	}{
		{"tidak terlambat", at(2025, 3, 10, 12, 0), at(2025, 3, 10, 18, 0), 0},
		{"terlambat lima hari", at(2025, 3, 10, 12, 0), at(2025, 3, 15, 12, 0), 5000},
		{"terlambat tiga hari beda jam", at(2025, 3, 10, 23, 0), at(2025, 3, 13, 1, 0), 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Penalty(tt.expected, tt.reference, perDay, jakarta)
			if got != tt.want {
				t.Errorf("Penalty() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPenaltyIdempotent(t *testing.T) {
	expected := at(2025, 3, 10, 12, 0)
	reference := at(2025, 3, 15, 12, 0)

	first := Penalty(expected, reference, 1000, jakarta)
	second := Penalty(expected, reference, 1000, jakarta)
	if first != second {
		t.Errorf("Penalty tidak idempoten: %d vs %d", first, second)
	}
}

func TestRunningFine(t *testing.T) {
	const perDay = 1000
	now := at(2025, 3, 15, 10, 0)
	due := at(2025, 3, 12, 10, 0)

	tests := []struct {
		name string
		loan model.LoanModel
		want int
	}{
		{
			name: "borrowing terlambat tiga hari",
			loan: model.LoanModel{
				LoanStatus:           model.LoanStatusBorrowing,
				LoanExpectedReturnAt: due,
			},
			want: 3000,
		},
		{
			name: "ready_for_return tetap berjalan selama menunggu admin",
			loan: model.LoanModel{
				LoanStatus:           model.LoanStatusReadyForReturn,
				LoanExpectedReturnAt: due,
			},
			want: 3000,
		},
		{
			name: "denda manual tertunda ikut terhitung",
			loan: model.LoanModel{
				LoanStatus:               model.LoanStatusBorrowing,
				LoanExpectedReturnAt:     due,
				LoanPendingManualFineIDR: 5000,
			},
			want: 8000,
		},
		{
			name: "requested belum menimbulkan denda",
			loan: model.LoanModel{
				LoanStatus:           model.LoanStatusRequested,
				LoanExpectedReturnAt: due,
			},
			want: 0,
		},
		{
			name: "returned dibaca dari nilai tersimpan, bukan fungsi ini",
			loan: model.LoanModel{
				LoanStatus:           model.LoanStatusReturned,
				LoanExpectedReturnAt: due,
				LoanFineAmountIDR:    9000,
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RunningFine(&tt.loan, now, perDay, jakarta)
			if got != tt.want {
				t.Errorf("RunningFine() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestActiveFineTotal(t *testing.T) {
	const perDay = 1000
	now := at(2025, 3, 15, 10, 0)

	loans := []model.LoanModel{
		{
			// berjalan: terlambat 3 hari
			LoanStatus:           model.LoanStatusBorrowing,
			LoanExpectedReturnAt: at(2025, 3, 12, 10, 0),
		},
		{
			// sudah dikembalikan, denda 4000 belum dibayar
			LoanStatus:            model.LoanStatusReturned,
			LoanExpectedReturnAt:  at(2025, 3, 1, 10, 0),
			LoanFineAmountIDR:     4000,
			LoanFinePaymentStatus: model.FinePaymentStatusNone,
		},
		{
			// sudah dibayar, tidak boleh ikut
			LoanStatus:            model.LoanStatusReturned,
			LoanExpectedReturnAt:  at(2025, 2, 1, 10, 0),
			LoanFineAmountIDR:     7000,
			LoanFinePaymentStatus: model.FinePaymentStatusPaid,
		},
		{
			// belum jatuh tempo
			LoanStatus:           model.LoanStatusBorrowing,
			LoanExpectedReturnAt: at(2025, 3, 20, 10, 0),
		},
	}

	got := ActiveFineTotal(loans, now, perDay, jakarta)
	want := 3000 + 4000
	if got != want {
		t.Errorf("ActiveFineTotal() = %d, want %d", got, want)
	}
}
