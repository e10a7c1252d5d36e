package service

import (
	"time"

	"perpusku_backend/internals/features/library/loans/model"
)

// ============================
// Mesin hitung denda
// ============================
//
// Semata fungsi murni: hitung selisih hari kalender lalu kalikan tarif.
// Jam diabaikan — hanya batas tanggal yang dihitung, supaya pengembalian
// jam 23.59 dan jam 00.01 di hari yang sama kena denda yang sama.
// Penyimpanan hasil adalah urusan pemanggil.

// startOfDay memotong t ke 00:00 pada zona loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// LateDays menghitung jumlah hari kalender keterlambatan, minimal 0.
func LateDays(expectedReturn, reference time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	expected := startOfDay(expectedReturn, loc)
	ref := startOfDay(reference, loc)
	days := int(ref.Sub(expected).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Penalty = hari terlambat × tarif per hari.
func Penalty(expectedReturn, reference time.Time, perDayIDR int, loc *time.Location) int {
	return LateDays(expectedReturn, reference, loc) * perDayIDR
}

// RunningFine menghitung denda berjalan sebuah loan aktif per saat now.
// Loan yang sudah returned memakai LoanFineAmountIDR tersimpan, bukan
// fungsi ini.
//
// Catatan produk: loan ready_for_return tetap berjalan dendanya sampai
// admin memverifikasi — user ikut menanggung latensi review admin.
// Perilaku ini dipertahankan apa adanya, menunggu keputusan produk.
func RunningFine(loan *model.LoanModel, now time.Time, perDayIDR int, loc *time.Location) int {
	switch loan.LoanStatus {
	case model.LoanStatusBorrowing, model.LoanStatusReadyForReturn:
		return Penalty(loan.LoanExpectedReturnAt, now, perDayIDR, loc) + loan.LoanPendingManualFineIDR
	default:
		return 0
	}
}

// ActiveFineTotal = denda berjalan semua loan aktif + denda tersimpan
// yang belum dibayar pada loan returned.
func ActiveFineTotal(loans []model.LoanModel, now time.Time, perDayIDR int, loc *time.Location) int {
	total := 0
	for i := range loans {
		l := &loans[i]
		if l.LoanStatus == model.LoanStatusReturned {
			if l.LoanFinePaymentStatus != model.FinePaymentStatusPaid {
				total += l.LoanFineAmountIDR
			}
			continue
		}
		total += RunningFine(l, now, perDayIDR, loc)
	}
	return total
}
