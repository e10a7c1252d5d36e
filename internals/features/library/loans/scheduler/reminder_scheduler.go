package scheduler

import (
	"log"
	"strconv"
	"time"

	"perpusku_backend/internals/configs"
	notifService "perpusku_backend/internals/features/home/notifications/service"
	"perpusku_backend/internals/features/library/loans/model"

	"gorm.io/gorm"
)

// StartDueReminderScheduler menyapu pinjaman aktif secara berkala dan
// mengirim pengingat jatuh tempo. Hanya membaca tabel loans — tidak
// pernah mengubah status pinjaman.
func StartDueReminderScheduler(db *gorm.DB, notifier *notifService.Notifier) {
	intervalHours := 6
	if v := configs.GetEnv("DUE_REMINDER_INTERVAL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			intervalHours = n
		}
	}
	// Pengingat mulai H-1 sebelum jatuh tempo.
	leadDays := 1
	if v := configs.GetEnv("DUE_REMINDER_LEAD_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			leadDays = n
		}
	}

	go func() {
		log.Printf("[REMINDER] Scheduler pengingat jatuh tempo aktif (tiap %d jam, H-%d)", intervalHours, leadDays)
		ticker := time.NewTicker(time.Duration(intervalHours) * time.Hour)
		defer ticker.Stop()

		for {
			sweep(db, notifier, leadDays)
			<-ticker.C
		}
	}()
}

func sweep(db *gorm.DB, notifier *notifService.Notifier, leadDays int) {
	now := time.Now()
	horizon := now.AddDate(0, 0, leadDays)

	var loans []model.LoanModel
	if err := db.
		Where("loan_status = ? AND loan_expected_return_at <= ?",
			model.LoanStatusBorrowing, horizon).
		Find(&loans).Error; err != nil {
		log.Printf("[REMINDER] Gagal mengambil pinjaman aktif: %v", err)
		return
	}
	if len(loans) == 0 {
		return
	}

	sent := 0
	for i := range loans {
		l := &loans[i]
		// Satu pengingat per loan per hari kalender.
		if alreadyRemindedToday(db, l, now) {
			continue
		}

		var title, msg string
		if now.After(l.LoanExpectedReturnAt) {
			title = "Pinjaman terlambat"
			msg = "Pinjaman " + l.LoanCode + " sudah melewati tanggal kembali. Denda berjalan setiap hari keterlambatan."
		} else {
			title = "Pinjaman segera jatuh tempo"
			msg = "Pinjaman " + l.LoanCode + " jatuh tempo pada " +
				l.LoanExpectedReturnAt.Format("02 Jan 2006") + "."
		}

		notifier.Notify(notifService.Payload{
			UserID:  l.LoanUserID,
			Title:   title,
			Message: msg,
			Tags:    []string{"loan", "due_reminder"},
			Data: map[string]interface{}{
				"loan_id":   l.LoanID.String(),
				"loan_code": l.LoanCode,
			},
		})
		sent++
	}
	if sent > 0 {
		log.Printf("[REMINDER] %d pengingat jatuh tempo terkirim", sent)
	}
}

func alreadyRemindedToday(db *gorm.DB, l *model.LoanModel, now time.Time) bool {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var count int64
	err := db.Table("notifications").
		Where("notification_user_id = ? AND notification_created_at >= ?", l.LoanUserID, startOfDay).
		Where("notification_tags @> ARRAY['due_reminder']::text[]").
		Where("notification_data ->> 'loan_id' = ?", l.LoanID.String()).
		Count(&count).Error
	if err != nil {
		log.Printf("[REMINDER] Gagal cek pengingat hari ini: %v", err)
		return true
	}
	return count > 0
}
