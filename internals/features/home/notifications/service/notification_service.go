package service

import (
	"log"
	"time"

	notifModel "perpusku_backend/internals/features/home/notifications/model"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notifier menulis notifikasi ke DB lalu mencoba push ke endpoint
// subscription user. Baris DB adalah sumber kebenaran — push hanya
// best-effort, gagal push tidak membatalkan apa pun.
type Notifier struct {
	DB *gorm.DB
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{DB: db}
}

type Payload struct {
	UserID  uuid.UUID
	Title   string
	Message string
	Tags    []string
	Data    map[string]interface{}
}

// Record menulis baris notifikasi memakai tx milik caller, sehingga
// notifikasi audit (mis. bukti pembayaran masuk) ikut commit/rollback
// bersama perubahan domainnya.
func (n *Notifier) Record(tx *gorm.DB, p Payload) (*notifModel.NotificationModel, error) {
	row := &notifModel.NotificationModel{
		NotificationUserID:  p.UserID,
		NotificationTitle:   p.Title,
		NotificationMessage: p.Message,
		NotificationTags:    p.Tags,
	}
	if p.Data != nil {
		row.NotificationData = datatypes.JSONMap(p.Data)
	}
	if err := tx.Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Notify menulis notifikasi via koneksi utama lalu menjadwalkan push
// asinkron ke semua subscription user tersebut.
func (n *Notifier) Notify(p Payload) {
	row, err := n.Record(n.DB, p)
	if err != nil {
		log.Printf("[NOTIF] gagal simpan notifikasi user=%s: %v", p.UserID, err)
		return
	}
	go n.pushToSubscribers(p.UserID, row)
}

// PushAfterCommit dipakai setelah tx dengan Record sudah commit.
func (n *Notifier) PushAfterCommit(row *notifModel.NotificationModel) {
	if row == nil {
		return
	}
	go n.pushToSubscribers(row.NotificationUserID, row)
}

func (n *Notifier) pushToSubscribers(userID uuid.UUID, row *notifModel.NotificationModel) {
	var subs []notifModel.PushSubscriptionModel
	if err := n.DB.
		Where("push_subscription_user_id = ?", userID).
		Find(&subs).Error; err != nil {
		log.Printf("[NOTIF] gagal ambil subscription user=%s: %v", userID, err)
		return
	}
	if len(subs) == 0 {
		return
	}

	body, err := sonic.Marshal(fiber.Map{
		"notification_id": row.NotificationID,
		"title":           row.NotificationTitle,
		"message":         row.NotificationMessage,
		"tags":            row.NotificationTags,
		"data":            row.NotificationData,
	})
	if err != nil {
		log.Printf("[NOTIF] gagal encode payload push: %v", err)
		return
	}

	for _, sub := range subs {
		agent := fiber.Post(sub.PushSubscriptionEndpoint)
		agent.Timeout(5 * time.Second)
		agent.ContentType(fiber.MIMEApplicationJSON)
		agent.Body(body)
		if err := agent.Parse(); err != nil {
			log.Printf("[NOTIF] endpoint tidak valid %s: %v", sub.PushSubscriptionEndpoint, err)
			continue
		}
		status, _, errs := agent.Bytes()
		if len(errs) > 0 {
			log.Printf("[NOTIF] push gagal ke %s: %v", sub.PushSubscriptionEndpoint, errs[0])
			continue
		}
		if status >= 400 {
			log.Printf("[NOTIF] push ditolak (%d) oleh %s", status, sub.PushSubscriptionEndpoint)
		}
	}
}
