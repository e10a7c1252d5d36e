package controller

import (
	"time"

	"perpusku_backend/internals/features/home/notifications/dto"
	"perpusku_backend/internals/features/home/notifications/model"
	helper "perpusku_backend/internals/helpers"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

var validate = validator.New()

// GET /api/u/notifications
func (ctl *NotificationController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.NotificationModel{}).
		Where("notification_user_id = ?", userID)

	if c.Query("unread") == "true" {
		q = q.Where("notification_read_at IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung notifikasi")
	}

	var rows []model.NotificationModel
	if err := q.
		Order("notification_created_at DESC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil notifikasi")
	}

	resp := make([]dto.NotificationResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, dto.ToNotificationResponse(&rows[i]))
	}

	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.Limit)
	return helper.JsonList(c, "ok", resp, &pagination)
}

// PATCH /api/u/notifications/:id/read
func (ctl *NotificationController) MarkRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	notifID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	now := time.Now()
	res := ctl.DB.Model(&model.NotificationModel{}).
		Where("notification_id = ? AND notification_user_id = ?", notifID, userID).
		Update("notification_read_at", now)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menandai notifikasi")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Notifikasi tidak ditemukan")
	}

	return helper.JsonUpdated(c, "Notifikasi ditandai sudah dibaca", fiber.Map{
		"notification_id":      notifID,
		"notification_read_at": now,
	})
}

// POST /api/u/notifications/subscriptions
func (ctl *NotificationController) Subscribe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ua := c.Get("User-Agent")
	sub := model.PushSubscriptionModel{
		PushSubscriptionUserID:   userID,
		PushSubscriptionEndpoint: req.Endpoint,
	}
	if req.Keys != nil {
		sub.PushSubscriptionKeys = datatypes.JSONMap(req.Keys)
	}
	if ua != "" {
		sub.PushSubscriptionUA = &ua
	}

	// Endpoint unik: kalau sudah ada (punya user lain atau lama), geser ke user ini.
	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.PushSubscriptionModel
		findErr := tx.
			Where("push_subscription_endpoint = ?", req.Endpoint).
			First(&existing).Error
		if findErr == nil {
			updates := map[string]interface{}{
				"push_subscription_user_id": userID,
			}
			if sub.PushSubscriptionKeys != nil {
				updates["push_subscription_keys"] = sub.PushSubscriptionKeys
			}
			if sub.PushSubscriptionUA != nil {
				updates["push_subscription_user_agent"] = *sub.PushSubscriptionUA
			}
			return tx.Model(&existing).Updates(updates).Error
		}
		if findErr != gorm.ErrRecordNotFound {
			return findErr
		}
		return tx.Create(&sub).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan subscription")
	}

	return helper.JsonCreated(c, "Subscription tersimpan", fiber.Map{
		"endpoint": req.Endpoint,
	})
}

// DELETE /api/u/notifications/subscriptions
func (ctl *NotificationController) Unsubscribe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.UnsubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res := ctl.DB.
		Where("push_subscription_user_id = ? AND push_subscription_endpoint = ?", userID, req.Endpoint).
		Delete(&model.PushSubscriptionModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus subscription")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Subscription tidak ditemukan")
	}

	return helper.JsonDeleted(c, "Subscription dihapus", fiber.Map{
		"endpoint": req.Endpoint,
	})
}
