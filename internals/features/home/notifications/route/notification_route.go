package route

import (
	notifCtrl "perpusku_backend/internals/features/home/notifications/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// NotificationUserRoutes dipasang di group /api/u.
func NotificationUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := notifCtrl.NewNotificationController(db)

	notif := r.Group("/notifications")
	notif.Get("/", ctrl.ListMine)
	notif.Patch("/:id/read", ctrl.MarkRead)
	notif.Post("/subscriptions", ctrl.Subscribe)
	notif.Delete("/subscriptions", ctrl.Unsubscribe)
}
