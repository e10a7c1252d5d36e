package details

import (
	notifRoute "perpusku_backend/internals/features/home/notifications/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func NotificationRoutes(r fiber.Router, db *gorm.DB) {
	notifRoute.NotificationUserRoutes(r, db)
}
