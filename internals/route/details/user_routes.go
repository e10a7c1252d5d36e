package details

import (
	userRoute "perpusku_backend/internals/features/users/user/route"
	"perpusku_backend/internals/helpers/oss"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func UserRoutes(r fiber.Router, db *gorm.DB, ossSvc *oss.OSSService) {
	userRoute.UserRoutes(r, db, ossSvc)
}

func UserAdminRoutes(r fiber.Router, db *gorm.DB, ossSvc *oss.OSSService) {
	userRoute.UserAdminRoutes(r, db, ossSvc)
}
