package route

import (
	userCtrl "perpusku_backend/internals/features/users/user/controller"
	"perpusku_backend/internals/helpers/oss"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserRoutes dipasang di group /api/u (sudah lewat AuthMiddleware).
func UserRoutes(r fiber.Router, db *gorm.DB, ossSvc *oss.OSSService) {
	ctrl := &userCtrl.UserController{DB: db, OSS: ossSvc}

	users := r.Group("/users")
	users.Get("/me", ctrl.GetMe)
	users.Patch("/me", ctrl.UpdateMe)
	users.Post("/me/photo", ctrl.UploadPhoto)
}

// UserAdminRoutes dipasang di group /api/a (admin/librarian).
func UserAdminRoutes(r fiber.Router, db *gorm.DB, ossSvc *oss.OSSService) {
	ctrl := &userCtrl.UserController{DB: db, OSS: ossSvc}

	users := r.Group("/users")
	users.Get("/", ctrl.List)
	users.Patch("/:id/active", ctrl.SetActive)
}
