package route

import (
	bookCtrl "perpusku_backend/internals/features/library/books/controller"
	"perpusku_backend/internals/helpers/oss"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BookPublicRoutes dipasang di group /api/public — katalog bisa
// dijelajah tanpa login.
func BookPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := bookCtrl.NewBookUserController(db)

	books := r.Group("/books")
	books.Get("/", ctrl.List)
	books.Get("/:idOrSlug", ctrl.Detail)
}

// BookAdminRoutes dipasang di group /api/a.
func BookAdminRoutes(r fiber.Router, db *gorm.DB, ossSvc *oss.OSSService) {
	ctrl := bookCtrl.NewBookAdminController(db, ossSvc)

	books := r.Group("/books")
	books.Post("/", ctrl.Create)
	books.Patch("/:id", ctrl.Update)
	books.Post("/:id/cover", ctrl.UploadCover)
	books.Delete("/:id", ctrl.Delete)
}
