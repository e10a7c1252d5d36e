package route

import (
	fpCtrl "perpusku_backend/internals/features/library/fine_payments/controller"
	fpService "perpusku_backend/internals/features/library/fine_payments/service"
	"perpusku_backend/internals/helpers/oss"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FinePaymentUserRoutes dipasang di group /api/u.
func FinePaymentUserRoutes(r fiber.Router, db *gorm.DB, svc *fpService.FinePaymentService, ossSvc *oss.OSSService) {
	ctrl := fpCtrl.NewFinePaymentUserController(db, svc, ossSvc)

	fp := r.Group("/fine-payments")
	fp.Post("/", ctrl.Initiate)
	fp.Get("/", ctrl.ListMine)
	fp.Get("/:id", ctrl.Detail)
	fp.Post("/:id/proof", ctrl.UploadProof)
}

// FinePaymentAdminRoutes dipasang di group /api/a.
func FinePaymentAdminRoutes(r fiber.Router, db *gorm.DB, svc *fpService.FinePaymentService) {
	ctrl := fpCtrl.NewFinePaymentAdminController(db, svc)

	fp := r.Group("/fine-payments")
	fp.Get("/", ctrl.List)
	fp.Get("/:id", ctrl.Detail)
	fp.Patch("/:id/verify", ctrl.Verify)
}
