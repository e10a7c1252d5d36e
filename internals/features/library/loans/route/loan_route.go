package route

import (
	loanCtrl "perpusku_backend/internals/features/library/loans/controller"
	loanService "perpusku_backend/internals/features/library/loans/service"
	"perpusku_backend/internals/helpers/oss"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LoanUserRoutes dipasang di group /api/u.
func LoanUserRoutes(r fiber.Router, db *gorm.DB, svc *loanService.LoanService, ossSvc *oss.OSSService) {
	ctrl := loanCtrl.NewLoanUserController(db, svc, ossSvc)

	loans := r.Group("/loans")
	loans.Post("/", ctrl.RequestLoan)
	loans.Get("/", ctrl.ListMine)
	loans.Get("/fines/summary", ctrl.MyFineSummary)
	loans.Get("/:id", ctrl.Detail)
	loans.Post("/:id/return-proof", ctrl.SubmitReturnProof)
}

// LoanAdminRoutes dipasang di group /api/a.
func LoanAdminRoutes(r fiber.Router, db *gorm.DB, svc *loanService.LoanService, ossSvc *oss.OSSService) {
	ctrl := loanCtrl.NewLoanAdminController(db, svc, ossSvc)

	loans := r.Group("/loans")
	loans.Get("/", ctrl.List)
	loans.Get("/:id", ctrl.Detail)
	loans.Patch("/:id/approve", ctrl.ApproveRequest)
	loans.Patch("/:id/reject", ctrl.RejectRequest)
	loans.Patch("/:id/taken", ctrl.ConfirmTaken)
	loans.Patch("/:id/start-borrowing", ctrl.StartBorrowing)
	loans.Patch("/:id/return/approve", ctrl.ApproveReturn)
	loans.Patch("/:id/return/reject", ctrl.RejectReturn)
}
