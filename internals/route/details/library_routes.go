package details

import (
	bookRoute "perpusku_backend/internals/features/library/books/route"
	fpRoute "perpusku_backend/internals/features/library/fine_payments/route"
	fpService "perpusku_backend/internals/features/library/fine_payments/service"
	loanRoute "perpusku_backend/internals/features/library/loans/route"
	loanService "perpusku_backend/internals/features/library/loans/service"
	"perpusku_backend/internals/helpers/oss"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func LibraryPublicRoutes(r fiber.Router, db *gorm.DB) {
	bookRoute.BookPublicRoutes(r, db)
}

func LibraryUserRoutes(r fiber.Router, db *gorm.DB, loanSvc *loanService.LoanService, fpSvc *fpService.FinePaymentService, ossSvc *oss.OSSService) {
	loanRoute.LoanUserRoutes(r, db, loanSvc, ossSvc)
	fpRoute.FinePaymentUserRoutes(r, db, fpSvc, ossSvc)
}

func LibraryAdminRoutes(r fiber.Router, db *gorm.DB, loanSvc *loanService.LoanService, fpSvc *fpService.FinePaymentService, ossSvc *oss.OSSService) {
	bookRoute.BookAdminRoutes(r, db, ossSvc)
	loanRoute.LoanAdminRoutes(r, db, loanSvc, ossSvc)
	fpRoute.FinePaymentAdminRoutes(r, db, fpSvc)
}
