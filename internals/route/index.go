package routes

import (
	"log"
	"time"

	"perpusku_backend/internals/configs"
	"perpusku_backend/internals/constants"
	notifService "perpusku_backend/internals/features/home/notifications/service"
	fpService "perpusku_backend/internals/features/library/fine_payments/service"
	loanScheduler "perpusku_backend/internals/features/library/loans/scheduler"
	loanService "perpusku_backend/internals/features/library/loans/service"
	"perpusku_backend/internals/helpers/oss"
	authMiddleware "perpusku_backend/internals/middlewares/auth"
	routeDetails "perpusku_backend/internals/route/details"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// ===================== SHARED SERVICES =====================
	ossSvc, err := oss.NewOSSServiceFromEnv("")
	if err != nil {
		log.Printf("⚠️ Penyimpanan media nonaktif: %v", err)
		ossSvc = nil
	}

	notifier := notifService.NewNotifier(db)
	loanSvc := loanService.NewLoanService(db, configs.Lending, notifier)
	qris := fpService.InitQRISAssist(configs.GetEnv("MIDTRANS_SERVER_KEY"))
	fpSvc := fpService.NewFinePaymentService(db, notifier, qris)

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	// ===================== GROUPS =====================

	// PUBLIC → tanpa JWT
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")

	// PRIVATE (user login)
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u", authMiddleware.AuthMiddleware(db))

	// ADMIN (admin / librarian)
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(
			constants.RoleErrorStaff("manajemen perpustakaan"),
			constants.StaffRoles...,
		),
	)

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting User routes...")
	routeDetails.UserRoutes(private, db, ossSvc)
	routeDetails.UserAdminRoutes(admin, db, ossSvc)

	log.Println("[INFO] Mounting Library routes...")
	routeDetails.LibraryPublicRoutes(public, db)
	routeDetails.LibraryUserRoutes(private, db, loanSvc, fpSvc, ossSvc)
	routeDetails.LibraryAdminRoutes(admin, db, loanSvc, fpSvc, ossSvc)

	log.Println("[INFO] Mounting Notification routes...")
	routeDetails.NotificationRoutes(private, db)

	// ===================== SCHEDULERS =====================
	loanScheduler.StartDueReminderScheduler(db, notifier)
}
