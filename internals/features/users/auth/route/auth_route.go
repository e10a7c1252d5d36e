package route

import (
	authCtrl "perpusku_backend/internals/features/users/auth/controller"
	"perpusku_backend/internals/middlewares"
	authMiddleware "perpusku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := &authCtrl.AuthController{DB: db}

	auth := app.Group("/api/auth")
	auth.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	auth.Post("/login-google", middlewares.LoginRateLimiter(), ctrl.LoginGoogle)
	auth.Post("/refresh", ctrl.Refresh)

	// Logout butuh token valid untuk tahu apa yang di-blacklist.
	auth.Post("/logout", authMiddleware.AuthMiddleware(db), ctrl.Logout)
}
