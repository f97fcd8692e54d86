package handlers

import (
	"github.com/GiorgyArmani/mintw4ve-sub000/middleware"
	"github.com/GiorgyArmani/mintw4ve-sub000/services"
	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, profileService *services.ProfileService) {
	// 🔓 Public profile pages
	app.Get("/profiles/:address", profileService.GetProfile)

	secured := app.Group("/", middleware.WalletContextMiddleware())

	secured.Put("/profiles/me", profileService.UpdateProfile)
	secured.Post("/profiles/:address/follow", profileService.ToggleFollow)
}
