package handlers

import (
	"github.com/GiorgyArmani/mintw4ve-sub000/middleware"
	"github.com/GiorgyArmani/mintw4ve-sub000/services"
	"github.com/gofiber/fiber/v2"
)

func SetupMarketRoutes(app *fiber.App, marketService *services.MarketService) {
	// 🔓 Public browsing
	app.Get("/market/services", marketService.GetServiceListings)
	app.Get("/market/requests", marketService.GetRequestListings)

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.WalletContextMiddleware())

	secured.Post("/market/services", marketService.CreateServiceListing)
	secured.Post("/market/requests", marketService.CreateRequestListing)
	secured.Post("/market/listings/:id/purchase", marketService.PurchaseListing)
	secured.Post("/market/listings/:id/close", marketService.CloseListing)
	secured.Get("/market/orders", marketService.GetOrders)
}
