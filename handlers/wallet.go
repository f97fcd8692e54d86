package handlers

import (
	"github.com/GiorgyArmani/mintw4ve-sub000/middleware"
	"github.com/GiorgyArmani/mintw4ve-sub000/services"
	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App, walletService *services.WalletService, streamService *services.StreamService, notificationService *services.NotificationService) {
	secured := app.Group("/", middleware.WalletContextMiddleware())

	// 💰 Balance + earnings
	secured.Get("/wallet", walletService.GetWallet)
	secured.Post("/wallet/reset", walletService.ResetWallet)
	secured.Get("/wallet/earnings", walletService.GetEarnings)
	secured.Delete("/wallet/earnings", walletService.ClearEarnings)

	// 🪙 Minting — records the event and credits the mint reward
	secured.Post("/mints", streamService.MintTrack)

	// 🔔 Notifications
	secured.Get("/notifications", notificationService.GetNotifications)
	secured.Get("/notifications/counts", notificationService.GetNotificationCounts)
	secured.Patch("/notifications/:id/read", notificationService.MarkNotificationRead)
	secured.Patch("/notifications/read-all", notificationService.MarkAllNotificationsRead)
}
