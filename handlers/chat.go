package handlers

import (
	"github.com/GiorgyArmani/mintw4ve-sub000/middleware"
	"github.com/GiorgyArmani/mintw4ve-sub000/services"
	"github.com/gofiber/fiber/v2"
)

func SetupChatRoutes(app *fiber.App, chatService *services.ChatService) {
	secured := app.Group("/", middleware.WalletContextMiddleware())

	secured.Post("/chat/messages", chatService.SendMessage)
	secured.Get("/chat/messages", chatService.GetConversation)
	secured.Get("/chat/conversations", chatService.GetConversations)

	// 📡 SSE live stream of incoming messages
	secured.Get("/chat/stream", chatService.StreamMessages)
}
