// services/chat_service.go
package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/GiorgyArmani/mintw4ve-sub000/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatService struct {
	DB            *gorm.DB
	Notifications *NotificationService
	hub           *chatHub
}

func NewChatService(db *gorm.DB, notifications *NotificationService) *ChatService {
	return &ChatService{
		DB:            db,
		Notifications: notifications,
		hub:           newChatHub(),
	}
}

// SendMessage stores a message and pushes it to the receiver's live
// subscribers. The response echoes client_ref so an optimistic pending
// message can be swapped for the server-assigned record.
func (s *ChatService) SendMessage(c *fiber.Ctx) error {
	sender := c.Locals("wallet").(string)

	var input struct {
		Receiver  string `json:"receiver"`
		Body      string `json:"body"`
		ClientRef string `json:"client_ref"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	receiver := strings.ToLower(strings.TrimSpace(input.Receiver))
	if receiver == "" || strings.TrimSpace(input.Body) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "receiver and body are required"})
	}
	if receiver == sender {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot message yourself"})
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Receiver:  receiver,
		Body:      input.Body,
		ClientRef: input.ClientRef,
	}

	if err := s.DB.Create(&msg).Error; err != nil {
		log.Printf("DB Error creating message: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send message"})
	}

	s.hub.Publish(msg)
	s.Notifications.Notify(receiver, models.NotificationTypeMessage, "New message",
		fmt.Sprintf("New message from %s", sender))

	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetConversation returns all messages between the caller and ?peer=,
// oldest first
func (s *ChatService) GetConversation(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)
	peer := strings.ToLower(c.Query("peer"))
	if peer == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "peer is required"})
	}

	var messages []models.Message
	if err := s.DB.
		Where("(sender = ? AND receiver = ?) OR (sender = ? AND receiver = ?)", wallet, peer, peer, wallet).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		log.Printf("DB Error fetching conversation: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch conversation"})
	}

	return c.JSON(messages)
}

// GetConversations returns one summary row per peer, most recent first
func (s *ChatService) GetConversations(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)

	var conversations []models.Conversation
	err := s.DB.Raw(`
		SELECT DISTINCT ON (peer) peer, body AS last_body, created_at AS last_created_at
		FROM (
			SELECT CASE WHEN sender = ? THEN receiver ELSE sender END AS peer, body, created_at
			FROM messages
			WHERE sender = ? OR receiver = ?
		) m
		ORDER BY peer, created_at DESC
	`, wallet, wallet, wallet).Scan(&conversations).Error
	if err != nil {
		log.Printf("DB Error fetching conversations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch conversations"})
	}

	// DISTINCT ON orders by peer; present most-recent conversations first
	for i := 0; i < len(conversations); i++ {
		for j := i + 1; j < len(conversations); j++ {
			if conversations[j].LastCreatedAt.After(conversations[i].LastCreatedAt) {
				conversations[i], conversations[j] = conversations[j], conversations[i]
			}
		}
	}

	return c.JSON(conversations)
}

// StreamMessages pushes new messages for the authenticated wallet as SSE
func (s *ChatService) StreamMessages(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	ch, cancel := s.hub.Subscribe(wallet)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()

		keepalive := time.NewTicker(15 * time.Second)
		defer keepalive.Stop()

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case msg := <-ch:
				payload, _ := json.Marshal(msg)
				fmt.Fprintf(w, "event: message\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-keepalive.C:
				w.WriteString(":\n\n")
				if err := w.Flush(); err != nil {
					return
				}

			case <-c.Context().Done():
				// Client closed connection
				return
			}
		}
	})

	return nil
}
