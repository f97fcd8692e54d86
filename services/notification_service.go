// services/notification_service.go
package services

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/GiorgyArmani/mintw4ve-sub000/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Notify records a notification for a wallet. Best-effort: failures are
// logged, not propagated, so a broken notification never fails the
// operation that produced it.
func (s *NotificationService) Notify(wallet string, typ models.NotificationType, title, body string) {
	n := &models.Notification{
		ID:     uuid.NewString(),
		Wallet: wallet,
		Type:   typ,
		Title:  title,
		Body:   body,
	}
	if err := s.DB.Create(n).Error; err != nil {
		log.Printf("Failed to create %s notification for %s: %v", typ, wallet, err)
	}
}

// GetNotifications fetches notifications for the caller based on filters
func (s *NotificationService) GetNotifications(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)

	limitStr := c.Query("limit") // e.g., limit=20
	readStr := c.Query("read")   // e.g., read=all (default), read=true, read=false

	var limit *int
	if limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid limit parameter"})
		}
		limit = &l
	}

	query := s.DB.Where("wallet = ?", wallet)
	switch strings.ToLower(readStr) {
	case "true":
		query = query.Where("read = ?", true)
	case "false":
		query = query.Where("read = ?", false)
		// Default ("all" or not provided) means no filter on read state
	}

	dbQuery := query.Order("created_at DESC")
	if limit != nil {
		dbQuery = dbQuery.Limit(*limit)
	}

	var notifications []models.Notification
	if err := dbQuery.Find(&notifications).Error; err != nil {
		log.Printf("DB Error fetching notifications: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	return c.JSON(notifications)
}

// GetNotificationCounts returns total and unread counts for the caller.
// Cheap enough to poll.
func (s *NotificationService) GetNotificationCounts(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)

	baseQuery := s.DB.Model(&models.Notification{}).Where("wallet = ?", wallet)

	var totalCount int64
	if err := baseQuery.Count(&totalCount).Error; err != nil {
		log.Printf("DB Error counting notifications: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error counting notifications"})
	}

	var unreadCount int64
	if err := baseQuery.Where("read = ?", false).Count(&unreadCount).Error; err != nil {
		log.Printf("DB Error counting unread notifications: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error counting unread notifications"})
	}

	return c.JSON(fiber.Map{
		"total_count":  totalCount,
		"unread_count": unreadCount,
	})
}

// MarkNotificationRead marks a single notification as read (idempotent)
func (s *NotificationService) MarkNotificationRead(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)
	id := c.Params("id")

	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	var n models.Notification
	if err := s.DB.Where("id = ? AND wallet = ?", id, wallet).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found or not owned"})
		}
		log.Printf("DB error fetching notification: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if !n.Read {
		n.Read = true
		if err := s.DB.Save(&n).Error; err != nil {
			log.Printf("Failed to update read status: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark as read"})
		}
	}

	return c.JSON(fiber.Map{"message": "OK", "notification_id": n.ID, "read": true})
}

// MarkAllNotificationsRead marks every unread notification for the caller
func (s *NotificationService) MarkAllNotificationsRead(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)

	result := s.DB.Model(&models.Notification{}).
		Where("wallet = ? AND read = ?", wallet, false).
		Update("read", true)

	if result.Error != nil {
		log.Printf("Bulk mark read failed: %v", result.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update notifications"})
	}

	return c.JSON(fiber.Map{
		"message":      "OK",
		"marked_count": result.RowsAffected,
	})
}
