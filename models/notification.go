// models/notification.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeReward   NotificationType = "reward"
	NotificationTypeMessage  NotificationType = "message"
	NotificationTypePurchase NotificationType = "purchase"
	NotificationTypeSystem   NotificationType = "system"
)

type Notification struct {
	ID        string           `gorm:"primaryKey;type:uuid" json:"id"`
	Wallet    string           `gorm:"index;not null" json:"wallet"`
	Type      NotificationType `gorm:"not null" json:"type"`
	Title     string           `json:"title"`
	Body      string           `gorm:"type:text" json:"body"`
	Read      bool             `gorm:"default:false;index" json:"read"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}
