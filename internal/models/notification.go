package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification represents an in-app notification for a user
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    int       `gorm:"column:user_id;not null;index" json:"user_id"`
	Type      string    `gorm:"column:type" json:"type"`
	Title     string    `gorm:"column:title" json:"title"`
	Message   string    `gorm:"column:message" json:"message"`
	Read      bool      `gorm:"column:read;default:false" json:"read"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}

// NotificationManager provides Django-like ORM methods for Notification
type NotificationManager struct {
	db *gorm.DB
}

// NewNotificationManager creates a new NotificationManager instance
func NewNotificationManager(db *gorm.DB) *NotificationManager {
	return &NotificationManager{db: db}
}

// Create creates a new notification
func (m *NotificationManager) Create(n *Notification) error {
	return m.db.Create(n).Error
}

// ForUser retrieves a user's notifications, newest first, capped at limit.
func (m *NotificationManager) ForUser(userID, limit int) ([]Notification, error) {
	var ns []Notification
	err := m.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ns).Error
	return ns, err
}

// MarkRead marks a single notification as read, scoped to its owner.
func (m *NotificationManager) MarkRead(id uuid.UUID, userID int) error {
	result := m.db.Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
