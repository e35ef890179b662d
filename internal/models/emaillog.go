package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailLog records every attempted transactional email. A failed delivery is
// a logged fact, never a reason to roll back the transition that caused it.
type EmailLog struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	To        string    `gorm:"column:recipient;not null" json:"to"`
	Subject   string    `gorm:"column:subject" json:"subject"`
	EventType string    `gorm:"column:event_type;index" json:"event_type"`
	Status    string    `gorm:"column:status" json:"status"` // sent, failed
	Error     string    `gorm:"column:error" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for the EmailLog model
func (EmailLog) TableName() string {
	return "email_logs"
}

// EmailLogManager provides Django-like ORM methods for EmailLog
type EmailLogManager struct {
	db *gorm.DB
}

// NewEmailLogManager creates a new EmailLogManager instance
func NewEmailLogManager(db *gorm.DB) *EmailLogManager {
	return &EmailLogManager{db: db}
}

// Create creates a new email log entry
func (m *EmailLogManager) Create(l *EmailLog) error {
	return m.db.Create(l).Error
}

// Filter retrieves email logs matching the given conditions
func (m *EmailLogManager) Filter(conditions interface{}) ([]EmailLog, error) {
	var ls []EmailLog
	err := m.db.Where(conditions).Order("created_at DESC").Find(&ls).Error
	return ls, err
}

// CountByEvent counts attempts logged for one event type.
func (m *EmailLogManager) CountByEvent(eventType string) (int64, error) {
	var count int64
	err := m.db.Model(&EmailLog{}).Where("event_type = ?", eventType).Count(&count).Error
	return count, err
}
