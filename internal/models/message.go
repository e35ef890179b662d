package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is one chat message between the two parties of a partnership.
// Clients poll for new messages on a fixed interval; ordering across polls
// is eventually consistent.
type Message struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PartnershipID uuid.UUID `gorm:"type:uuid;column:partnership_id;not null;index" json:"partnership_id"`
	SenderID      int       `gorm:"column:sender_id;not null" json:"sender_id"`
	Body          string    `gorm:"column:body;not null" json:"body"`
	Read          bool      `gorm:"column:read;default:false" json:"read"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// MessageManager provides Django-like ORM methods for Message
type MessageManager struct {
	db *gorm.DB
}

// NewMessageManager creates a new MessageManager instance
func NewMessageManager(db *gorm.DB) *MessageManager {
	return &MessageManager{db: db}
}

// Create creates a new message
func (m *MessageManager) Create(msg *Message) error {
	return m.db.Create(msg).Error
}

// ForPartnership retrieves a partnership's messages oldest first.
func (m *MessageManager) ForPartnership(partnershipID uuid.UUID) ([]Message, error) {
	var msgs []Message
	err := m.db.Where("partnership_id = ?", partnershipID).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

// UnreadForRecipient retrieves unread messages in a partnership sent by the
// other party.
func (m *MessageManager) UnreadForRecipient(partnershipID uuid.UUID, recipientID int) ([]Message, error) {
	var msgs []Message
	err := m.db.Where("partnership_id = ? AND sender_id != ? AND read = ?", partnershipID, recipientID, false).
		Find(&msgs).Error
	return msgs, err
}

// Update updates a message
func (m *MessageManager) Update(msg *Message) error {
	return m.db.Save(msg).Error
}
