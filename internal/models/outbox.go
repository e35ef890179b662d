package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Outbox event kinds
const (
	OutboxEmail        = "email"
	OutboxNotification = "notification"
)

// Outbox event statuses
const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// Payload stores the event payload as a JSONB column.
type Payload map[string]interface{}

// Value implements the driver.Valuer interface
func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface
func (p *Payload) Scan(value interface{}) error {
	if value == nil {
		*p = make(map[string]interface{})
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("unsupported type for Payload")
	}
}

// String returns the string payload field for the given key, or "".
func (p Payload) String(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the integer payload field for the given key, or 0. JSON
// round-trips numbers as float64.
func (p Payload) Int(key string) int {
	switch v := p[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// OutboxEvent is a durable side-effect record. It is written in the same
// database transaction as the state transition that caused it and delivered
// asynchronously by the dispatcher with retry.
type OutboxEvent struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Kind          string     `gorm:"column:kind;not null" json:"kind"`
	EventType     string     `gorm:"column:event_type;not null;index" json:"event_type"`
	Payload       Payload    `gorm:"column:payload;type:jsonb;default:'{}'" json:"payload"`
	Status        string     `gorm:"column:status;default:'pending';index" json:"status"`
	Attempts      int        `gorm:"column:attempts" json:"attempts"`
	NextAttemptAt time.Time  `gorm:"column:next_attempt_at;index" json:"next_attempt_at"`
	LastError     string     `gorm:"column:last_error" json:"last_error,omitempty"`
	SentAt        *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for the OutboxEvent model
func (OutboxEvent) TableName() string {
	return "outbox_events"
}

// BeforeCreate makes a fresh event immediately eligible for dispatch.
func (e *OutboxEvent) BeforeCreate(tx *gorm.DB) error {
	if e.NextAttemptAt.IsZero() {
		e.NextAttemptAt = time.Now()
	}
	return nil
}

// OutboxManager provides Django-like ORM methods for OutboxEvent
type OutboxManager struct {
	db *gorm.DB
}

// NewOutboxManager creates a new OutboxManager instance
func NewOutboxManager(db *gorm.DB) *OutboxManager {
	return &OutboxManager{db: db}
}

// Create creates a new outbox event
func (m *OutboxManager) Create(e *OutboxEvent) error {
	return m.db.Create(e).Error
}

// Due retrieves pending events whose next attempt time has passed, oldest
// first, capped at limit.
func (m *OutboxManager) Due(now time.Time, limit int) ([]OutboxEvent, error) {
	var es []OutboxEvent
	err := m.db.Where("status = ? AND next_attempt_at <= ?", OutboxPending, now).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&es).Error
	return es, err
}

// Filter retrieves events matching the given conditions
func (m *OutboxManager) Filter(conditions interface{}) ([]OutboxEvent, error) {
	var es []OutboxEvent
	err := m.db.Where(conditions).Find(&es).Error
	return es, err
}

// Update updates an outbox event
func (m *OutboxManager) Update(e *OutboxEvent) error {
	return m.db.Save(e).Error
}
