package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModelListEntry is an athlete's opt-in to the brand photo/video roster,
// gated by its own admin approval queue.
type ModelListEntry struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AthleteName string          `gorm:"column:athlete_name;not null" json:"athlete_name"`
	Email       string          `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Status      ModelListStatus `gorm:"column:status;default:'Pending'" json:"status"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for the ModelListEntry model
func (ModelListEntry) TableName() string {
	return "model_list_entries"
}

// ModelListManager provides Django-like ORM methods for ModelListEntry
type ModelListManager struct {
	db *gorm.DB
}

// NewModelListManager creates a new ModelListManager instance
func NewModelListManager(db *gorm.DB) *ModelListManager {
	return &ModelListManager{db: db}
}

// Create creates a new model list entry
func (m *ModelListManager) Create(e *ModelListEntry) error {
	return m.db.Create(e).Error
}

// Get retrieves an entry by ID
func (m *ModelListManager) Get(id uuid.UUID) (*ModelListEntry, error) {
	var e ModelListEntry
	err := m.db.First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Pending retrieves entries awaiting admin review, oldest first.
func (m *ModelListManager) Pending() ([]ModelListEntry, error) {
	var es []ModelListEntry
	err := m.db.Where("status = ?", ModelListPending).
		Order("created_at ASC").
		Find(&es).Error
	return es, err
}

// Filter retrieves entries matching the given conditions
func (m *ModelListManager) Filter(conditions interface{}) ([]ModelListEntry, error) {
	var es []ModelListEntry
	err := m.db.Where(conditions).Find(&es).Error
	return es, err
}

// Update updates an entry
func (m *ModelListManager) Update(e *ModelListEntry) error {
	return m.db.Save(e).Error
}
