package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deliverable is one week-tagged unit of work an athlete submits and a
// company reviews.
type Deliverable struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PartnershipID   uuid.UUID         `gorm:"type:uuid;column:partnership_id;not null;index" json:"partnership_id"`
	WeekNumber      int               `gorm:"column:week_number" json:"week_number"`
	Title           string            `gorm:"column:title" json:"title"`
	Description     string            `gorm:"column:description" json:"description"`
	Status          DeliverableStatus `gorm:"column:status;default:'Not Started'" json:"status"`
	SubmissionType  SubmissionType    `gorm:"column:submission_type;default:'link'" json:"submission_type"`
	SubmissionURL   string            `gorm:"column:submission_url" json:"submission_url"`
	SubmissionNotes string            `gorm:"column:submission_notes" json:"submission_notes"`
	Feedback        string            `gorm:"column:feedback" json:"feedback"`
	SubmittedAt     *time.Time        `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreatedAt       time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at" json:"updated_at"`

	Partnership Partnership `gorm:"foreignKey:PartnershipID" json:"partnership,omitempty"`
}

// TableName specifies the table name for the Deliverable model
func (Deliverable) TableName() string {
	return "deliverables"
}

// DeliverableManager provides Django-like ORM methods for Deliverable
type DeliverableManager struct {
	db *gorm.DB
}

// NewDeliverableManager creates a new DeliverableManager instance
func NewDeliverableManager(db *gorm.DB) *DeliverableManager {
	return &DeliverableManager{db: db}
}

// Create creates a new deliverable
func (m *DeliverableManager) Create(d *Deliverable) error {
	return m.db.Create(d).Error
}

// Get retrieves a deliverable by ID
func (m *DeliverableManager) Get(id uuid.UUID) (*Deliverable, error) {
	var d Deliverable
	err := m.db.First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ForPartnership retrieves a partnership's deliverables in week order.
func (m *DeliverableManager) ForPartnership(partnershipID uuid.UUID) ([]Deliverable, error) {
	var ds []Deliverable
	err := m.db.Where("partnership_id = ?", partnershipID).
		Order("week_number ASC").
		Find(&ds).Error
	return ds, err
}

// Filter retrieves deliverables matching the given conditions
func (m *DeliverableManager) Filter(conditions interface{}) ([]Deliverable, error) {
	var ds []Deliverable
	err := m.db.Where(conditions).Find(&ds).Error
	return ds, err
}

// Update updates a deliverable
func (m *DeliverableManager) Update(d *Deliverable) error {
	return m.db.Save(d).Error
}

// Delete permanently removes a deliverable. Irreversible.
func (m *DeliverableManager) Delete(id uuid.UUID) error {
	return m.db.Unscoped().Delete(&Deliverable{}, "id = ?", id).Error
}

// Save saves the deliverable instance
func (d *Deliverable) Save(db *gorm.DB) error {
	return db.Save(d).Error
}
