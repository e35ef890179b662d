package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Application represents an athlete's application to a company job posting.
type Application struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AthleteID int               `gorm:"column:athlete_id;not null;index" json:"athlete_id"`
	CompanyID int               `gorm:"column:company_id;not null;index" json:"company_id"`
	JobID     uuid.UUID         `gorm:"type:uuid;column:job_id" json:"job_id"`
	Status    ApplicationStatus `gorm:"column:status;default:'applied'" json:"status"`
	CoverNote string            `gorm:"column:cover_note" json:"cover_note"`
	CreatedAt time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time         `gorm:"column:updated_at" json:"updated_at"`

	// Associations
	Athlete User `gorm:"foreignKey:AthleteID" json:"athlete,omitempty"`
	Company User `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// TableName specifies the table name for the Application model
func (Application) TableName() string {
	return "applications"
}

// IsTerminal reports whether the application has reached a final status.
func (a *Application) IsTerminal() bool {
	return a.Status == ApplicationAccepted || a.Status == ApplicationRejected
}

// ApplicationManager provides Django-like ORM methods for Application
type ApplicationManager struct {
	db *gorm.DB
}

// NewApplicationManager creates a new ApplicationManager instance
func NewApplicationManager(db *gorm.DB) *ApplicationManager {
	return &ApplicationManager{db: db}
}

// Create creates a new application
func (m *ApplicationManager) Create(app *Application) error {
	return m.db.Create(app).Error
}

// Get retrieves an application by ID
func (m *ApplicationManager) Get(id uuid.UUID) (*Application, error) {
	var app Application
	err := m.db.First(&app, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Filter retrieves applications matching the given conditions
func (m *ApplicationManager) Filter(conditions interface{}) ([]Application, error) {
	var apps []Application
	err := m.db.Where(conditions).Find(&apps).Error
	return apps, err
}

// ForCompany retrieves applications for a company's job postings, newest first.
func (m *ApplicationManager) ForCompany(companyID int) ([]Application, error) {
	var apps []Application
	err := m.db.Where("company_id = ?", companyID).
		Preload("Athlete").
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// ForAthlete retrieves an athlete's own applications, newest first.
func (m *ApplicationManager) ForAthlete(athleteID int) ([]Application, error) {
	var apps []Application
	err := m.db.Where("athlete_id = ?", athleteID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// Update updates an application
func (m *ApplicationManager) Update(app *Application) error {
	return m.db.Save(app).Error
}

// Save saves the application instance
func (a *Application) Save(db *gorm.DB) error {
	return db.Save(a).Error
}
