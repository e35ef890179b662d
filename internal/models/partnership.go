package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OnboardingStep is one ordered item of a partnership's onboarding checklist.
type OnboardingStep struct {
	StepNumber    int        `json:"step_number"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	IsCompleted   bool       `json:"is_completed"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
	MeetingLink   string     `json:"meeting_link,omitempty"`
}

// OnboardingSteps stores the checklist as a JSONB column.
type OnboardingSteps []OnboardingStep

// Value implements the driver.Valuer interface
func (s OnboardingSteps) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface
func (s *OnboardingSteps) Scan(value interface{}) error {
	if value == nil {
		*s = OnboardingSteps{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for OnboardingSteps")
	}
}

// Partnership is the contractual relationship between one athlete and one
// company: the anchor entity for deliverables, payments and paperwork.
type Partnership struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AthleteID int               `gorm:"column:athlete_id;not null;index" json:"athlete_id"`
	CompanyID int               `gorm:"column:company_id;not null;index" json:"company_id"`
	Status    PartnershipStatus `gorm:"column:status;default:'pending'" json:"status"`
	Type      PartnershipType   `gorm:"column:partnership_type;default:'internship'" json:"partnership_type"`
	StartDate time.Time         `gorm:"column:start_date" json:"start_date"`
	EndDate   time.Time         `gorm:"column:end_date" json:"end_date"`

	MonthlyStipend    float64 `gorm:"column:monthly_stipend" json:"monthly_stipend"`
	MonthlyServiceFee float64 `gorm:"column:monthly_service_fee" json:"monthly_service_fee"`
	TotalMonthlyCost  float64 `gorm:"column:total_monthly_cost" json:"total_monthly_cost"`

	OnboardingSteps OnboardingSteps `gorm:"column:onboarding_steps;type:jsonb;default:'[]'" json:"onboarding_steps"`

	// Paperwork: one-way signature flags per document per party.
	InternshipAgreementURL string `gorm:"column:internship_agreement_url" json:"internship_agreement_url"`

	PlatformSignedByCompany     bool       `gorm:"column:platform_signed_by_company" json:"platform_signed_by_company"`
	PlatformSignedByCompanyAt   *time.Time `gorm:"column:platform_signed_by_company_at" json:"platform_signed_by_company_at,omitempty"`
	PlatformSignedByAthlete     bool       `gorm:"column:platform_signed_by_athlete" json:"platform_signed_by_athlete"`
	PlatformSignedByAthleteAt   *time.Time `gorm:"column:platform_signed_by_athlete_at" json:"platform_signed_by_athlete_at,omitempty"`
	InternshipSignedByCompany   bool       `gorm:"column:internship_signed_by_company" json:"internship_signed_by_company"`
	InternshipSignedByCompanyAt *time.Time `gorm:"column:internship_signed_by_company_at" json:"internship_signed_by_company_at,omitempty"`
	InternshipSignedByAthlete   bool       `gorm:"column:internship_signed_by_athlete" json:"internship_signed_by_athlete"`
	InternshipSignedByAthleteAt *time.Time `gorm:"column:internship_signed_by_athlete_at" json:"internship_signed_by_athlete_at,omitempty"`
	ConsentSignedByParent       bool       `gorm:"column:consent_signed_by_parent" json:"consent_signed_by_parent"`
	ConsentSignedByParentAt     *time.Time `gorm:"column:consent_signed_by_parent_at" json:"consent_signed_by_parent_at,omitempty"`
	ConsentAckedByAthlete       bool       `gorm:"column:consent_acked_by_athlete" json:"consent_acked_by_athlete"`
	ConsentAckedByAthleteAt     *time.Time `gorm:"column:consent_acked_by_athlete_at" json:"consent_acked_by_athlete_at,omitempty"`

	// Extension request lifecycle
	ExtensionRequested       bool            `gorm:"column:extension_requested" json:"extension_requested"`
	ExtensionMonths          int             `gorm:"column:extension_months" json:"extension_months"`
	ExtensionReason          string          `gorm:"column:extension_reason" json:"extension_reason"`
	ExtensionStatus          ExtensionStatus `gorm:"column:extension_status;default:'none'" json:"extension_status"`
	AthleteApprovedExtension bool            `gorm:"column:athlete_approved_extension" json:"athlete_approved_extension"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Associations
	Athlete User `gorm:"foreignKey:AthleteID" json:"athlete,omitempty"`
	Company User `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// TableName specifies the table name for the Partnership model
func (Partnership) TableName() string {
	return "partnerships"
}

// ComputeFees derives the monthly service fee and total monthly cost from a
// stipend, rounded to cents.
func ComputeFees(stipend float64) (serviceFee, totalCost float64) {
	serviceFee = math.Round(stipend*ServiceFeeRate*100) / 100
	totalCost = math.Round(stipend*(1+ServiceFeeRate)*100) / 100
	return serviceFee, totalCost
}

// BeforeCreate fills derived fee fields when only the stipend was provided.
func (p *Partnership) BeforeCreate(tx *gorm.DB) error {
	if p.MonthlyStipend > 0 && p.MonthlyServiceFee == 0 {
		p.MonthlyServiceFee, p.TotalMonthlyCost = ComputeFees(p.MonthlyStipend)
	}
	return nil
}

// HasParty reports whether the given user is the athlete or the company side.
func (p *Partnership) HasParty(userID int) bool {
	return p.AthleteID == userID || p.CompanyID == userID
}

// PaperworkComplete reports whether every required signature is in place.
// The parental consent pair only counts when the athlete is a minor.
func (p *Partnership) PaperworkComplete(athleteIsMinor bool) bool {
	if !p.PlatformSignedByCompany || !p.PlatformSignedByAthlete {
		return false
	}
	if !p.InternshipSignedByCompany || !p.InternshipSignedByAthlete {
		return false
	}
	if athleteIsMinor && (!p.ConsentSignedByParent || !p.ConsentAckedByAthlete) {
		return false
	}
	return true
}

// PartnershipManager provides Django-like ORM methods for Partnership
type PartnershipManager struct {
	db *gorm.DB
}

// NewPartnershipManager creates a new PartnershipManager instance
func NewPartnershipManager(db *gorm.DB) *PartnershipManager {
	return &PartnershipManager{db: db}
}

// Create creates a new partnership
func (m *PartnershipManager) Create(p *Partnership) error {
	return m.db.Create(p).Error
}

// Get retrieves a partnership by ID
func (m *PartnershipManager) Get(id uuid.UUID) (*Partnership, error) {
	var p Partnership
	err := m.db.First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Filter retrieves partnerships matching the given conditions
func (m *PartnershipManager) Filter(conditions interface{}) ([]Partnership, error) {
	var ps []Partnership
	err := m.db.Where(conditions).Find(&ps).Error
	return ps, err
}

// ForUser retrieves partnerships where the user is either party, newest first.
func (m *PartnershipManager) ForUser(userID int) ([]Partnership, error) {
	var ps []Partnership
	err := m.db.Where("athlete_id = ? OR company_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&ps).Error
	return ps, err
}

// CountByAthleteAndCompany counts partnerships between a specific pair.
func (m *PartnershipManager) CountByAthleteAndCompany(athleteID, companyID int) (int64, error) {
	var count int64
	err := m.db.Model(&Partnership{}).
		Where("athlete_id = ? AND company_id = ?", athleteID, companyID).
		Count(&count).Error
	return count, err
}

// Update updates a partnership
func (m *PartnershipManager) Update(p *Partnership) error {
	return m.db.Save(p).Error
}

// Save saves the partnership instance
func (p *Partnership) Save(db *gorm.DB) error {
	return db.Save(p).Error
}
