package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AffiliateCampaign is a company's affiliate marketing intake record. It is
// created with a fixed initial status and later transitioned from the admin
// review queue.
type AffiliateCampaign struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID      int            `gorm:"column:company_id;not null;index" json:"company_id"`
	Name           string         `gorm:"column:name;not null" json:"name"`
	Description    string         `gorm:"column:description" json:"description"`
	CommissionRate float64        `gorm:"column:commission_rate" json:"commission_rate"`
	ProductURL     string         `gorm:"column:product_url" json:"product_url"`
	Status         CampaignStatus `gorm:"column:status;default:'Pending Approval'" json:"status"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at" json:"updated_at"`

	Company User `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// TableName specifies the table name for the AffiliateCampaign model
func (AffiliateCampaign) TableName() string {
	return "affiliate_campaigns"
}

// ContentPartnership is a content-creation intake record, reviewed from the
// same admin queue pattern as affiliate campaigns.
type ContentPartnership struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID    int            `gorm:"column:company_id;not null;index" json:"company_id"`
	Title        string         `gorm:"column:title;not null" json:"title"`
	Brief        string         `gorm:"column:brief" json:"brief"`
	ContentType  string         `gorm:"column:content_type" json:"content_type"`
	MonthlyRate  float64        `gorm:"column:monthly_rate" json:"monthly_rate"`
	Status       CampaignStatus `gorm:"column:status;default:'Pending Review'" json:"status"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at" json:"updated_at"`

	Company User `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// TableName specifies the table name for the ContentPartnership model
func (ContentPartnership) TableName() string {
	return "content_partnerships"
}

// CampaignManager provides Django-like ORM methods for both intake record types.
type CampaignManager struct {
	db *gorm.DB
}

// NewCampaignManager creates a new CampaignManager instance
func NewCampaignManager(db *gorm.DB) *CampaignManager {
	return &CampaignManager{db: db}
}

// CreateAffiliate creates a new affiliate campaign intake record
func (m *CampaignManager) CreateAffiliate(c *AffiliateCampaign) error {
	return m.db.Create(c).Error
}

// GetAffiliate retrieves an affiliate campaign by ID
func (m *CampaignManager) GetAffiliate(id uuid.UUID) (*AffiliateCampaign, error) {
	var c AffiliateCampaign
	err := m.db.First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FilterAffiliate retrieves affiliate campaigns matching the given conditions
func (m *CampaignManager) FilterAffiliate(conditions interface{}) ([]AffiliateCampaign, error) {
	var cs []AffiliateCampaign
	err := m.db.Where(conditions).Order("created_at DESC").Find(&cs).Error
	return cs, err
}

// UpdateAffiliate updates an affiliate campaign
func (m *CampaignManager) UpdateAffiliate(c *AffiliateCampaign) error {
	return m.db.Save(c).Error
}

// CreateContent creates a new content partnership intake record
func (m *CampaignManager) CreateContent(c *ContentPartnership) error {
	return m.db.Create(c).Error
}

// GetContent retrieves a content partnership by ID
func (m *CampaignManager) GetContent(id uuid.UUID) (*ContentPartnership, error) {
	var c ContentPartnership
	err := m.db.First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FilterContent retrieves content partnerships matching the given conditions
func (m *CampaignManager) FilterContent(conditions interface{}) ([]ContentPartnership, error) {
	var cs []ContentPartnership
	err := m.db.Where(conditions).Order("created_at DESC").Find(&cs).Error
	return cs, err
}

// UpdateContent updates a content partnership
func (m *CampaignManager) UpdateContent(c *ContentPartnership) error {
	return m.db.Save(c).Error
}
