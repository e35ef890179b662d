package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is one scheduled monthly charge on a partnership.
type Payment struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PartnershipID uuid.UUID     `gorm:"type:uuid;column:partnership_id;not null;index" json:"partnership_id"`
	Status        PaymentStatus `gorm:"column:status;default:'scheduled'" json:"status"`
	Amount        float64       `gorm:"column:amount" json:"amount"`
	ScheduledDate time.Time     `gorm:"column:scheduled_date" json:"scheduled_date"`
	PaidDate      *time.Time    `gorm:"column:paid_date" json:"paid_date,omitempty"`
	CreatedAt     time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"column:updated_at" json:"updated_at"`

	Partnership Partnership `gorm:"foreignKey:PartnershipID" json:"partnership,omitempty"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// PaymentManager provides Django-like ORM methods for Payment
type PaymentManager struct {
	db *gorm.DB
}

// NewPaymentManager creates a new PaymentManager instance
func NewPaymentManager(db *gorm.DB) *PaymentManager {
	return &PaymentManager{db: db}
}

// Create creates a new payment
func (m *PaymentManager) Create(p *Payment) error {
	return m.db.Create(p).Error
}

// Get retrieves a payment by ID
func (m *PaymentManager) Get(id uuid.UUID) (*Payment, error) {
	var p Payment
	err := m.db.First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ForPartnership retrieves a partnership's payments in schedule order.
func (m *PaymentManager) ForPartnership(partnershipID uuid.UUID) ([]Payment, error) {
	var ps []Payment
	err := m.db.Where("partnership_id = ?", partnershipID).
		Order("scheduled_date ASC").
		Find(&ps).Error
	return ps, err
}

// Filter retrieves payments matching the given conditions
func (m *PaymentManager) Filter(conditions interface{}) ([]Payment, error) {
	var ps []Payment
	err := m.db.Where(conditions).Find(&ps).Error
	return ps, err
}

// Update updates a payment
func (m *PaymentManager) Update(p *Payment) error {
	return m.db.Save(p).Error
}

// Save saves the payment instance
func (p *Payment) Save(db *gorm.DB) error {
	return db.Save(p).Error
}
