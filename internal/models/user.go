package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents any account in the system: athlete, company or admin.
// Athlete-only fields (verification, parent info, date of birth) are
// nullable for the other roles.
type User struct {
	ID         int      `gorm:"primaryKey;column:id" json:"id"`
	Provider   string   `gorm:"column:provider;not null" json:"provider"`
	ProviderID string   `gorm:"column:provider_id;not null" json:"provider_id"`
	Email      string   `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Name       string   `gorm:"column:name;not null" json:"name"`
	AvatarURL  string   `gorm:"column:avatar_url" json:"avatar_url"`
	Role       UserRole `gorm:"column:role;default:'athlete'" json:"role"`

	// Athlete verification subset
	VerificationStatus VerificationStatus `gorm:"column:verification_status;default:'pending'" json:"verification_status"`
	AIStatus           AIStatus           `gorm:"column:ai_status;default:'pending'" json:"ai_status"`
	AIConfidenceScore  float64            `gorm:"column:ai_confidence_score" json:"ai_confidence_score"`
	AdminNotes         string             `gorm:"column:admin_notes" json:"admin_notes,omitempty"`

	// Athlete profile
	DateOfBirth *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	School      string     `gorm:"column:school" json:"school,omitempty"`
	Sport       string     `gorm:"column:sport" json:"sport,omitempty"`
	ParentName  string     `gorm:"column:parent_name" json:"parent_name,omitempty"`
	ParentEmail string     `gorm:"column:parent_email" json:"parent_email,omitempty"`

	// Company profile
	CompanyName string `gorm:"column:company_name" json:"company_name,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// AgeAt returns the athlete's whole-year age at the given date, rounding
// down until the birthday has passed.
func AgeAt(dob, at time.Time) int {
	age := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		age--
	}
	return age
}

// Age returns the user's current age, or -1 when no date of birth is on file.
func (u *User) Age() int {
	if u.DateOfBirth == nil {
		return -1
	}
	return AgeAt(*u.DateOfBirth, time.Now())
}

// IsMinor reports whether the athlete is under 18. Users without a date of
// birth on file are treated as adults.
func (u *User) IsMinor() bool {
	if u.DateOfBirth == nil {
		return false
	}
	return AgeAt(*u.DateOfBirth, time.Now()) < 18
}

// HasParentInfo reports whether both parent name and email are saved.
func (u *User) HasParentInfo() bool {
	return u.ParentName != "" && u.ParentEmail != ""
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserManager provides Django-like ORM methods for User
type UserManager struct {
	db *gorm.DB
}

// NewUserManager creates a new UserManager instance
func NewUserManager(db *gorm.DB) *UserManager {
	return &UserManager{db: db}
}

// Create creates a new user
func (m *UserManager) Create(user *User) error {
	return m.db.Create(user).Error
}

// GetOrCreate gets an existing user or creates a new one
func (m *UserManager) GetOrCreate(provider, providerID string, defaults User) (*User, bool, error) {
	var user User
	created := false

	err := m.db.Where("provider = ? AND provider_id = ?", provider, providerID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = defaults
		user.Provider = provider
		user.ProviderID = providerID
		if err := m.db.Create(&user).Error; err != nil {
			return nil, false, err
		}
		created = true
	} else if err != nil {
		return nil, false, err
	}

	return &user, created, nil
}

// Get retrieves a user by ID
func (m *UserManager) Get(id int) (*User, error) {
	var user User
	err := m.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (m *UserManager) GetByEmail(email string) (*User, error) {
	var user User
	err := m.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByProvider retrieves a user by provider and provider ID
func (m *UserManager) GetByProvider(provider, providerID string) (*User, error) {
	var user User
	err := m.db.Where("provider = ? AND provider_id = ?", provider, providerID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Filter retrieves users matching the given conditions
func (m *UserManager) Filter(conditions interface{}) ([]User, error) {
	var users []User
	err := m.db.Where(conditions).Find(&users).Error
	return users, err
}

// PendingVerification retrieves athletes awaiting admin verification,
// oldest first so the queue drains in signup order.
func (m *UserManager) PendingVerification() ([]User, error) {
	var users []User
	err := m.db.Where("role = ? AND verification_status = ?", RoleAthlete, VerificationPending).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

// Update updates a user
func (m *UserManager) Update(user *User) error {
	return m.db.Save(user).Error
}

// Django-like instance methods for User

// Save saves the user instance
func (u *User) Save(db *gorm.DB) error {
	return db.Save(u).Error
}
