// Package models provides GORM-based models with a Django ORM-like interface
// for the Bridged marketplace: athletes, companies, applications, partnerships,
// deliverables, payments and the admin approval queues around them.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Custom types to match PostgreSQL enums
type UserRole string
type ApplicationStatus string
type PartnershipStatus string
type PartnershipType string
type DeliverableStatus string
type SubmissionType string
type VerificationStatus string
type AIStatus string
type ModelListStatus string
type PaymentStatus string
type ExtensionStatus string
type CampaignStatus string
type DocumentType string

const (
	// User roles
	RoleAthlete UserRole = "athlete"
	RoleCompany UserRole = "company"
	RoleAdmin   UserRole = "admin"

	// Application statuses
	ApplicationApplied  ApplicationStatus = "applied"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"

	// Partnership statuses
	PartnershipPending   PartnershipStatus = "pending"
	PartnershipActive    PartnershipStatus = "active"
	PartnershipCompleted PartnershipStatus = "completed"
	PartnershipCancelled PartnershipStatus = "cancelled"

	// Partnership types
	TypeInternship PartnershipType = "internship"
	TypeAffiliate  PartnershipType = "affiliate"
	TypeContent    PartnershipType = "content"

	// Deliverable statuses
	DeliverableNotStarted    DeliverableStatus = "Not Started"
	DeliverableInProgress    DeliverableStatus = "In Progress"
	DeliverableCompleted     DeliverableStatus = "Completed"
	DeliverableApproved      DeliverableStatus = "Approved"
	DeliverableNeedsRevision DeliverableStatus = "Needs Revision"

	// Deliverable submission types
	SubmissionLink SubmissionType = "link"
	SubmissionFile SubmissionType = "file"
	SubmissionText SubmissionType = "text"

	// Athlete verification statuses
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"

	// AI screening statuses (advisory display fields, never branched on)
	AIPending      AIStatus = "pending"
	AIAutoApproved AIStatus = "auto_approved"
	AIManualReview AIStatus = "manual_review"
	AIHold         AIStatus = "hold"

	// Model list statuses
	ModelListPending  ModelListStatus = "Pending"
	ModelListApproved ModelListStatus = "Approved"
	ModelListRejected ModelListStatus = "Rejected"

	// Payment statuses
	PaymentScheduled PaymentStatus = "scheduled"
	PaymentPaid      PaymentStatus = "paid"

	// Partnership extension statuses
	ExtensionNone     ExtensionStatus = "none"
	ExtensionPending  ExtensionStatus = "pending"
	ExtensionApproved ExtensionStatus = "approved"
	ExtensionRejected ExtensionStatus = "rejected"

	// Campaign intake statuses
	CampaignPendingApproval CampaignStatus = "Pending Approval"
	CampaignPendingReview   CampaignStatus = "Pending Review"
	CampaignApproved        CampaignStatus = "Approved"
	CampaignRejected        CampaignStatus = "Rejected"

	// Partnership paperwork documents
	DocPlatformAgreement   DocumentType = "platform_agreement"
	DocInternshipAgreement DocumentType = "internship_agreement"
	DocParentalConsent     DocumentType = "parental_consent"
)

// ServiceFeeRate is Bridged's cut on top of the athlete stipend.
const ServiceFeeRate = 0.17

// DefaultPartnershipDays is the partnership window applied on application acceptance.
const DefaultPartnershipDays = 90

// BaseModel contains common fields for all models
type BaseModel struct {
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index;column:deleted_at" json:"deleted_at,omitempty"`
}
