package lifecycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bridged/internal/models"
)

// Email event types emitted by the extension lifecycle.
const (
	EventExtensionRequested = "extension_requested"
	EventExtensionApproved  = "extension_approved"
	EventExtensionDeclined  = "extension_declined"
)

// ExtensionWindow is how close to the end date a company must be before the
// extension action is offered.
const ExtensionWindow = 30 * 24 * time.Hour

// CanRequestExtension reports whether the extension action is available:
// within 30 days of the end date and no request already open.
func CanRequestExtension(endDate, now time.Time, alreadyRequested bool) bool {
	if alreadyRequested {
		return false
	}
	return !endDate.After(now.Add(ExtensionWindow))
}

// ExtensionService drives the none -> pending -> approved|rejected request
// flow. Athlete approval leaves extension_status pending: the final
// finalize step (applying the new end_date) belongs to an admin surface
// outside this service.
type ExtensionService struct {
	db  *models.DB
	log *logrus.Logger
}

// NewExtensionService creates a new ExtensionService
func NewExtensionService(db *models.DB, log *logrus.Logger) *ExtensionService {
	return &ExtensionService{db: db, log: log}
}

// Request opens an extension request on behalf of the company.
func (s *ExtensionService) Request(partnershipID uuid.UUID, months int, reason string) error {
	if months <= 0 {
		return fmt.Errorf("%w: extension months must be positive", ErrValidation)
	}

	err := s.db.Transaction(func(tx *models.DB) error {
		p, err := tx.Partnerships.Get(partnershipID)
		if err != nil {
			return err
		}

		if !CanRequestExtension(p.EndDate, time.Now(), p.ExtensionRequested) {
			return fmt.Errorf("%w: extension may only be requested within 30 days of the end date", ErrValidation)
		}
		if err := Extensions.Validate(string(p.ExtensionStatus), string(models.ExtensionPending)); err != nil {
			return err
		}

		p.ExtensionRequested = true
		p.ExtensionMonths = months
		p.ExtensionReason = reason
		p.ExtensionStatus = models.ExtensionPending
		p.AthleteApprovedExtension = false
		if err := tx.Partnerships.Update(p); err != nil {
			return err
		}

		athlete, err := tx.Users.Get(p.AthleteID)
		if err != nil {
			return err
		}

		return enqueue(tx,
			Email(EventExtensionRequested, athlete.Email, models.Payload{
				"athlete_name": athlete.Name,
				"months":       months,
			}),
			Notify(EventExtensionRequested, p.AthleteID,
				"Extension requested",
				fmt.Sprintf("Your partner company requested a %d month extension.", months)),
		)
	})
	if err != nil {
		return err
	}

	s.log.WithField("partnership_id", partnershipID).Info("extension requested")
	return nil
}

// AthleteApprove records the athlete's consent. The request stays pending
// until the admin finalize step, handled outside this service, applies the
// new end date.
func (s *ExtensionService) AthleteApprove(partnershipID uuid.UUID) error {
	err := s.db.Transaction(func(tx *models.DB) error {
		p, err := tx.Partnerships.Get(partnershipID)
		if err != nil {
			return err
		}

		if p.ExtensionStatus != models.ExtensionPending {
			return fmt.Errorf("%w: no pending extension to approve", ErrInvalidTransition)
		}

		p.AthleteApprovedExtension = true
		if err := tx.Partnerships.Update(p); err != nil {
			return err
		}

		return enqueue(tx,
			Notify(EventExtensionApproved, p.CompanyID,
				"Extension approved by athlete",
				"The athlete approved the extension. Awaiting final confirmation."),
		)
	})
	if err != nil {
		return err
	}

	s.log.WithField("partnership_id", partnershipID).Info("extension approved by athlete")
	return nil
}

// AthleteDecline rejects the request and clears the requested flag so the
// company may ask again while the window is open.
func (s *ExtensionService) AthleteDecline(partnershipID uuid.UUID) error {
	err := s.db.Transaction(func(tx *models.DB) error {
		p, err := tx.Partnerships.Get(partnershipID)
		if err != nil {
			return err
		}

		if err := Extensions.Validate(string(p.ExtensionStatus), string(models.ExtensionRejected)); err != nil {
			return err
		}

		p.ExtensionStatus = models.ExtensionRejected
		p.ExtensionRequested = false
		p.AthleteApprovedExtension = false
		if err := tx.Partnerships.Update(p); err != nil {
			return err
		}

		return enqueue(tx,
			Notify(EventExtensionDeclined, p.CompanyID,
				"Extension declined",
				"The athlete declined the extension request."),
		)
	})
	if err != nil {
		return err
	}

	s.log.WithField("partnership_id", partnershipID).Info("extension declined by athlete")
	return nil
}
