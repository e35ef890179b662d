package lifecycle

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bridged/internal/models"
)

// Notification event types emitted by the partnership lifecycle.
const (
	EventPartnershipActivated = "partnership_activated"
	EventPartnershipCompleted = "partnership_completed"
	EventPartnershipCancelled = "partnership_cancelled"
)

// PartnershipService drives the pending -> active -> completed|cancelled
// status flow through the shared transition table.
type PartnershipService struct {
	db  *models.DB
	log *logrus.Logger
}

// NewPartnershipService creates a new PartnershipService
func NewPartnershipService(db *models.DB, log *logrus.Logger) *PartnershipService {
	return &PartnershipService{db: db, log: log}
}

// SetStatus moves the partnership to the target status when the transition
// table allows it, notifying the athlete of the change.
func (s *PartnershipService) SetStatus(partnershipID uuid.UUID, target models.PartnershipStatus) (*models.Partnership, error) {
	var updated *models.Partnership

	err := s.db.Transaction(func(tx *models.DB) error {
		p, err := tx.Partnerships.Get(partnershipID)
		if err != nil {
			return err
		}

		if err := Partnerships.Validate(string(p.Status), string(target)); err != nil {
			return err
		}

		p.Status = target
		if err := tx.Partnerships.Update(p); err != nil {
			return err
		}
		updated = p

		switch target {
		case models.PartnershipActive:
			return enqueue(tx, Notify(EventPartnershipActivated, p.AthleteID,
				"Partnership active",
				"Your partnership is now active. Check your dashboard for deliverables and payments."))
		case models.PartnershipCompleted:
			return enqueue(tx, Notify(EventPartnershipCompleted, p.AthleteID,
				"Partnership completed",
				"Your partnership has been marked completed."))
		case models.PartnershipCancelled:
			return enqueue(tx, Notify(EventPartnershipCancelled, p.AthleteID,
				"Partnership cancelled",
				"Your partnership has been cancelled."))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"partnership_id": partnershipID,
		"status":         target,
	}).Info("partnership status updated")
	return updated, nil
}
