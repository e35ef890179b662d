package lifecycle

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bridged/internal/models"
)

// Email event types emitted by the model list lifecycle.
const (
	EventModelListApproved = "model_list_approved"
	EventModelListRejected = "model_list_rejected"
)

// ModelListService drives the admin-only Pending -> Approved|Rejected queue
// for the brand photo/video roster.
type ModelListService struct {
	db  *models.DB
	log *logrus.Logger
}

// NewModelListService creates a new ModelListService
func NewModelListService(db *models.DB, log *logrus.Logger) *ModelListService {
	return &ModelListService{db: db, log: log}
}

// Approve adds the athlete to the model list.
func (s *ModelListService) Approve(id uuid.UUID) error {
	return s.transition(id, models.ModelListApproved, EventModelListApproved,
		"You've been approved for the Bridged model list. Brands can now book you for campaigns.")
}

// Reject declines the model list entry.
func (s *ModelListService) Reject(id uuid.UUID) error {
	return s.transition(id, models.ModelListRejected, EventModelListRejected,
		"Your model list application was not approved at this time.")
}

func (s *ModelListService) transition(id uuid.UUID, target models.ModelListStatus, eventType, body string) error {
	err := s.db.Transaction(func(tx *models.DB) error {
		entry, err := tx.ModelList.Get(id)
		if err != nil {
			return err
		}

		if err := ModelList.Validate(string(entry.Status), string(target)); err != nil {
			return err
		}

		entry.Status = target
		if err := tx.ModelList.Update(entry); err != nil {
			return err
		}

		return enqueue(tx,
			Email(eventType, entry.Email, models.Payload{
				"athlete_name": entry.AthleteName,
				"body":         body,
			}),
		)
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"entry_id": id, "status": target}).Info("model list entry reviewed")
	return nil
}
