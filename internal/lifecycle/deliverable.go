package lifecycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bridged/internal/models"
)

// Email event types emitted by the deliverable lifecycle.
const (
	EventDeliverableSubmitted = "deliverable_submitted"
	EventDeliverableRevision  = "deliverable_needs_revision"
)

// Submission is the athlete's submit payload.
type Submission struct {
	URL      string
	Notes    string
	HasFile  bool // a new file upload accompanies the submission
}

// ValidateSubmission enforces the per-type payload rules before any store
// call: link requires a non-empty URL, file requires a new upload or an
// already-stored URL, text requires only notes.
func ValidateSubmission(subType models.SubmissionType, sub Submission, existingURL string) error {
	switch subType {
	case models.SubmissionLink:
		if sub.URL == "" {
			return fmt.Errorf("%w: a link submission requires a URL", ErrValidation)
		}
	case models.SubmissionFile:
		if !sub.HasFile && sub.URL == "" && existingURL == "" {
			return fmt.Errorf("%w: a file submission requires an uploaded file", ErrValidation)
		}
	case models.SubmissionText:
		if sub.Notes == "" {
			return fmt.Errorf("%w: a text submission requires notes", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown submission type %q", ErrValidation, subType)
	}
	return nil
}

// DeliverableService drives submission, review and manual status edits.
type DeliverableService struct {
	db  *models.DB
	log *logrus.Logger
}

// NewDeliverableService creates a new DeliverableService
func NewDeliverableService(db *models.DB, log *logrus.Logger) *DeliverableService {
	return &DeliverableService{db: db, log: log}
}

// Submit records the athlete's work and moves the deliverable to Completed.
// Allowed only from Not Started and Needs Revision.
func (s *DeliverableService) Submit(id uuid.UUID, sub Submission) error {
	err := s.db.Transaction(func(tx *models.DB) error {
		d, err := tx.Deliverables.Get(id)
		if err != nil {
			return err
		}

		if d.Status != models.DeliverableNotStarted && d.Status != models.DeliverableNeedsRevision {
			return fmt.Errorf("%w: cannot submit from %q", ErrInvalidTransition, d.Status)
		}
		if err := ValidateSubmission(d.SubmissionType, sub, d.SubmissionURL); err != nil {
			return err
		}

		now := time.Now()
		d.Status = models.DeliverableCompleted
		if sub.URL != "" {
			d.SubmissionURL = sub.URL
		}
		d.SubmissionNotes = sub.Notes
		d.SubmittedAt = &now
		if err := tx.Deliverables.Update(d); err != nil {
			return err
		}

		partnership, err := tx.Partnerships.Get(d.PartnershipID)
		if err != nil {
			return err
		}

		return enqueue(tx,
			Notify(EventDeliverableSubmitted, partnership.CompanyID,
				"Deliverable submitted",
				fmt.Sprintf("Week %d deliverable was submitted for review.", d.WeekNumber)),
		)
	})
	if err != nil {
		return err
	}

	s.log.WithField("deliverable_id", id).Info("deliverable submitted")
	return nil
}

// Review sends a completed deliverable back for revision with feedback.
// Feedback is required; this is the only path into Needs Revision.
func (s *DeliverableService) Review(id uuid.UUID, feedback string) error {
	if feedback == "" {
		return fmt.Errorf("%w: revision feedback is required", ErrValidation)
	}

	err := s.db.Transaction(func(tx *models.DB) error {
		d, err := tx.Deliverables.Get(id)
		if err != nil {
			return err
		}

		if err := Deliverables.Validate(string(d.Status), string(models.DeliverableNeedsRevision)); err != nil {
			return err
		}

		d.Status = models.DeliverableNeedsRevision
		d.Feedback = feedback
		if err := tx.Deliverables.Update(d); err != nil {
			return err
		}

		partnership, err := tx.Partnerships.Get(d.PartnershipID)
		if err != nil {
			return err
		}

		return enqueue(tx,
			Notify(EventDeliverableRevision, partnership.AthleteID,
				"Deliverable needs revision",
				fmt.Sprintf("Week %d deliverable needs another pass: %s", d.WeekNumber, feedback)),
		)
	})
	if err != nil {
		return err
	}

	s.log.WithField("deliverable_id", id).Info("deliverable sent back for revision")
	return nil
}

// Approve marks a completed deliverable approved.
func (s *DeliverableService) Approve(id uuid.UUID) error {
	return s.db.Transaction(func(tx *models.DB) error {
		d, err := tx.Deliverables.Get(id)
		if err != nil {
			return err
		}
		if err := Deliverables.Validate(string(d.Status), string(models.DeliverableApproved)); err != nil {
			return err
		}
		d.Status = models.DeliverableApproved
		return tx.Deliverables.Update(d)
	})
}

// SetStatus is the manual status selector for admins and companies. It may
// jump to any status except Needs Revision, which must go through Review so
// feedback is never skipped.
func (s *DeliverableService) SetStatus(id uuid.UUID, status models.DeliverableStatus) error {
	if status == models.DeliverableNeedsRevision {
		return fmt.Errorf("%w: use the review flow to request a revision", ErrValidation)
	}
	switch status {
	case models.DeliverableNotStarted, models.DeliverableInProgress,
		models.DeliverableCompleted, models.DeliverableApproved:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	return s.db.Transaction(func(tx *models.DB) error {
		d, err := tx.Deliverables.Get(id)
		if err != nil {
			return err
		}
		d.Status = status
		return tx.Deliverables.Update(d)
	})
}

// Delete removes a deliverable in any state. Irreversible.
func (s *DeliverableService) Delete(id uuid.UUID) error {
	if err := s.db.Deliverables.Delete(id); err != nil {
		return err
	}
	s.log.WithField("deliverable_id", id).Info("deliverable deleted")
	return nil
}
