package lifecycle

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"bridged/internal/models"
)

// Email event types emitted by the verification lifecycle.
const (
	EventVerificationApproved = "verification_approved"
	EventVerificationRejected = "verification_rejected"
)

// VerificationService drives the athlete verification queue. The AI
// confidence score and ai_status are advisory display fields: the admin
// decides regardless of the score, and nothing here branches on it.
type VerificationService struct {
	db  *models.DB
	log *logrus.Logger
}

// NewVerificationService creates a new VerificationService
func NewVerificationService(db *models.DB, log *logrus.Logger) *VerificationService {
	return &VerificationService{db: db, log: log}
}

// Approve marks the athlete verified and the AI status auto-approved, then
// enqueues the confirmation email and notification.
func (s *VerificationService) Approve(athleteID int) error {
	err := s.db.Transaction(func(tx *models.DB) error {
		athlete, err := tx.Users.Get(athleteID)
		if err != nil {
			return err
		}
		if athlete.Role != models.RoleAthlete {
			return fmt.Errorf("%w: user %d is not an athlete", ErrValidation, athleteID)
		}

		if err := Verifications.Validate(string(athlete.VerificationStatus), string(models.VerificationVerified)); err != nil {
			return err
		}

		athlete.VerificationStatus = models.VerificationVerified
		athlete.AIStatus = models.AIAutoApproved
		if err := tx.Users.Update(athlete); err != nil {
			return err
		}

		return enqueue(tx,
			Email(EventVerificationApproved, athlete.Email, models.Payload{
				"athlete_name": athlete.Name,
			}),
			Notify(EventVerificationApproved, athlete.ID,
				"You're verified",
				"Your athlete profile has been verified. Companies can now see your profile."),
		)
	})
	if err != nil {
		return err
	}

	s.log.WithField("athlete_id", athleteID).Info("athlete verification approved")
	return nil
}

// Reject marks the athlete rejected with the AI status on hold and records
// the reason in admin notes. The rejection email embeds the reason, falling
// back to generic text when none was given.
func (s *VerificationService) Reject(athleteID int, reason string) error {
	err := s.db.Transaction(func(tx *models.DB) error {
		athlete, err := tx.Users.Get(athleteID)
		if err != nil {
			return err
		}
		if athlete.Role != models.RoleAthlete {
			return fmt.Errorf("%w: user %d is not an athlete", ErrValidation, athleteID)
		}

		if err := Verifications.Validate(string(athlete.VerificationStatus), string(models.VerificationRejected)); err != nil {
			return err
		}

		athlete.VerificationStatus = models.VerificationRejected
		athlete.AIStatus = models.AIHold
		athlete.AdminNotes = reason
		if err := tx.Users.Update(athlete); err != nil {
			return err
		}

		emailReason := reason
		if emailReason == "" {
			emailReason = "Your profile did not meet our verification requirements."
		}

		return enqueue(tx,
			Email(EventVerificationRejected, athlete.Email, models.Payload{
				"athlete_name": athlete.Name,
				"reason":       emailReason,
			}),
		)
	})
	if err != nil {
		return err
	}

	s.log.WithField("athlete_id", athleteID).Info("athlete verification rejected")
	return nil
}
