package lifecycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bridged/internal/models"
)

// Email event types emitted by the application lifecycle.
const (
	EventApplicationAccepted = "application_accepted"
	EventApplicationRejected = "application_rejected"
)

// ApplicationService drives the applied -> accepted|rejected machine and the
// Partnership promotion on acceptance.
type ApplicationService struct {
	db  *models.DB
	log *logrus.Logger
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(db *models.DB, log *logrus.Logger) *ApplicationService {
	return &ApplicationService{db: db, log: log}
}

// Accept transitions an application to accepted and creates the resulting
// Partnership: pending status, a window of today..today+90 days, and fee
// fields derived from the stipend. The acceptance email is enqueued in the
// same transaction.
func (s *ApplicationService) Accept(id uuid.UUID, stipend float64, partnershipType models.PartnershipType) (*models.Partnership, error) {
	var partnership *models.Partnership

	err := s.db.Transaction(func(tx *models.DB) error {
		app, err := tx.Applications.Get(id)
		if err != nil {
			return err
		}

		if err := Applications.Validate(string(app.Status), string(models.ApplicationAccepted)); err != nil {
			return err
		}

		athlete, err := tx.Users.Get(app.AthleteID)
		if err != nil {
			return fmt.Errorf("athlete lookup: %w", err)
		}

		app.Status = models.ApplicationAccepted
		if err := tx.Applications.Update(app); err != nil {
			return err
		}

		serviceFee, totalCost := models.ComputeFees(stipend)
		now := time.Now()
		partnership = &models.Partnership{
			AthleteID:         app.AthleteID,
			CompanyID:         app.CompanyID,
			Status:            models.PartnershipPending,
			Type:              partnershipType,
			StartDate:         now,
			EndDate:           now.AddDate(0, 0, models.DefaultPartnershipDays),
			MonthlyStipend:    stipend,
			MonthlyServiceFee: serviceFee,
			TotalMonthlyCost:  totalCost,
			OnboardingSteps:   DefaultOnboardingSteps(),
		}
		if err := tx.Partnerships.Create(partnership); err != nil {
			return err
		}

		return enqueue(tx,
			Email(EventApplicationAccepted, athlete.Email, models.Payload{
				"athlete_name":   athlete.Name,
				"partnership_id": partnership.ID.String(),
			}),
			Notify(EventApplicationAccepted, athlete.ID,
				"Application accepted",
				"Congratulations! Your application was accepted and a partnership has been created."),
		)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"application_id": id,
		"partnership_id": partnership.ID,
	}).Info("application accepted, partnership created")

	return partnership, nil
}

// Reject transitions an application to rejected and enqueues the rejection
// email to the athlete.
func (s *ApplicationService) Reject(id uuid.UUID) error {
	err := s.db.Transaction(func(tx *models.DB) error {
		app, err := tx.Applications.Get(id)
		if err != nil {
			return err
		}

		if err := Applications.Validate(string(app.Status), string(models.ApplicationRejected)); err != nil {
			return err
		}

		athlete, err := tx.Users.Get(app.AthleteID)
		if err != nil {
			return fmt.Errorf("athlete lookup: %w", err)
		}

		app.Status = models.ApplicationRejected
		if err := tx.Applications.Update(app); err != nil {
			return err
		}

		return enqueue(tx,
			Email(EventApplicationRejected, athlete.Email, models.Payload{
				"athlete_name": athlete.Name,
			}),
		)
	})
	if err != nil {
		return err
	}

	s.log.WithField("application_id", id).Info("application rejected")
	return nil
}

// DefaultOnboardingSteps is the checklist attached to every new partnership.
func DefaultOnboardingSteps() models.OnboardingSteps {
	return models.OnboardingSteps{
		{StepNumber: 1, Name: "Kickoff call", Description: "Introductory call between athlete and company"},
		{StepNumber: 2, Name: "Sign paperwork", Description: "Complete all required agreements"},
		{StepNumber: 3, Name: "Set deliverables", Description: "Agree on the weekly deliverable schedule"},
	}
}
