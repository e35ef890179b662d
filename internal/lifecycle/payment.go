package lifecycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bridged/internal/models"
)

// Email event types emitted by the payment lifecycle.
const (
	EventPaymentMarkedPaid = "payment_marked_paid"
)

// PaymentService drives the scheduled -> paid transition and materializes
// the monthly schedule when a partnership goes active.
type PaymentService struct {
	db  *models.DB
	log *logrus.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(db *models.DB, log *logrus.Logger) *PaymentService {
	return &PaymentService{db: db, log: log}
}

// MarkPaid records a payment as paid with today's date.
func (s *PaymentService) MarkPaid(id uuid.UUID) error {
	err := s.db.Transaction(func(tx *models.DB) error {
		p, err := tx.Payments.Get(id)
		if err != nil {
			return err
		}

		if err := Payments.Validate(string(p.Status), string(models.PaymentPaid)); err != nil {
			return err
		}

		now := time.Now()
		p.Status = models.PaymentPaid
		p.PaidDate = &now
		if err := tx.Payments.Update(p); err != nil {
			return err
		}

		partnership, err := tx.Partnerships.Get(p.PartnershipID)
		if err != nil {
			return err
		}

		return enqueue(tx,
			Notify(EventPaymentMarkedPaid, partnership.AthleteID,
				"Payment sent",
				fmt.Sprintf("A payment of $%.2f has been marked paid.", p.Amount)),
		)
	})
	if err != nil {
		return err
	}

	s.log.WithField("payment_id", id).Info("payment marked paid")
	return nil
}

// GenerateSchedule creates one scheduled payment per month of the
// partnership window at the total monthly cost, skipping months that
// already have a payment.
func (s *PaymentService) GenerateSchedule(partnershipID uuid.UUID) ([]models.Payment, error) {
	var created []models.Payment

	err := s.db.Transaction(func(tx *models.DB) error {
		p, err := tx.Partnerships.Get(partnershipID)
		if err != nil {
			return err
		}

		existing, err := tx.Payments.ForPartnership(partnershipID)
		if err != nil {
			return err
		}
		scheduled := make(map[string]bool, len(existing))
		for _, pay := range existing {
			scheduled[pay.ScheduledDate.Format("2006-01")] = true
		}

		// Iterate by month index from an anchored first-of-month so a
		// month-end start date cannot normalize past a short month
		// (Jan 31 + one month would otherwise land on Mar 3 and skip
		// February entirely).
		start := p.StartDate
		for i := 0; ; i++ {
			monthStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()).AddDate(0, i, 0)
			day := start.Day()
			if last := monthStart.AddDate(0, 1, -1).Day(); day > last {
				day = last
			}
			due := monthStart.AddDate(0, 0, day-1)
			if !due.Before(p.EndDate) {
				break
			}
			if scheduled[due.Format("2006-01")] {
				continue
			}
			payment := models.Payment{
				PartnershipID: p.ID,
				Status:        models.PaymentScheduled,
				Amount:        p.TotalMonthlyCost,
				ScheduledDate: due,
			}
			if err := tx.Payments.Create(&payment); err != nil {
				return err
			}
			created = append(created, payment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"partnership_id": partnershipID,
		"payments":       len(created),
	}).Info("payment schedule generated")
	return created, nil
}
