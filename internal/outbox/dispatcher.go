// Package outbox delivers the durable side effects (emails, in-app
// notifications) written alongside state transitions. Delivery is
// best-effort with retry: a transition is never rolled back because its
// side effect could not be sent.
package outbox

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"bridged/internal/email"
	"bridged/internal/models"
)

// MaxAttempts is how many deliveries are tried before an event is parked
// as failed.
const MaxAttempts = 5

// batchSize caps how many due events one tick processes.
const batchSize = 50

// NextAttemptDelay returns the backoff before the next retry, doubling
// per attempt and capped at one hour.
func NextAttemptDelay(attempts int) time.Duration {
	d := time.Minute << uint(attempts)
	if d > time.Hour {
		return time.Hour
	}
	return d
}

// Dispatcher polls the outbox on a cron tick and delivers due events.
type Dispatcher struct {
	db     *models.DB
	sender email.Sender
	log    *logrus.Logger
	cron   *cron.Cron
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(db *models.DB, sender email.Sender, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		db:     db,
		sender: sender,
		log:    log,
		cron:   cron.New(),
	}
}

// Start schedules the dispatch tick. cronSpec is a standard cron
// expression, e.g. "* * * * *" for every minute.
func (d *Dispatcher) Start(cronSpec string) error {
	_, err := d.cron.AddFunc(cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := d.ProcessDue(ctx); err != nil {
			d.log.WithError(err).Error("outbox tick failed")
		}
	})
	if err != nil {
		return err
	}
	d.cron.Start()
	d.log.Info("outbox dispatcher started")
	return nil
}

// Stop stops the cron engine and waits for a running tick to finish.
func (d *Dispatcher) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
	d.log.Info("outbox dispatcher stopped")
}

// ProcessDue delivers every pending event whose next attempt time has
// passed. Each event is handled independently; one failure does not stop
// the batch.
func (d *Dispatcher) ProcessDue(ctx context.Context) error {
	events, err := d.db.Outbox.Due(time.Now(), batchSize)
	if err != nil {
		return err
	}

	for i := range events {
		event := &events[i]
		if err := d.deliver(ctx, event); err != nil {
			d.fail(event, err)
			continue
		}
		now := time.Now()
		event.Status = models.OutboxSent
		event.SentAt = &now
		event.Attempts++
		if err := d.db.Outbox.Update(event); err != nil {
			d.log.WithError(err).WithField("event_id", event.ID).Error("failed to mark outbox event sent")
		}
	}
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, event *models.OutboxEvent) error {
	switch event.Kind {
	case models.OutboxEmail:
		to := event.Payload.String("to")
		subject, body := email.Render(event.EventType, event.Payload)
		if err := d.sender.Send(ctx, to, subject, body); err != nil {
			return err
		}
		// The email is already out; a bookkeeping failure must not put the
		// event back on the retry path and resend it.
		if err := d.db.EmailLogs.Create(&models.EmailLog{
			To:        to,
			Subject:   subject,
			EventType: event.EventType,
			Status:    "sent",
		}); err != nil {
			d.log.WithError(err).WithField("event_id", event.ID).Error("failed to record email log")
		}
		return nil

	case models.OutboxNotification:
		return d.db.Notifications.Create(&models.Notification{
			UserID:  event.Payload.Int("user_id"),
			Type:    event.EventType,
			Title:   event.Payload.String("title"),
			Message: event.Payload.String("message"),
		})

	default:
		// Unknown kinds are parked immediately rather than retried.
		return errUnknownKind(event.Kind)
	}
}

type errUnknownKind string

func (e errUnknownKind) Error() string {
	return "unknown outbox event kind: " + string(e)
}

// fail records a delivery failure: retry with backoff until MaxAttempts,
// then park as failed and log the attempt to the email log so the failure
// remains a queryable fact.
func (d *Dispatcher) fail(event *models.OutboxEvent, deliverErr error) {
	event.Attempts++
	event.LastError = deliverErr.Error()

	if event.Attempts >= MaxAttempts {
		event.Status = models.OutboxFailed
		if event.Kind == models.OutboxEmail {
			subject, _ := email.Render(event.EventType, event.Payload)
			if err := d.db.EmailLogs.Create(&models.EmailLog{
				To:        event.Payload.String("to"),
				Subject:   subject,
				EventType: event.EventType,
				Status:    "failed",
				Error:     deliverErr.Error(),
			}); err != nil {
				d.log.WithError(err).Error("failed to record email failure")
			}
		}
		d.log.WithFields(logrus.Fields{
			"event_id":   event.ID,
			"event_type": event.EventType,
		}).WithError(deliverErr).Error("outbox event failed permanently")
	} else {
		event.NextAttemptAt = time.Now().Add(NextAttemptDelay(event.Attempts))
		d.log.WithFields(logrus.Fields{
			"event_id": event.ID,
			"attempts": event.Attempts,
		}).WithError(deliverErr).Warn("outbox delivery failed, will retry")
	}

	if err := d.db.Outbox.Update(event); err != nil {
		d.log.WithError(err).WithField("event_id", event.ID).Error("failed to update outbox event")
	}
}
