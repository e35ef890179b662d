package outbox

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"bridged/internal/logger"
	"bridged/internal/models"
)

var testDB *models.DB

// mustStartPostgresContainer starts a postgres container and returns a teardown function,
// a connection string, and an error.
func mustStartPostgresContainer() (func(context.Context, ...testcontainers.TerminateOption) error, string, error) {
	var (
		dbName = "test_db"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, "", fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, "", fmt.Errorf("failed to get container mapped port: %w", err)
	}

	connStr := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPwd, host, port.Port(), dbName)

	return dbContainer.Terminate, connStr, nil
}

func TestMain(m *testing.M) {
	teardown, connStr, err := mustStartPostgresContainer()
	if err != nil {
		log.Fatalf("could not start postgres container for tests: %v", err)
	}

	testDB, err = models.Open(connStr)
	if err != nil {
		log.Fatalf("could not connect to test database: %v", err)
	}
	if err := testDB.AutoMigrate(); err != nil {
		log.Fatalf("could not migrate test database: %v", err)
	}

	exitCode := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
	os.Exit(exitCode)
}

// stubSender records sends and optionally fails every call.
type stubSender struct {
	mu    sync.Mutex
	sent  []string
	fail  bool
	calls int
}

func (s *stubSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail {
		return errors.New("provider unavailable")
	}
	s.sent = append(s.sent, to)
	return nil
}

func enqueueEmail(t *testing.T, eventType, to string) *models.OutboxEvent {
	t.Helper()
	event := &models.OutboxEvent{
		Kind:      models.OutboxEmail,
		EventType: eventType,
		Status:    models.OutboxPending,
		Payload:   models.Payload{"to": to, "athlete_name": "Jordan"},
	}
	if err := testDB.Outbox.Create(event); err != nil {
		t.Fatalf("failed to enqueue event: %v", err)
	}
	return event
}

func TestProcessDueDeliversEmailAndLogs(t *testing.T) {
	sender := &stubSender{}
	d := NewDispatcher(testDB, sender, logger.Get())

	event := enqueueEmail(t, "application_accepted", "deliver-me@example.com")

	if err := d.ProcessDue(context.Background()); err != nil {
		t.Fatalf("ProcessDue failed: %v", err)
	}

	if len(sender.sent) == 0 || sender.sent[len(sender.sent)-1] != "deliver-me@example.com" {
		t.Fatalf("sender was not called for the event, sent=%v", sender.sent)
	}

	var reloaded models.OutboxEvent
	if err := testDB.First(&reloaded, "id = ?", event.ID).Error; err != nil {
		t.Fatalf("failed to reload event: %v", err)
	}
	if reloaded.Status != models.OutboxSent || reloaded.SentAt == nil {
		t.Errorf("event status = %q, sent_at = %v", reloaded.Status, reloaded.SentAt)
	}

	logs, err := testDB.EmailLogs.Filter(map[string]interface{}{"recipient": "deliver-me@example.com"})
	if err != nil {
		t.Fatalf("failed to query email logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Status != "sent" {
		t.Errorf("expected one sent email log, got %+v", logs)
	}
}

func TestProcessDueCreatesNotification(t *testing.T) {
	sender := &stubSender{}
	d := NewDispatcher(testDB, sender, logger.Get())

	event := &models.OutboxEvent{
		Kind:      models.OutboxNotification,
		EventType: "deliverable_submitted",
		Status:    models.OutboxPending,
		Payload: models.Payload{
			"user_id": 4242,
			"title":   "Deliverable submitted",
			"message": "Week 1 deliverable was submitted for review.",
		},
	}
	if err := testDB.Outbox.Create(event); err != nil {
		t.Fatalf("failed to enqueue event: %v", err)
	}

	if err := d.ProcessDue(context.Background()); err != nil {
		t.Fatalf("ProcessDue failed: %v", err)
	}

	notifications, err := testDB.Notifications.ForUser(4242, 10)
	if err != nil {
		t.Fatalf("failed to fetch notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifications))
	}
	if notifications[0].Title != "Deliverable submitted" {
		t.Errorf("notification title = %q", notifications[0].Title)
	}
}

func TestFailureSchedulesRetry(t *testing.T) {
	sender := &stubSender{fail: true}
	d := NewDispatcher(testDB, sender, logger.Get())

	event := enqueueEmail(t, "application_accepted", "retry-me@example.com")

	if err := d.ProcessDue(context.Background()); err != nil {
		t.Fatalf("ProcessDue failed: %v", err)
	}

	var reloaded models.OutboxEvent
	if err := testDB.First(&reloaded, "id = ?", event.ID).Error; err != nil {
		t.Fatalf("failed to reload event: %v", err)
	}
	if reloaded.Status != models.OutboxPending {
		t.Errorf("a first failure should stay pending for retry, got %q", reloaded.Status)
	}
	if reloaded.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", reloaded.Attempts)
	}
	if !reloaded.NextAttemptAt.After(time.Now()) {
		t.Error("next attempt should be scheduled in the future")
	}
	if reloaded.LastError == "" {
		t.Error("last error should be recorded")
	}
}

func TestFailureParksAfterMaxAttempts(t *testing.T) {
	sender := &stubSender{fail: true}
	d := NewDispatcher(testDB, sender, logger.Get())

	event := enqueueEmail(t, "verification_rejected", "park-me@example.com")
	event.Attempts = MaxAttempts - 1
	if err := testDB.Outbox.Update(event); err != nil {
		t.Fatalf("failed to prime attempts: %v", err)
	}

	if err := d.ProcessDue(context.Background()); err != nil {
		t.Fatalf("ProcessDue failed: %v", err)
	}

	var reloaded models.OutboxEvent
	if err := testDB.First(&reloaded, "id = ?", event.ID).Error; err != nil {
		t.Fatalf("failed to reload event: %v", err)
	}
	if reloaded.Status != models.OutboxFailed {
		t.Errorf("event should be parked as failed, got %q", reloaded.Status)
	}

	logs, err := testDB.EmailLogs.Filter(map[string]interface{}{"recipient": "park-me@example.com"})
	if err != nil {
		t.Fatalf("failed to query email logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Status != "failed" {
		t.Errorf("expected one failed email log, got %+v", logs)
	}
}

func TestEmailLogFailureDoesNotResend(t *testing.T) {
	sender := &stubSender{}
	d := NewDispatcher(testDB, sender, logger.Get())

	event := enqueueEmail(t, "application_accepted", "once-only@example.com")

	// Detach the email log table so bookkeeping fails after a successful send.
	if err := testDB.Exec("ALTER TABLE email_logs RENAME TO email_logs_unavailable").Error; err != nil {
		t.Fatalf("failed to detach email log table: %v", err)
	}
	restored := false
	restore := func() {
		if restored {
			return
		}
		restored = true
		if err := testDB.Exec("ALTER TABLE email_logs_unavailable RENAME TO email_logs").Error; err != nil {
			t.Fatalf("failed to restore email log table: %v", err)
		}
	}
	defer restore()

	if err := d.ProcessDue(context.Background()); err != nil {
		t.Fatalf("ProcessDue failed: %v", err)
	}

	var reloaded models.OutboxEvent
	if err := testDB.First(&reloaded, "id = ?", event.ID).Error; err != nil {
		t.Fatalf("failed to reload event: %v", err)
	}
	if reloaded.Status != models.OutboxSent {
		t.Errorf("event status = %q, want sent despite the bookkeeping failure", reloaded.Status)
	}

	restore()

	// A second tick must not pick the event up and resend the email.
	if err := d.ProcessDue(context.Background()); err != nil {
		t.Fatalf("second ProcessDue failed: %v", err)
	}
	count := 0
	for _, to := range sender.sent {
		if to == "once-only@example.com" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("email sent %d times, want exactly once", count)
	}
}

func TestEventsNotYetDueAreSkipped(t *testing.T) {
	sender := &stubSender{}
	d := NewDispatcher(testDB, sender, logger.Get())

	event := enqueueEmail(t, "application_accepted", "later@example.com")
	event.NextAttemptAt = time.Now().Add(time.Hour)
	if err := testDB.Outbox.Update(event); err != nil {
		t.Fatalf("failed to push next attempt: %v", err)
	}

	if err := d.ProcessDue(context.Background()); err != nil {
		t.Fatalf("ProcessDue failed: %v", err)
	}

	for _, to := range sender.sent {
		if to == "later@example.com" {
			t.Fatal("event scheduled in the future must not be delivered yet")
		}
	}

	var reloaded models.OutboxEvent
	if err := testDB.First(&reloaded, "id = ?", event.ID).Error; err != nil {
		t.Fatalf("failed to reload event: %v", err)
	}
	if reloaded.Status != models.OutboxPending {
		t.Errorf("status = %q, want pending", reloaded.Status)
	}
}
