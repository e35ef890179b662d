package models

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

var (
	testDB  *DB
	testDSN string
)

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

	testDSN = connStr
	testDB, err = Open(connStr)
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

func TestHealth(t *testing.T) {
	stats := testDB.Health()
	if stats["status"] != "up" {
		t.Fatalf("expected status to be up, got %s (error: %s)", stats["status"], stats["error"])
	}
}

func TestGetOrCreateUser(t *testing.T) {
	user, created, err := testDB.Users.GetOrCreate("google", "prov-123", User{
		Email: "new@example.com",
		Name:  "New User",
		Role:  RoleAthlete,
	})
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if !created {
		t.Error("first call should create the user")
	}
	if user.ID == 0 {
		t.Error("expected user ID to be populated")
	}

	again, created, err := testDB.Users.GetOrCreate("google", "prov-123", User{
		Email: "changed@example.com",
	})
	if err != nil {
		t.Fatalf("second GetOrCreate failed: %v", err)
	}
	if created {
		t.Error("second call should find the existing user")
	}
	if again.ID != user.ID || again.Email != "new@example.com" {
		t.Error("existing user must be returned unchanged")
	}
}

func TestPendingVerificationOrdering(t *testing.T) {
	first := &User{Provider: "google", ProviderID: "queue-1", Email: "queue1@example.com", Name: "Q1", Role: RoleAthlete}
	second := &User{Provider: "google", ProviderID: "queue-2", Email: "queue2@example.com", Name: "Q2", Role: RoleAthlete}
	for _, u := range []*User{first, second} {
		if err := testDB.Users.Create(u); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}

	queue, err := testDB.Users.PendingVerification()
	if err != nil {
		t.Fatalf("PendingVerification failed: %v", err)
	}

	posFirst, posSecond := -1, -1
	for i, u := range queue {
		switch u.ID {
		case first.ID:
			posFirst = i
		case second.ID:
			posSecond = i
		}
	}
	if posFirst == -1 || posSecond == -1 {
		t.Fatal("both athletes should be in the queue")
	}
	if posFirst > posSecond {
		t.Error("queue should drain in signup order, oldest first")
	}
}

func TestPartnershipBeforeCreateFillsFees(t *testing.T) {
	athlete := &User{Provider: "google", ProviderID: "fees-a", Email: "fees-a@example.com", Name: "A", Role: RoleAthlete}
	company := &User{Provider: "google", ProviderID: "fees-c", Email: "fees-c@example.com", Name: "C", Role: RoleCompany}
	for _, u := range []*User{athlete, company} {
		if err := testDB.Users.Create(u); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}

	p := &Partnership{
		AthleteID:      athlete.ID,
		CompanyID:      company.ID,
		MonthlyStipend: 2000,
		StartDate:      time.Now(),
		EndDate:        time.Now().AddDate(0, 0, DefaultPartnershipDays),
	}
	if err := testDB.Partnerships.Create(p); err != nil {
		t.Fatalf("failed to create partnership: %v", err)
	}

	if p.MonthlyServiceFee != 340 || p.TotalMonthlyCost != 2340 {
		t.Errorf("fees = %v / %v, want 340 / 2340", p.MonthlyServiceFee, p.TotalMonthlyCost)
	}
	if p.Status != PartnershipPending {
		t.Errorf("default status = %q, want pending", p.Status)
	}
}

func TestOnboardingStepsRoundTrip(t *testing.T) {
	athlete := &User{Provider: "google", ProviderID: "steps-a", Email: "steps-a@example.com", Name: "A", Role: RoleAthlete}
	company := &User{Provider: "google", ProviderID: "steps-c", Email: "steps-c@example.com", Name: "C", Role: RoleCompany}
	for _, u := range []*User{athlete, company} {
		if err := testDB.Users.Create(u); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}

	p := &Partnership{
		AthleteID: athlete.ID,
		CompanyID: company.ID,
		OnboardingSteps: OnboardingSteps{
			{StepNumber: 1, Name: "Kickoff call"},
			{StepNumber: 2, Name: "Sign paperwork"},
		},
	}
	if err := testDB.Partnerships.Create(p); err != nil {
		t.Fatalf("failed to create partnership: %v", err)
	}

	reloaded, err := testDB.Partnerships.Get(p.ID)
	if err != nil {
		t.Fatalf("failed to reload partnership: %v", err)
	}
	if len(reloaded.OnboardingSteps) != 2 || reloaded.OnboardingSteps[1].Name != "Sign paperwork" {
		t.Errorf("onboarding steps did not round-trip: %+v", reloaded.OnboardingSteps)
	}
}

func TestNotificationMarkReadScopedToOwner(t *testing.T) {
	owner := &User{Provider: "google", ProviderID: "notif-o", Email: "notif-o@example.com", Name: "O", Role: RoleAthlete}
	other := &User{Provider: "google", ProviderID: "notif-x", Email: "notif-x@example.com", Name: "X", Role: RoleAthlete}
	for _, u := range []*User{owner, other} {
		if err := testDB.Users.Create(u); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}

	n := &Notification{UserID: owner.ID, Title: "Hello"}
	if err := testDB.Notifications.Create(n); err != nil {
		t.Fatalf("failed to create notification: %v", err)
	}

	if err := testDB.Notifications.MarkRead(n.ID, other.ID); err != gorm.ErrRecordNotFound {
		t.Errorf("marking another user's notification should fail, got %v", err)
	}

	if err := testDB.Notifications.MarkRead(n.ID, owner.ID); err != nil {
		t.Fatalf("owner MarkRead failed: %v", err)
	}

	list, err := testDB.Notifications.ForUser(owner.ID, 10)
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}
	if len(list) != 1 || !list[0].Read {
		t.Errorf("notification was not marked read: %+v", list)
	}
}

func TestUnreadForRecipient(t *testing.T) {
	athlete := &User{Provider: "google", ProviderID: "chat-a", Email: "chat-a@example.com", Name: "A", Role: RoleAthlete}
	company := &User{Provider: "google", ProviderID: "chat-c", Email: "chat-c@example.com", Name: "C", Role: RoleCompany}
	for _, u := range []*User{athlete, company} {
		if err := testDB.Users.Create(u); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}

	p := &Partnership{AthleteID: athlete.ID, CompanyID: company.ID}
	if err := testDB.Partnerships.Create(p); err != nil {
		t.Fatalf("failed to create partnership: %v", err)
	}

	for _, m := range []*Message{
		{PartnershipID: p.ID, SenderID: company.ID, Body: "hi"},
		{PartnershipID: p.ID, SenderID: company.ID, Body: "checking in"},
		{PartnershipID: p.ID, SenderID: athlete.ID, Body: "hello"},
	} {
		if err := testDB.Messages.Create(m); err != nil {
			t.Fatalf("failed to create message: %v", err)
		}
	}

	unread, err := testDB.Messages.UnreadForRecipient(p.ID, athlete.ID)
	if err != nil {
		t.Fatalf("UnreadForRecipient failed: %v", err)
	}
	if len(unread) != 2 {
		t.Errorf("athlete should see 2 unread company messages, got %d", len(unread))
	}

	// The athlete's own message is not in their unread set.
	for _, msg := range unread {
		if msg.SenderID == athlete.ID {
			t.Error("own messages must not count as unread")
		}
	}
}

func TestModelListDuplicateEmail(t *testing.T) {
	entry := &ModelListEntry{AthleteName: "Dup", Email: "dup@example.com"}
	if err := testDB.ModelList.Create(entry); err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}

	dup := &ModelListEntry{AthleteName: "Dup Again", Email: "dup@example.com"}
	err := testDB.ModelList.Create(dup)
	if err == nil {
		t.Fatal("duplicate email should be rejected")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("expected a unique violation, got %v", err)
	}
}

func TestRunMigrations(t *testing.T) {
	// The shared test database is auto-migrated; the SQL migrations need a
	// fresh one.
	if err := testDB.Exec("CREATE DATABASE migrations_test").Error; err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	dsn := strings.Replace(testDSN, "/test_db", "/migrations_test", 1)
	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("failed to connect to migrations database: %v", err)
	}
	defer db.Close()

	t.Setenv("MIGRATIONS_URL", "file://../../migrations")

	migrator := NewMigrateAdapter(db.DB)
	if err := migrator.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	version, dirty, err := migrator.GetMigrationVersion()
	if err != nil {
		t.Fatalf("GetMigrationVersion failed: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("migration version = %d dirty=%v, want 1/false", version, dirty)
	}

	// The migrated schema accepts the GORM models.
	u := &User{Provider: "google", ProviderID: "migrated-1", Email: "migrated@example.com", Name: "M", Role: RoleAthlete}
	if err := db.Users.Create(u); err != nil {
		t.Errorf("migrated schema rejected a user insert: %v", err)
	}

	// A second run is a no-op.
	if err := migrator.RunMigrations(); err != nil {
		t.Errorf("re-running migrations should be a no-op, got %v", err)
	}
}

func TestOutboxDueOrderingAndLimit(t *testing.T) {
	now := time.Now()

	late := &OutboxEvent{Kind: OutboxEmail, EventType: "due-test", Status: OutboxPending, NextAttemptAt: now.Add(-time.Minute)}
	early := &OutboxEvent{Kind: OutboxEmail, EventType: "due-test", Status: OutboxPending, NextAttemptAt: now.Add(-time.Hour)}
	future := &OutboxEvent{Kind: OutboxEmail, EventType: "due-test", Status: OutboxPending, NextAttemptAt: now.Add(time.Hour)}
	for _, e := range []*OutboxEvent{late, early, future} {
		if err := testDB.Outbox.Create(e); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}
	}

	due, err := testDB.Outbox.Due(now, 50)
	if err != nil {
		t.Fatalf("Due failed: %v", err)
	}

	posEarly, posLate := -1, -1
	for i, e := range due {
		switch e.ID {
		case early.ID:
			posEarly = i
		case late.ID:
			posLate = i
		case future.ID:
			t.Error("future event must not be due")
		}
	}
	if posEarly == -1 || posLate == -1 {
		t.Fatal("both overdue events should be returned")
	}
	if posEarly > posLate {
		t.Error("due events should be ordered oldest first")
	}
}
