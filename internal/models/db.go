package models

import (
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the database connection and all model managers
type DB struct {
	*gorm.DB
	Users         *UserManager
	Applications  *ApplicationManager
	Partnerships  *PartnershipManager
	Deliverables  *DeliverableManager
	Payments      *PaymentManager
	ModelList     *ModelListManager
	Campaigns     *CampaignManager
	Messages      *MessageManager
	Notifications *NotificationManager
	EmailLogs     *EmailLogManager
	Outbox        *OutboxManager
}

// NewDB creates a new database connection and initializes all managers
func NewDB() (*DB, error) {
	dsn := os.Getenv("DB_STRING")
	if dsn == "" {
		return nil, fmt.Errorf("DB_STRING environment variable not set")
	}
	return Open(dsn)
}

// Open connects to the given DSN and initializes all managers
func Open(dsn string) (*DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return wrap(gormDB), nil
}

func wrap(gormDB *gorm.DB) *DB {
	return &DB{
		DB:            gormDB,
		Users:         NewUserManager(gormDB),
		Applications:  NewApplicationManager(gormDB),
		Partnerships:  NewPartnershipManager(gormDB),
		Deliverables:  NewDeliverableManager(gormDB),
		Payments:      NewPaymentManager(gormDB),
		ModelList:     NewModelListManager(gormDB),
		Campaigns:     NewCampaignManager(gormDB),
		Messages:      NewMessageManager(gormDB),
		Notifications: NewNotificationManager(gormDB),
		EmailLogs:     NewEmailLogManager(gormDB),
		Outbox:        NewOutboxManager(gormDB),
	}
}

// AutoMigrate runs GORM auto-migration for all models
func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&User{},
		&Application{},
		&Partnership{},
		&Deliverable{},
		&Payment{},
		&ModelListEntry{},
		&AffiliateCampaign{},
		&ContentPartnership{},
		&Message{},
		&Notification{},
		&EmailLog{},
		&OutboxEvent{},
	)
}

// Transaction runs a function within a database transaction
func (db *DB) Transaction(fn func(*DB) error) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		return fn(wrap(tx))
	})
}

// Health reports connectivity and basic pool statistics.
func (db *DB) Health() map[string]string {
	stats := make(map[string]string)

	sqlDB, err := db.DB.DB()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}
	if err := sqlDB.Ping(); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	stats["status"] = "up"
	stats["open_connections"] = fmt.Sprintf("%d", sqlDB.Stats().OpenConnections)
	return stats
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsUniqueViolation reports whether the error is a Postgres unique
// constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Django-like convenience methods

// GetObjectOr404 retrieves an object or returns an error (similar to Django's get_object_or_404)
func GetObjectOr404[T any](db *gorm.DB, conditions ...interface{}) (*T, error) {
	var obj T
	err := db.First(&obj, conditions...).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("object not found")
		}
		return nil, err
	}
	return &obj, nil
}

// Exists checks if a record exists (similar to Django's exists())
func Exists[T any](db *gorm.DB, conditions ...interface{}) (bool, error) {
	var count int64
	err := db.Model(new(T)).Where(conditions[0], conditions[1:]...).Count(&count).Error
	return count > 0, err
}

// Count returns the count of records (similar to Django's count())
func Count[T any](db *gorm.DB, conditions ...interface{}) (int64, error) {
	var count int64
	query := db.Model(new(T))
	if len(conditions) > 0 {
		query = query.Where(conditions[0], conditions[1:]...)
	}
	err := query.Count(&count).Error
	return count, err
}
