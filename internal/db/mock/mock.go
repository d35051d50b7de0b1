package mock

import (
	"context"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	database "mlsweb/internal/db"
	applog "mlsweb/internal/log"
	"mlsweb/models"
)

// DSN names the shared in-memory sqlite database used for local development.
const DSN = "file:mlsweb-mock?mode=memory&cache=shared"

// New returns an in-memory sqlite database seeded with a sample journal so the
// site can run without postgres.
func New(ctx context.Context) (*gorm.DB, error) {
	return Open(ctx, DSN)
}

// Open is New with an explicit DSN, letting tests isolate their databases.
func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database", "dsn", dsn)

	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig())
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.ContactSubmission{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		applog.Debug(ctx, "mock database already seeded")
		return nil
	}

	applog.Debug(ctx, "seeding mock database")

	entries := []models.ContactSubmission{
		{
			Name:      "Rana Haddad",
			Phone:     "71 000 111",
			EventType: "wedding",
			Message:   "Outdoor ceremony for 250 guests in June, looking for sound and uplighting.",
			Status:    models.SubmissionSucceeded,
		},
		{
			Name:         "Karim",
			Phone:        "call me",
			EventType:    "concert/show",
			Message:      "Need a full stage rig.",
			Status:       models.SubmissionFailed,
			ErrorSummary: "phone: should be a valid phone number",
		},
	}
	return db.WithContext(ctx).Create(&entries).Error
}
