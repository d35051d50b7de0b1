package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mlsweb/internal/config"
	"mlsweb/internal/contact"
	"mlsweb/internal/theme"
	"mlsweb/models"
)

func openSQLite(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate sqlite database: %v", err)
	}
	return db
}

func TestInitializeRequiresURL(t *testing.T) {
	t.Parallel()

	db, err := Initialize(config.DatabaseConfig{URL: ""})
	if err == nil {
		t.Fatal("expected error when database URL is empty")
	}
	if db != nil {
		t.Fatal("expected returned db handle to be nil on error")
	}
}

func TestAutoMigrateRejectsNilDatabase(t *testing.T) {
	t.Parallel()

	if err := AutoMigrate(nil); err == nil {
		t.Fatal("expected error when database handle is nil")
	}
}

func TestConfigurePropagatesInitializationError(t *testing.T) {
	t.Parallel()

	if _, err := Configure(config.DatabaseConfig{}); err == nil {
		t.Fatal("expected configuration error when initialize fails")
	}
}

func TestMissingPreferenceLogsNoError(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	cfg := GormConfig()
	if cfg.NowFunc().Location() != time.UTC {
		t.Fatal("expected timestamps in UTC")
	}

	strict := logger.New(recordingWriter{&buf}, logger.Config{LogLevel: logger.Info})
	cfg.Logger = strict
	database, err := gorm.Open(sqlite.Open("file:gorm-config?mode=memory&cache=shared"), cfg)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := AutoMigrate(database); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	storage := ThemePreferenceStorage{DB: database, VisitorKey: VisitorKey("nobody")}
	raw, err := storage.Load(context.Background())
	if err != nil || raw != "" {
		t.Fatalf("Load() = %q, %v; want empty", raw, err)
	}
	if strings.Contains(buf.String(), "record not found") {
		t.Fatalf("expected no record-not-found log, got %q", buf.String())
	}
}

type recordingWriter struct{ b *strings.Builder }

func (w recordingWriter) Printf(format string, args ...any) {
	fmt.Fprintf(w.b, format, args...)
}

func TestVisitorKeyIsStableDigest(t *testing.T) {
	t.Parallel()

	a := VisitorKey("6f1c1f4e-1111-4a4a-9c9c-000000000001")
	b := VisitorKey(" 6f1c1f4e-1111-4a4a-9c9c-000000000001 ")
	if a != b {
		t.Fatalf("expected surrounding whitespace to be ignored: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(a))
	}
	if strings.Contains(a, "6f1c1f4e") {
		t.Fatal("visitor key must not contain the raw identifier")
	}
	if a == VisitorKey("someone-else") {
		t.Fatal("expected distinct visitors to have distinct keys")
	}
}

func TestThemePreferenceStorageRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database := openSQLite(t, "theme-pref-test")
	storage := ThemePreferenceStorage{DB: database, VisitorKey: VisitorKey("visitor-1")}

	raw, err := storage.Load(ctx)
	if err != nil {
		t.Fatalf("Load() on empty table error = %v", err)
	}
	if raw != "" {
		t.Fatalf("expected empty value before first save, got %q", raw)
	}

	store, err := theme.NewStore(ctx, storage)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store.Get() != theme.Dark {
		t.Fatalf("expected default dark, got %s", store.Get())
	}
	if _, err := store.Toggle(ctx); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if _, err := store.Toggle(ctx); err != nil {
		t.Fatalf("second Toggle() error = %v", err)
	}
	if _, err := store.Toggle(ctx); err != nil {
		t.Fatalf("third Toggle() error = %v", err)
	}

	var rows []models.ThemePreference
	if err := database.Find(&rows).Error; err != nil {
		t.Fatalf("query preferences: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected upsert to keep one row per visitor, got %d", len(rows))
	}

	reloaded, err := theme.NewStore(ctx, storage)
	if err != nil {
		t.Fatalf("NewStore() reload error = %v", err)
	}
	if reloaded.Get() != theme.Light {
		t.Fatalf("expected persisted light theme, got %s", reloaded.Get())
	}
}

func TestThemePreferenceStorageRequiresDatabase(t *testing.T) {
	t.Parallel()

	if _, err := (ThemePreferenceStorage{}).Load(context.Background()); !errors.Is(err, gorm.ErrInvalidDB) {
		t.Fatalf("expected ErrInvalidDB, got %v", err)
	}
}

func TestSubmissionJournalRecordsOutcomes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	journal := SubmissionJournal{DB: openSQLite(t, "journal-test")}
	draft := contact.Draft{Name: "Jo", Phone: "123", EventType: "wedding", Message: "hi"}

	if err := journal.Record(ctx, "k1", draft, contact.Outcome{Status: contact.Succeeded}); err != nil {
		t.Fatalf("Record(succeeded) error = %v", err)
	}
	rejected := contact.Outcome{Status: contact.Failed, Errors: contact.FieldErrors{"phone": "invalid", "name": "required"}}
	if err := journal.Record(ctx, "k1", draft, rejected); err != nil {
		t.Fatalf("Record(failed) error = %v", err)
	}

	entries, err := journal.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Status != models.SubmissionFailed {
		t.Fatalf("expected newest entry first, got %+v", entries[0])
	}
	if entries[0].ErrorSummary != "name: required; phone: invalid" {
		t.Fatalf("unexpected error summary %q", entries[0].ErrorSummary)
	}
	if !entries[1].Succeeded() || entries[1].Message != "hi" {
		t.Fatalf("unexpected succeeded entry %+v", entries[1])
	}
}
