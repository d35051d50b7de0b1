package db

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/blake2b"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mlsweb/internal/theme"
	"mlsweb/models"
)

// VisitorKey derives the identifier persisted for a visitor. Raw visitor IDs
// stay in the session cookie only.
func VisitorKey(visitorID string) string {
	sum := blake2b.Sum256([]byte(strings.TrimSpace(visitorID)))
	return hex.EncodeToString(sum[:])
}

// ThemePreferenceStorage keeps a visitor's theme setting in the
// theme_preferences table so it outlives the session cookie.
type ThemePreferenceStorage struct {
	DB         *gorm.DB
	VisitorKey string
}

func (s ThemePreferenceStorage) Load(ctx context.Context) (string, error) {
	if s.DB == nil {
		return "", gorm.ErrInvalidDB
	}
	if s.VisitorKey == "" {
		return "", nil
	}

	var prefs []models.ThemePreference
	result := s.DB.WithContext(ctx).Where("visitor_key = ?", s.VisitorKey).Limit(1).Find(&prefs)
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		return "", nil
	}
	return prefs[0].Theme, nil
}

func (s ThemePreferenceStorage) Save(ctx context.Context, value theme.Setting) error {
	if s.DB == nil {
		return gorm.ErrInvalidDB
	}
	if s.VisitorKey == "" {
		return errors.New("db: visitor key must not be empty")
	}

	pref := models.ThemePreference{VisitorKey: s.VisitorKey, Theme: value.String()}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "visitor_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"theme", "updated_at"}),
	}).Create(&pref).Error
}
