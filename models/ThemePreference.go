package models

import "gorm.io/gorm"

// ThemePreference is the durable copy of a visitor's display mode. VisitorKey
// holds a digest of the visitor identifier, never the raw value.
type ThemePreference struct {
	gorm.Model
	VisitorKey string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Theme      string `gorm:"type:varchar(16);not null;default:dark"`
}
