package db

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"mlsweb/internal/contact"
	"mlsweb/models"
)

// SubmissionJournal records every completed contact form attempt.
type SubmissionJournal struct {
	DB *gorm.DB
}

// Record stores the draft that was sent and how the attempt ended.
func (j SubmissionJournal) Record(ctx context.Context, visitorKey string, draft contact.Draft, outcome contact.Outcome) error {
	if j.DB == nil {
		return gorm.ErrInvalidDB
	}

	entry := models.ContactSubmission{
		VisitorKey:   visitorKey,
		Name:         draft.Name,
		Phone:        draft.Phone,
		EventType:    draft.EventType,
		Message:      draft.Message,
		Status:       models.SubmissionFailed,
		ErrorSummary: summarize(outcome),
	}
	if outcome.Status == contact.Succeeded {
		entry.Status = models.SubmissionSucceeded
	}
	return j.DB.WithContext(ctx).Create(&entry).Error
}

// Recent returns the latest journal entries, newest first.
func (j SubmissionJournal) Recent(ctx context.Context, limit int) ([]models.ContactSubmission, error) {
	if j.DB == nil {
		return nil, gorm.ErrInvalidDB
	}
	if limit <= 0 {
		limit = 20
	}
	var entries []models.ContactSubmission
	err := j.DB.WithContext(ctx).Order("created_at desc").Order("id desc").Limit(limit).Find(&entries).Error
	return entries, err
}

func summarize(outcome contact.Outcome) string {
	if outcome.Err != nil {
		return outcome.Err.Error()
	}
	if len(outcome.Errors) == 0 {
		return ""
	}
	keys := make([]string, 0, len(outcome.Errors))
	for k := range outcome.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+outcome.Errors[k])
	}
	return strings.Join(parts, "; ")
}
