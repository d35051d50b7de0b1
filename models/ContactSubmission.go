package models

import "gorm.io/gorm"

const (
	SubmissionSucceeded = "succeeded"
	SubmissionFailed    = "failed"
)

// ContactSubmission journals one completed attempt to deliver the contact form.
type ContactSubmission struct {
	gorm.Model
	VisitorKey   string `gorm:"type:varchar(64);index"`
	Name         string
	Phone        string `gorm:"type:varchar(64)"`
	EventType    string `gorm:"type:varchar(64)"`
	Message      string `gorm:"type:text"`
	Status       string `gorm:"type:varchar(16);not null;index"`
	ErrorSummary string `gorm:"type:text"`
}

// Succeeded reports whether the remote endpoint accepted the submission.
func (s ContactSubmission) Succeeded() bool {
	return s.Status == SubmissionSucceeded
}
