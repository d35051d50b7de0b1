package pages

import (
	"strconv"
	"time"

	"mlsweb/internal/contact"
	themeview "mlsweb/internal/views/theme"
)

// ContactFormID is the element swapped by HTMX form updates.
const ContactFormID = "contact-form"

// ContactView is everything the contact form needs to render.
type ContactView struct {
	Palette    themeview.Palette
	Form       contact.Snapshot
	ResetDelay time.Duration
}

type formInput struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
}

var inputs = []formInput{
	{Name: contact.FieldName, Label: "Name", Type: "text", Placeholder: "Your name"},
	{Name: contact.FieldPhone, Label: "Phone", Type: "tel", Placeholder: "Your number"},
}

// ButtonLabel is the submit button caption for a status.
func ButtonLabel(status contact.Status) string {
	switch status {
	case contact.Submitting:
		return "Sending..."
	case contact.Succeeded:
		return "Message Sent!"
	default:
		return "Send Message"
	}
}

// FieldLabel returns the human label used as the error prefix for a field.
func FieldLabel(field string) string {
	switch field {
	case contact.FieldName:
		return "Name"
	case contact.FieldPhone:
		return "Phone"
	case contact.FieldEventType:
		return "Event Type"
	case contact.FieldMessage:
		return "Message"
	default:
		return ""
	}
}

// refreshTrigger returns the hx-trigger that re-fetches the form while its
// status is transient, or "" when no refresh is needed.
func refreshTrigger(status contact.Status, resetDelay time.Duration) string {
	switch status {
	case contact.Succeeded:
		if resetDelay <= 0 {
			resetDelay = contact.DefaultResetDelay
		}
		return "load delay:" + strconv.FormatInt(resetDelay.Milliseconds(), 10) + "ms"
	case contact.Submitting:
		return "every 1s"
	default:
		return ""
	}
}

func hasFieldErrors(errs contact.FieldErrors) bool {
	for key := range errs {
		if key != contact.FormErrorKey {
			return true
		}
	}
	return false
}

func (v ContactView) trigger() string {
	return refreshTrigger(v.Form.Status, v.ResetDelay)
}

// knownEventType reports whether value is empty or one of the select options.
func knownEventType(value string) bool {
	if value == "" {
		return true
	}
	for _, et := range contact.EventTypes {
		if et.Value == value {
			return true
		}
	}
	return false
}
