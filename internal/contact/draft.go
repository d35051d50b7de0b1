package contact

import "strings"

// Field names as they travel on the wire and appear in form inputs.
const (
	FieldName      = "name"
	FieldPhone     = "phone"
	FieldEventType = "eventType"
	FieldMessage   = "message"

	// FormErrorKey holds errors that belong to the whole form rather than one input.
	FormErrorKey = "_form"
)

// Fields lists the draft fields in display order.
var Fields = []string{FieldName, FieldPhone, FieldEventType, FieldMessage}

// EventTypes are the categories offered by the event type select. The field
// itself stays free text.
var EventTypes = []EventType{
	{Value: "wedding", Label: "Wedding"},
	{Value: "corporate event", Label: "Corporate Event"},
	{Value: "private party", Label: "Private Party"},
	{Value: "concert/show", Label: "Concert/Show"},
	{Value: "other", Label: "Other"},
}

// EventType is one selectable event category.
type EventType struct {
	Value string
	Label string
}

// Draft is the unsaved contents of the contact form.
type Draft struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	EventType string `json:"eventType"`
	Message   string `json:"message"`
}

// Set overwrites one field. Unknown field names are ignored and reported as false.
func (d *Draft) Set(field, value string) bool {
	switch field {
	case FieldName:
		d.Name = value
	case FieldPhone:
		d.Phone = value
	case FieldEventType:
		d.EventType = value
	case FieldMessage:
		d.Message = value
	default:
		return false
	}
	return true
}

// Get returns the value of one field, or "" for unknown names.
func (d Draft) Get(field string) string {
	switch field {
	case FieldName:
		return d.Name
	case FieldPhone:
		return d.Phone
	case FieldEventType:
		return d.EventType
	case FieldMessage:
		return d.Message
	default:
		return ""
	}
}

// IsEmpty reports whether every field is blank.
func (d Draft) IsEmpty() bool {
	return strings.TrimSpace(d.Name+d.Phone+d.EventType+d.Message) == ""
}

// FieldErrors maps a field name to the message shown next to its input.
type FieldErrors map[string]string

// Field returns the message for one input.
func (fe FieldErrors) Field(name string) string {
	if fe == nil {
		return ""
	}
	return fe[name]
}

// Form returns the form-level message.
func (fe FieldErrors) Form() string {
	return fe.Field(FormErrorKey)
}

func (fe FieldErrors) clone() FieldErrors {
	if len(fe) == 0 {
		return nil
	}
	out := make(FieldErrors, len(fe))
	for k, v := range fe {
		out[k] = v
	}
	return out
}
