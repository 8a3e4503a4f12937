package models

import (
	"encoding/json"
	"strconv"
)

// ForwardStatus is the call-forwarding flag of a user. The backend has stored it
// both as "active"/"deactive" strings and as plain booleans; both spellings are
// folded into this type when decoding.
type ForwardStatus int

const (
	ForwardUnset ForwardStatus = iota
	ForwardActive
	ForwardInactive
)

// ParseForwardStatus maps the two wire spellings. Anything else, including
// "true" and other casings, is ForwardUnset.
func ParseForwardStatus(s string) ForwardStatus {
	switch s {
	case "active":
		return ForwardActive
	case "deactive":
		return ForwardInactive
	default:
		return ForwardUnset
	}
}

// ForwardStatusFromJSON normalizes a raw JSON value. Absent, null and "" are
// unset; JSON booleans stand for active/deactive.
func ForwardStatusFromJSON(raw json.RawMessage) ForwardStatus {
	if IsEmpty(raw) {
		return ForwardUnset
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return ForwardActive
		}
		return ForwardInactive
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseForwardStatus(s)
	}
	return ForwardUnset
}

// ForwardStatusText returns the raw string spelling of the flag when it is one
// ParseForwardStatus does not recognize, so views can show it verbatim.
func ForwardStatusText(raw json.RawMessage) string {
	if ForwardStatusFromJSON(raw) != ForwardUnset || IsStructured(raw) {
		return ""
	}
	return ScalarText(raw)
}

// String returns the wire spelling used by /api/set-forward-status.
func (s ForwardStatus) String() string {
	switch s {
	case ForwardActive:
		return "active"
	case ForwardInactive:
		return "deactive"
	default:
		return ""
	}
}

// Label is the human form shown in banners and detail views.
func (s ForwardStatus) Label() string {
	switch s {
	case ForwardActive:
		return "Active"
	case ForwardInactive:
		return "Deactive"
	default:
		return "Not set"
	}
}

func (s ForwardStatus) MarshalJSON() ([]byte, error) {
	if s == ForwardUnset {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

func (s *ForwardStatus) UnmarshalJSON(data []byte) error {
	*s = ForwardStatusFromJSON(data)
	return nil
}

type UserRecord struct {
	ID                 string
	Name               string
	MobileNumber       string
	WorkingState       string
	TotalLimit         float64
	AvailableLimit     float64
	ForwardPhoneNumber string
	IsForwarded        ForwardStatus

	// Fields keeps every attribute the server sent, in server order.
	Fields Record
}

func (u *UserRecord) UnmarshalJSON(data []byte) error {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*u = UserRecord{
		ID:                 rec.String("_id"),
		Name:               rec.String("name"),
		MobileNumber:       rec.String("mobileNumber"),
		WorkingState:       rec.String("workingState"),
		TotalLimit:         rec.Float("totalLimit"),
		AvailableLimit:     rec.Float("availableLimit"),
		ForwardPhoneNumber: rec.String("forwardPhoneNumber"),
		IsForwarded:        ForwardStatusFromJSON(rec.Raw("isForwarded")),
		Fields:             rec,
	}
	if u.ID == "" {
		u.ID = rec.String("id")
	}
	return nil
}

func (u UserRecord) MarshalJSON() ([]byte, error) {
	if len(u.Fields) > 0 {
		return json.Marshal(u.Fields)
	}
	return json.Marshal(map[string]any{
		"_id":                u.ID,
		"name":               u.Name,
		"mobileNumber":       u.MobileNumber,
		"workingState":       u.WorkingState,
		"totalLimit":         u.TotalLimit,
		"availableLimit":     u.AvailableLimit,
		"forwardPhoneNumber": u.ForwardPhoneNumber,
		"isForwarded":        u.IsForwarded,
	})
}

type MessageRecord struct {
	ID                  string
	SenderPhoneNumber   string
	RecieverPhoneNumber string
	Message             string
	Time                string
	CreatedAt           string

	Fields Record
}

func (m *MessageRecord) UnmarshalJSON(data []byte) error {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*m = MessageRecord{
		ID:                  rec.String("_id"),
		SenderPhoneNumber:   rec.String("senderPhoneNumber"),
		RecieverPhoneNumber: rec.String("recieverPhoneNumber"),
		Message:             rec.String("message"),
		Time:                rec.String("time"),
		CreatedAt:           rec.String("createdAt"),
		Fields:              rec,
	}
	return nil
}

func (m MessageRecord) MarshalJSON() ([]byte, error) {
	if len(m.Fields) > 0 {
		return json.Marshal(m.Fields)
	}
	return json.Marshal(map[string]string{
		"_id":                 m.ID,
		"senderPhoneNumber":   m.SenderPhoneNumber,
		"recieverPhoneNumber": m.RecieverPhoneNumber,
		"message":             m.Message,
		"time":                m.Time,
		"createdAt":           m.CreatedAt,
	})
}

// Involves reports whether the message was sent from or to the given number.
func (m MessageRecord) Involves(mobile string) bool {
	return m.SenderPhoneNumber == mobile || m.RecieverPhoneNumber == mobile
}

// Workflow is the action currently open on the actions panel.
type Workflow int

const (
	WorkflowNone Workflow = iota
	WorkflowProfile
	WorkflowMessages
	WorkflowForwarding
	WorkflowSendMessage
)

func (w Workflow) String() string {
	switch w {
	case WorkflowProfile:
		return "View Form Data"
	case WorkflowMessages:
		return "View Messages"
	case WorkflowForwarding:
		return "Call Forwarding"
	case WorkflowSendMessage:
		return "Message Forward"
	default:
		return "None"
	}
}

// numberString renders a JSON number the way the backend typed it.
func numberString(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	return n.String()
}
