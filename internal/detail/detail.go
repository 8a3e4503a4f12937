// Package detail projects a server record into the ordered rows of a profile view.
package detail

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/saravenpi/switchboard/internal/models"
)

// Row is one displayed attribute.
type Row struct {
	Key        string
	Label      string
	Value      string
	Structured bool // Value is an indented JSON dump
}

var leadingKeys = []string{
	"name",
	"mobileNumber",
	"email",
	"state",
	"workingState",
	"totalLimit",
	"availableLimit",
}

var labels = map[string]string{
	"name":               "Name",
	"mobileNumber":       "Phone No.",
	"email":              "Email",
	"state":              "State",
	"workingState":       "Working State",
	"totalLimit":         "Total Limit",
	"availableLimit":     "Available Limit",
	"forwardPhoneNumber": "Call Forwarding",
	"isForwarded":        "Forwarding Status",
}

// Project orders rec as: the fixed leading keys, the forwarding status, the
// forwarding destination, then everything else in source order. Absent, null
// and empty-string values are left out.
func Project(rec models.Record) []Row {
	var rows []Row
	used := map[string]bool{"isForwarded": true, "forwardPhoneNumber": true}

	for _, key := range leadingKeys {
		used[key] = true
		raw := rec.Raw(key)
		if models.IsEmpty(raw) {
			continue
		}
		rows = append(rows, valueRow(key, raw))
	}

	if raw := rec.Raw("isForwarded"); !models.IsEmpty(raw) {
		rows = append(rows, Row{Key: "isForwarded", Label: Label("isForwarded"), Value: statusText(raw)})
	}
	if raw := rec.Raw("forwardPhoneNumber"); !models.IsEmpty(raw) {
		rows = append(rows, valueRow("forwardPhoneNumber", raw))
	}

	for _, f := range rec {
		if used[f.Key] || models.IsEmpty(f.Value) {
			continue
		}
		rows = append(rows, valueRow(f.Key, f.Value))
	}
	return rows
}

// Label returns the display label for key. Unknown keys are split on camelCase
// boundaries and capitalized.
func Label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	var b strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func valueRow(key string, raw json.RawMessage) Row {
	row := Row{Key: key, Label: Label(key)}
	if models.IsStructured(raw) {
		var out bytes.Buffer
		if err := json.Indent(&out, raw, "", "  "); err == nil {
			row.Value = out.String()
		} else {
			row.Value = string(raw)
		}
		row.Structured = true
		return row
	}
	row.Value = models.ScalarText(raw)
	return row
}

// statusText shows known spellings of the forwarding flag as Active/Deactive
// and anything else verbatim.
func statusText(raw json.RawMessage) string {
	switch models.ForwardStatusFromJSON(raw) {
	case models.ForwardActive:
		return models.ForwardActive.Label()
	case models.ForwardInactive:
		return models.ForwardInactive.Label()
	default:
		if models.IsStructured(raw) {
			return string(raw)
		}
		return models.ScalarText(raw)
	}
}
