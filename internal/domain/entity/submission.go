package entity

import (
	"encoding/json"
	"time"
)

// PayloadField is a text part of a multipart submission
type PayloadField struct {
	Name  string
	Value string
}

// PayloadFile is a binary part of a multipart submission
type PayloadFile struct {
	Field string
	File  FileHandle
}

// TransportPayload is the multipart body sent to create or update an invoice
type TransportPayload struct {
	Fields []PayloadField
	Files  []PayloadFile
}

// Value returns the value of the named text field and whether it exists
func (p *TransportPayload) Value(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// FormData returns the text fields as a map
func (p *TransportPayload) FormData() map[string]string {
	data := make(map[string]string, len(p.Fields))
	for _, f := range p.Fields {
		data[f.Name] = f.Value
	}
	return data
}

// BoundaryResponse is what the billing backend answered to a write call
type BoundaryResponse struct {
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// SubmissionOutcome reports how a single submission ended
type SubmissionOutcome struct {
	ID             string               `json:"id"`
	Operation      Operation            `json:"operation"`
	InvoiceID      string               `json:"invoice_id,omitempty"`
	State          string               `json:"state"`
	Succeeded      bool                 `json:"succeeded"`
	StatusCode     int                  `json:"status_code,omitempty"`
	Message        string               `json:"message"`
	Reconciliation ReconciliationResult `json:"reconciliation"`
	Uploaded       []string             `json:"uploaded"`
}

// SubmissionRecord is a journal entry for one submission
type SubmissionRecord struct {
	ID           string     `json:"id"`
	InvoiceID    string     `json:"invoice_id,omitempty"`
	Operation    Operation  `json:"operation"`
	State        string     `json:"state"`
	StatusCode   int        `json:"status_code"`
	Message      string     `json:"message,omitempty"`
	KeptCount    int        `json:"kept_count"`
	DeletedCount int        `json:"deleted_count"`
	AddedCount   int        `json:"added_count"`
	CreatedAt    time.Time  `json:"created_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Notification is operator feedback about a submission or session event
type Notification struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
