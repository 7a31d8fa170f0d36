package entity

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a billing record as returned by the billing backend
type Invoice struct {
	ID            string            `json:"_id"`
	Room          RoomRef           `json:"for_room_id"`
	CreatedBy     UserRef           `json:"create_by"`
	Content       string            `json:"content"`
	InvoiceType   string            `json:"invoice_type"`
	PaymentType   string            `json:"payment_type"`
	PaymentStatus string            `json:"payment_status"`
	NotifyStatus  string            `json:"notify_status,omitempty"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	Items         []json.RawMessage `json:"items"`
	Note          InvoiceNote       `json:"note"`
	CreatedAt     *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time        `json:"updatedAt,omitempty"`
}

// InvoiceNote is the free text and image list attached to an invoice
type InvoiceNote struct {
	Text   string  `json:"text"`
	Images URLList `json:"img"`
}

// AttachmentRefs returns the persisted attachments of the invoice in display order
func (i *Invoice) AttachmentRefs() []AttachmentRef {
	refs := make([]AttachmentRef, 0, len(i.Note.Images))
	for _, u := range i.Note.Images {
		refs = append(refs, Persisted(u))
	}
	return refs
}

// Room is an occupied room offered as an invoice target
type Room struct {
	ID         string `json:"_id"`
	RoomNumber string `json:"roomNumber"`
	Status     string `json:"status,omitempty"`
}

// RoomRef is the room an invoice belongs to. The backend sends either the
// populated room object or its bare id.
type RoomRef struct {
	ID         string `json:"_id"`
	RoomNumber string `json:"roomNumber,omitempty"`
}

// UnmarshalJSON accepts an object, a bare id string or null
func (r *RoomRef) UnmarshalJSON(data []byte) error {
	type plain RoomRef
	id, obj, err := decodeRef(data)
	if err != nil {
		return err
	}
	if obj == nil {
		*r = RoomRef{ID: id}
		return nil
	}
	var p plain
	if err := json.Unmarshal(obj, &p); err != nil {
		return err
	}
	*r = RoomRef(p)
	return nil
}

// UserRef is the user who created an invoice, populated or bare id
type UserRef struct {
	ID       string `json:"_id"`
	FullName string `json:"fullname,omitempty"`
}

// UnmarshalJSON accepts an object, a bare id string or null
func (u *UserRef) UnmarshalJSON(data []byte) error {
	type plain UserRef
	id, obj, err := decodeRef(data)
	if err != nil {
		return err
	}
	if obj == nil {
		*u = UserRef{ID: id}
		return nil
	}
	var p plain
	if err := json.Unmarshal(obj, &p); err != nil {
		return err
	}
	*u = UserRef(p)
	return nil
}

// decodeRef returns the id for string/null input, or the raw object
func decodeRef(data []byte) (string, []byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil, nil
	}
	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return "", nil, err
		}
		return id, nil, nil
	}
	return "", trimmed, nil
}

// URLList is a list of attachment urls. Entries that are not non-empty
// strings are dropped while decoding.
type URLList []string

// UnmarshalJSON decodes a JSON array, skipping malformed entries
func (l *URLList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// anything other than an array means no images
		*l = nil
		return nil
	}
	urls := make(URLList, 0, len(raw))
	for _, item := range raw {
		var u string
		if err := json.Unmarshal(item, &u); err != nil || u == "" {
			continue
		}
		urls = append(urls, u)
	}
	*l = urls
	return nil
}

// InvoiceBoard is the loaded state of the invoice screen
type InvoiceBoard struct {
	Invoices []Invoice `json:"invoices"`
	Rooms    []Room    `json:"rooms"`
	Error    string    `json:"error,omitempty"`
	LoadedAt time.Time `json:"loaded_at"`
}

// FindInvoice returns the invoice with the given id, or nil
func (b *InvoiceBoard) FindInvoice(id string) *Invoice {
	for i := range b.Invoices {
		if b.Invoices[i].ID == id {
			return &b.Invoices[i]
		}
	}
	return nil
}
