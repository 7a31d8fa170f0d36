package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// InvoiceDraft is the editable state of an invoice before submission.
// An empty ID means the draft creates a new invoice.
type InvoiceDraft struct {
	ID              string            `json:"id,omitempty"`
	RoomID          string            `json:"for_room_id"`
	CreatedByUserID string            `json:"create_by"`
	Content         string            `json:"content"`
	InvoiceType     string            `json:"invoice_type"`
	PaymentType     string            `json:"payment_type"`
	PaymentStatus   string            `json:"payment_status"`
	NotifyStatus    string            `json:"notify_status,omitempty"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	LineItems       []json.RawMessage `json:"items"`
	Note            DraftNote         `json:"note"`
}

// DraftNote is the note text plus the mixed attachment list
type DraftNote struct {
	Text        string          `json:"text"`
	Attachments []AttachmentRef `json:"img"`
}

// NewDraft returns the defaults used when creating an invoice
func NewDraft() *InvoiceDraft {
	return &InvoiceDraft{
		PaymentType:   DefaultPaymentType,
		PaymentStatus: PaymentStatusPending,
		TotalAmount:   decimal.Zero,
		LineItems:     []json.RawMessage{},
		Note: DraftNote{
			Attachments: []AttachmentRef{},
		},
	}
}

// DraftFromInvoice copies an invoice into a draft, flattening the room and
// creator references to bare ids
func DraftFromInvoice(inv *Invoice) *InvoiceDraft {
	items := make([]json.RawMessage, len(inv.Items))
	copy(items, inv.Items)

	return &InvoiceDraft{
		ID:              inv.ID,
		RoomID:          inv.Room.ID,
		CreatedByUserID: inv.CreatedBy.ID,
		Content:         inv.Content,
		InvoiceType:     inv.InvoiceType,
		PaymentType:     inv.PaymentType,
		PaymentStatus:   inv.PaymentStatus,
		NotifyStatus:    inv.NotifyStatus,
		TotalAmount:     inv.TotalAmount,
		LineItems:       items,
		Note: DraftNote{
			Text:        inv.Note.Text,
			Attachments: inv.AttachmentRefs(),
		},
	}
}

// IsNew returns true if submitting the draft creates an invoice
func (d *InvoiceDraft) IsNew() bool {
	return d.ID == ""
}

// Operation returns the boundary operation the draft dispatches to
func (d *InvoiceDraft) Operation() Operation {
	if d.IsNew() {
		return OperationCreate
	}
	return OperationUpdate
}
