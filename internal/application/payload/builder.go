// Package payload turns an invoice draft and its attachment reconciliation
// into the multipart body the billing backend expects.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

// Wire field names
const (
	FieldCreateBy      = "create_by"
	FieldRoomID        = "for_room_id"
	FieldContent       = "content"
	FieldPaymentType   = "payment_type"
	FieldInvoiceType   = "invoice_type"
	FieldPaymentStatus = "payment_status"
	FieldTotalAmount   = "total_amount"
	FieldNotifyStatus  = "notify_status"
	FieldItems         = "items"
	FieldNote          = "note"
	FieldOldImages     = "oldImages"
	FieldDeleteImages  = "deleteImages"
	FieldImage         = "img"
)

type noteText struct {
	Text string `json:"text"`
}

// Build composes the transport payload. Kept and deleted urls go out as JSON
// lists and each added file becomes exactly one img part; persisted
// attachments are never re-uploaded.
func Build(draft *entity.InvoiceDraft, rec entity.ReconciliationResult) (*entity.TransportPayload, error) {
	if draft == nil {
		return nil, fmt.Errorf("draft is required")
	}

	items, err := encodeJSON(nonNilItems(draft.LineItems))
	if err != nil {
		return nil, fmt.Errorf("failed to encode items: %w", err)
	}
	note, err := encodeJSON(noteText{Text: draft.Note.Text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode note: %w", err)
	}
	oldImages, err := encodeJSON(nonNilStrings(rec.Kept))
	if err != nil {
		return nil, fmt.Errorf("failed to encode kept images: %w", err)
	}
	deleteImages, err := encodeJSON(nonNilStrings(rec.Deleted))
	if err != nil {
		return nil, fmt.Errorf("failed to encode deleted images: %w", err)
	}

	p := &entity.TransportPayload{
		Fields: []entity.PayloadField{
			{Name: FieldCreateBy, Value: draft.CreatedByUserID},
			{Name: FieldRoomID, Value: draft.RoomID},
			{Name: FieldContent, Value: draft.Content},
			{Name: FieldPaymentType, Value: draft.PaymentType},
			{Name: FieldInvoiceType, Value: draft.InvoiceType},
			{Name: FieldPaymentStatus, Value: draft.PaymentStatus},
			{Name: FieldTotalAmount, Value: draft.TotalAmount.String()},
			{Name: FieldNotifyStatus, Value: draft.NotifyStatus},
			{Name: FieldItems, Value: items},
			{Name: FieldNote, Value: note},
			{Name: FieldOldImages, Value: oldImages},
			{Name: FieldDeleteImages, Value: deleteImages},
		},
		Files: make([]entity.PayloadFile, 0, len(rec.Added)),
	}

	for _, f := range rec.Added {
		if f == nil {
			continue
		}
		p.Files = append(p.Files, entity.PayloadFile{Field: FieldImage, File: f})
	}

	return p, nil
}

// encodeJSON marshals without HTML escaping, matching what browsers send
func encodeJSON(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func nonNilItems(items []json.RawMessage) []json.RawMessage {
	if items == nil {
		return []json.RawMessage{}
	}
	return items
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
