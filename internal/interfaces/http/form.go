package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

const maxUploadMemory = 32 << 20

// Form field names accepted by the submit endpoints. They mirror the
// billing backend's multipart fields.
const (
	formCreateBy      = "create_by"
	formRoomID        = "for_room_id"
	formContent       = "content"
	formInvoiceType   = "invoice_type"
	formPaymentType   = "payment_type"
	formPaymentStatus = "payment_status"
	formNotifyStatus  = "notify_status"
	formTotalAmount   = "total_amount"
	formItems         = "items"
	formNote          = "note"
	formNoteText      = "note_text"
	formKeptImages    = "oldImages"
	formImage         = "img"
)

// uploadedFile adapts a multipart upload to entity.FileHandle
type uploadedFile struct {
	header *multipart.FileHeader
}

func (f uploadedFile) Name() string {
	return f.header.Filename
}

func (f uploadedFile) Open() (io.ReadCloser, error) {
	return f.header.Open()
}

// bindDraft reads an invoice draft from a multipart or url-encoded form.
// The attachment list is the persisted urls listed in oldImages followed by
// one pending entry per uploaded img file.
func bindDraft(r *http.Request, id string) (*entity.InvoiceDraft, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	draft := entity.NewDraft()
	draft.ID = id
	draft.CreatedByUserID = r.FormValue(formCreateBy)
	draft.RoomID = r.FormValue(formRoomID)
	draft.Content = r.FormValue(formContent)
	draft.InvoiceType = r.FormValue(formInvoiceType)
	draft.NotifyStatus = r.FormValue(formNotifyStatus)
	if v := r.FormValue(formPaymentType); v != "" {
		draft.PaymentType = v
	}
	if v := r.FormValue(formPaymentStatus); v != "" {
		draft.PaymentStatus = v
	}

	if v := strings.TrimSpace(r.FormValue(formTotalAmount)); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid total_amount: %w", err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("total_amount cannot be negative")
		}
		draft.TotalAmount = amount
	}

	if v := strings.TrimSpace(r.FormValue(formItems)); v != "" {
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(v), &items); err != nil {
			return nil, fmt.Errorf("items must be a JSON array: %w", err)
		}
		if items != nil {
			draft.LineItems = items
		}
	}

	text, err := noteText(r)
	if err != nil {
		return nil, err
	}
	draft.Note.Text = text

	if v := strings.TrimSpace(r.FormValue(formKeptImages)); v != "" {
		var urls entity.URLList
		if err := json.Unmarshal([]byte(v), &urls); err != nil {
			return nil, fmt.Errorf("invalid oldImages: %w", err)
		}
		for _, u := range urls {
			draft.Note.Attachments = append(draft.Note.Attachments, entity.Persisted(u))
		}
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File[formImage] {
			draft.Note.Attachments = append(draft.Note.Attachments, entity.Pending(uploadedFile{header: header}))
		}
	}

	return draft, nil
}

// noteText accepts note as {"text": ...} or the plain note_text field
func noteText(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.FormValue(formNote))
	if raw == "" {
		return r.FormValue(formNoteText), nil
	}
	var note struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(raw), &note); err != nil {
		return "", fmt.Errorf("note must be a JSON object: %w", err)
	}
	return note.Text, nil
}
