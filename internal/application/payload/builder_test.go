package payload

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/room-invoice-admin/internal/domain/attachment"
	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

func TestBuild_MixedAttachments(t *testing.T) {
	file2 := &entity.MemoryFile{FileName: "file2.png", Content: []byte("png")}
	draft := &entity.InvoiceDraft{
		ID:              "inv-1",
		RoomID:          "room-7",
		CreatedByUserID: "user-3",
		Content:         "Electricity & water",
		InvoiceType:     "utility",
		PaymentType:     entity.PaymentTypeCash,
		PaymentStatus:   entity.PaymentStatusPaid,
		TotalAmount:     decimal.NewFromInt(1500000),
		LineItems: []json.RawMessage{
			json.RawMessage(`{"name":"Electricity","amount":1000000}`),
			json.RawMessage(`{"name":"Water","amount":500000}`),
		},
		Note: entity.DraftNote{
			Text:        "<b>March</b>",
			Attachments: []entity.AttachmentRef{entity.Persisted("img1.png"), entity.Pending(file2)},
		},
	}
	baseline := []entity.AttachmentRef{entity.Persisted("img1.png"), entity.Persisted("img2.png")}

	p, err := Build(draft, attachment.Reconcile(baseline, draft.Note.Attachments))
	require.NoError(t, err)

	names := make([]string, 0, len(p.Fields))
	for _, f := range p.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"create_by", "for_room_id", "content", "payment_type", "invoice_type", "payment_status",
		"total_amount", "notify_status", "items", "note", "oldImages", "deleteImages",
	}, names)

	data := p.FormData()
	assert.Equal(t, "user-3", data[FieldCreateBy])
	assert.Equal(t, "room-7", data[FieldRoomID])
	assert.Equal(t, "1500000", data[FieldTotalAmount])
	assert.Equal(t, "", data[FieldNotifyStatus])
	assert.Equal(t, `{"text":"<b>March</b>"}`, data[FieldNote])
	assert.Equal(t, `["img1.png"]`, data[FieldOldImages])
	assert.Equal(t, `["img2.png"]`, data[FieldDeleteImages])
	assert.JSONEq(t, `[{"name":"Electricity","amount":1000000},{"name":"Water","amount":500000}]`, data[FieldItems])

	require.Len(t, p.Files, 1)
	assert.Equal(t, FieldImage, p.Files[0].Field)
	assert.Same(t, file2, p.Files[0].File)
}

func TestBuild_EmptyDraft(t *testing.T) {
	draft := entity.NewDraft()

	p, err := Build(draft, attachment.Reconcile(nil, draft.Note.Attachments))
	require.NoError(t, err)

	data := p.FormData()
	assert.Equal(t, "[]", data[FieldItems])
	assert.Equal(t, `{"text":""}`, data[FieldNote])
	assert.Equal(t, "[]", data[FieldOldImages])
	assert.Equal(t, "[]", data[FieldDeleteImages])
	assert.Equal(t, "0", data[FieldTotalAmount])
	assert.Equal(t, entity.PaymentTypeBanking, data[FieldPaymentType])
	assert.Equal(t, entity.PaymentStatusPending, data[FieldPaymentStatus])
	assert.Empty(t, p.Files)
}

func TestBuild_NotifyStatusPassedThrough(t *testing.T) {
	draft := entity.NewDraft()
	draft.NotifyStatus = "sent"

	p, err := Build(draft, entity.ReconciliationResult{})
	require.NoError(t, err)

	v, ok := p.Value(FieldNotifyStatus)
	assert.True(t, ok)
	assert.Equal(t, "sent", v)
}

func TestBuild_OnePartPerPendingFile(t *testing.T) {
	files := []entity.FileHandle{
		&entity.MemoryFile{FileName: "a.jpg"},
		&entity.MemoryFile{FileName: "b.jpg"},
		&entity.MemoryFile{FileName: "c.jpg"},
	}
	current := []entity.AttachmentRef{
		entity.Pending(files[0]), entity.Persisted("keep.png"), entity.Pending(files[1]), entity.Pending(files[2]),
	}

	p, err := Build(entity.NewDraft(), attachment.Reconcile([]entity.AttachmentRef{entity.Persisted("keep.png")}, current))
	require.NoError(t, err)

	require.Len(t, p.Files, 3)
	for i, f := range p.Files {
		assert.Same(t, files[i], f.File)
	}
	v, _ := p.Value(FieldOldImages)
	assert.Equal(t, `["keep.png"]`, v)
}

func TestBuild_InvalidLineItem(t *testing.T) {
	draft := entity.NewDraft()
	draft.LineItems = []json.RawMessage{json.RawMessage(`{broken`)}

	_, err := Build(draft, entity.ReconciliationResult{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items")
}

func TestBuild_NilDraft(t *testing.T) {
	_, err := Build(nil, entity.ReconciliationResult{})
	assert.Error(t, err)
}
