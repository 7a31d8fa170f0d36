package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
	"github.com/garyjia/room-invoice-admin/internal/presentation"
)

func sampleBoard() *entity.InvoiceBoard {
	created := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	return &entity.InvoiceBoard{
		Invoices: []entity.Invoice{
			{
				ID:            "inv-1",
				Room:          entity.RoomRef{ID: "r1", RoomNumber: "101"},
				CreatedBy:     entity.UserRef{ID: "u1", FullName: "Tran B"},
				Content:       "March rent",
				PaymentType:   "Cash",
				PaymentStatus: "paid",
				TotalAmount:   decimal.NewFromInt(1500000),
				CreatedAt:     &created,
			},
			{ID: "inv-2"},
		},
		Rooms: []entity.Room{{ID: "r1", RoomNumber: "101"}, {ID: "r2", RoomNumber: "102"}},
	}
}

func newTestExporter() *ExcelExporter {
	return NewExcelExporter(presentation.NewMapper(presentation.DefaultConfig()), zap.NewNop())
}

func TestExcelExporter_Export(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, newTestExporter().Export(sampleBoard(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetInvoices, SheetRooms}, f.GetSheetList())

	rows, err := f.GetRows(SheetInvoices)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Payment status", rows[0][5])
	assert.Equal(t, []string{"1", "05/03/2024", "101", "March rent", "1.500.000 ₫", "paid", "Cash", "Tran B", "inv-1"}, rows[1])
	assert.Equal(t, "N/A", rows[2][1])
	assert.Equal(t, "Not specified", rows[2][2])
	assert.Equal(t, "N/A", rows[2][4])

	rooms, err := f.GetRows(SheetRooms)
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, []string{"102", "r2"}, rooms[2])
}

func TestExcelExporter_EmptyBoard(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, newTestExporter().Export(&entity.InvoiceBoard{}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetInvoices)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExcelExporter_NilBoard(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, newTestExporter().Export(nil, &buf))
}

func TestExcelExporter_ExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "invoices.xlsx")

	require.NoError(t, newTestExporter().ExportFile(sampleBoard(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(SheetInvoices, "I2")
	require.NoError(t, err)
	assert.Equal(t, "inv-1", value)
}
