package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
	"github.com/garyjia/room-invoice-admin/internal/presentation"
)

// Sheet names of the exported workbook
const (
	SheetInvoices = "Invoices"
	SheetRooms    = "Rooms"
)

var invoiceHeaders = []interface{}{
	"#", "Created", "Room", "Content", "Total", "Payment status", "Payment type", "Created by", "Invoice ID",
}

var roomHeaders = []interface{}{"Room", "Room ID"}

// ExcelExporter writes the invoice board to an xlsx workbook using the
// same display values as the console table
type ExcelExporter struct {
	mapper *presentation.Mapper
	logger *zap.Logger
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter(mapper *presentation.Mapper, logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{
		mapper: mapper,
		logger: logger,
	}
}

// Export writes the board as an xlsx document to w
func (e *ExcelExporter) Export(board *entity.InvoiceBoard, w io.Writer) error {
	if board == nil {
		return fmt.Errorf("board cannot be nil")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetInvoices); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetRooms); err != nil {
		return fmt.Errorf("failed to create rooms sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E0E0E0"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	e.writeRow(f, SheetInvoices, 1, invoiceHeaders)
	for i, row := range e.mapper.Rows(board.Invoices) {
		e.writeRow(f, SheetInvoices, i+2, []interface{}{
			row.Index,
			row.CreatedDate,
			row.RoomNumber,
			row.Content,
			row.Amount,
			row.PaymentStatus,
			row.PaymentType,
			row.CreatedBy,
			row.ID,
		})
	}

	e.writeRow(f, SheetRooms, 1, roomHeaders)
	for i, opt := range e.mapper.RoomOptions(board.Rooms) {
		e.writeRow(f, SheetRooms, i+2, []interface{}{opt.Label, opt.Value})
	}

	e.styleHeader(f, SheetInvoices, len(invoiceHeaders), headerStyle)
	e.styleHeader(f, SheetRooms, len(roomHeaders), headerStyle)
	if err := f.SetColWidth(SheetInvoices, "B", "I", 18); err != nil {
		e.logger.Warn("Failed to set column width", zap.Error(err))
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Invoice board exported",
		zap.Int("invoices", len(board.Invoices)),
		zap.Int("rooms", len(board.Rooms)))
	return nil
}

// ExportFile writes the board to path, creating parent directories
func (e *ExcelExporter) ExportFile(board *entity.InvoiceBoard, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := e.Export(board, out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}

	e.logger.Info("Export file written", zap.String("path", path))
	return nil
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		e.logger.Warn("Invalid row", zap.Int("row", row), zap.Error(err))
		return
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		e.logger.Warn("Failed to write row",
			zap.String("sheet", sheet),
			zap.Int("row", row),
			zap.Error(err))
	}
}

func (e *ExcelExporter) styleHeader(f *excelize.File, sheet string, columns, style int) {
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		e.logger.Warn("Failed to style header", zap.String("sheet", sheet), zap.Error(err))
	}
}
