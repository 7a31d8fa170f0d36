package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/room-invoice-admin/internal/application/port"
	"github.com/garyjia/room-invoice-admin/internal/application/service"
	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
	"github.com/garyjia/room-invoice-admin/internal/presentation"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// NotificationFeed exposes operator notifications to the console
type NotificationFeed interface {
	List() []entity.Notification
	Drain() []entity.Notification
}

// BoardExporter writes the invoice board as a spreadsheet
type BoardExporter interface {
	Export(board *entity.InvoiceBoard, w io.Writer) error
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	lists       service.ListService
	editor      service.EditorService
	submissions service.SubmissionService
	journal     port.SubmissionRepository
	feed        NotificationFeed
	exporter    BoardExporter
	mapper      *presentation.Mapper
	logger      Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps Dependencies, logger Logger) *Handlers {
	return &Handlers{
		lists:       deps.Lists,
		editor:      deps.Editor,
		submissions: deps.Submissions,
		journal:     deps.Journal,
		feed:        deps.Feed,
		exporter:    deps.Exporter,
		mapper:      deps.Mapper,
		logger:      logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Loading   bool   `json:"loading"`
}

// BoardResponse is the invoice screen: display rows plus the room picker
type BoardResponse struct {
	Invoices []presentation.InvoiceRow `json:"invoices"`
	Rooms    []presentation.RoomOption `json:"rooms"`
	Error    string                    `json:"error,omitempty"`
	LoadedAt string                    `json:"loaded_at,omitempty"`
}

// InvoiceDetailResponse is one invoice with its display row
type InvoiceDetailResponse struct {
	Row     presentation.InvoiceRow `json:"row"`
	Invoice *entity.Invoice         `json:"invoice"`
	Total   string                  `json:"total"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Loading:   h.lists.Loading(),
		},
	})
}

// ListInvoices handles GET /api/invoices. It reloads invoices and rooms
// unless cached=true is given.
func (h *Handlers) ListInvoices(c *gin.Context) {
	var board *entity.InvoiceBoard
	if cached, _ := strconv.ParseBool(c.Query("cached")); cached {
		board = h.lists.Snapshot()
	} else {
		board = h.lists.LoadAll(c.Request.Context())
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.toBoardResponse(board),
	})
}

// GetInvoice handles GET /api/invoices/:id
func (h *Handlers) GetInvoice(c *gin.Context) {
	id := c.Param("id")
	board := h.lists.Snapshot()

	inv := board.FindInvoice(id)
	if inv == nil {
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   "invoice not found",
		})
		return
	}

	index := 0
	for i := range board.Invoices {
		if board.Invoices[i].ID == id {
			index = i + 1
			break
		}
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: InvoiceDetailResponse{
			Row:     h.mapper.Row(index, *inv),
			Invoice: inv,
			Total:   h.mapper.FormatCurrency(inv.TotalAmount),
		},
	})
}

// GetEditor handles GET /api/editor
func (h *Handlers) GetEditor(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.editor.State(),
	})
}

// OpenCreateEditor handles POST /api/editor/create
func (h *Handlers) OpenCreateEditor(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.editor.OpenCreate(),
	})
}

// OpenEditEditor handles POST /api/editor/edit/:id
func (h *Handlers) OpenEditEditor(c *gin.Context) {
	id := c.Param("id")

	state, err := h.editor.OpenEdit(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvoiceNotFound) {
			status = http.StatusNotFound
		}
		h.logger.Error("Failed to open invoice editor", "invoice_id", id, "error", err)
		c.JSON(status, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    state,
	})
}

// CloseEditor handles DELETE /api/editor
func (h *Handlers) CloseEditor(c *gin.Context) {
	h.editor.Close()
	c.JSON(http.StatusOK, Response{Success: true})
}

// CreateInvoice handles POST /api/invoices
func (h *Handlers) CreateInvoice(c *gin.Context) {
	h.submit(c, "")
}

// UpdateInvoice handles PUT /api/invoices/:id
func (h *Handlers) UpdateInvoice(c *gin.Context) {
	h.submit(c, c.Param("id"))
}

func (h *Handlers) submit(c *gin.Context, id string) {
	draft, err := bindDraft(c.Request, id)
	if err != nil {
		h.logger.Error("Invalid invoice form", "invoice_id", id, "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	outcome := h.submissions.Submit(c.Request.Context(), draft, h.baseline(id))

	status := http.StatusOK
	if outcome.Succeeded && outcome.Operation == entity.OperationCreate {
		status = http.StatusCreated
	}
	if !outcome.Succeeded {
		status = http.StatusBadGateway
	}

	resp := Response{
		Success: outcome.Succeeded,
		Data:    outcome,
	}
	if !outcome.Succeeded {
		resp.Error = outcome.Message
	}
	c.JSON(status, resp)
}

// baseline returns the attachments the invoice had when it was opened: the
// editor's copy when it is editing that invoice, else the latest board
func (h *Handlers) baseline(id string) []entity.AttachmentRef {
	if id == "" {
		return nil
	}
	if state := h.editor.State(); state.Open && state.Draft != nil && state.Draft.ID == id {
		return state.Baseline
	}
	if inv := h.lists.Snapshot().FindInvoice(id); inv != nil {
		return inv.AttachmentRefs()
	}
	h.logger.Info("Invoice not on board, submitting without baseline", "invoice_id", id)
	return nil
}

// ExportInvoices handles GET /api/invoices/export
func (h *Handlers) ExportInvoices(c *gin.Context) {
	board := h.lists.Snapshot()
	if board.LoadedAt.IsZero() {
		board = h.lists.LoadAll(c.Request.Context())
	}

	filename := fmt.Sprintf("invoices-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := h.exporter.Export(board, c.Writer); err != nil {
		h.logger.Error("Failed to export invoices", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to export invoices",
		})
	}
}

// ListNotifications handles GET /api/notifications. drain=true empties the feed.
func (h *Handlers) ListNotifications(c *gin.Context) {
	var items []entity.Notification
	if drain, _ := strconv.ParseBool(c.Query("drain")); drain {
		items = h.feed.Drain()
	} else {
		items = h.feed.List()
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    items,
	})
}

// ListSubmissionsRequest represents query parameters for listing submissions
type ListSubmissionsRequest struct {
	Limit int `form:"limit"`
}

// ListSubmissions handles GET /api/submissions
func (h *Handlers) ListSubmissions(c *gin.Context) {
	if h.journal == nil {
		c.JSON(http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "submission journal disabled",
		})
		return
	}

	var req ListSubmissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}
	if req.Limit <= 0 || req.Limit > 200 {
		req.Limit = 50
	}

	records, err := h.journal.ListRecent(c.Request.Context(), req.Limit)
	if err != nil {
		h.logger.Error("Failed to list submissions", "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve submissions",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    records,
	})
}

// GetSubmission handles GET /api/submissions/:id
func (h *Handlers) GetSubmission(c *gin.Context) {
	if h.journal == nil {
		c.JSON(http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "submission journal disabled",
		})
		return
	}

	record, err := h.journal.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil || record == nil {
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   "submission not found",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    record,
	})
}

func (h *Handlers) toBoardResponse(board *entity.InvoiceBoard) BoardResponse {
	resp := BoardResponse{
		Invoices: h.mapper.Rows(board.Invoices),
		Rooms:    h.mapper.RoomOptions(board.Rooms),
		Error:    board.Error,
	}
	if !board.LoadedAt.IsZero() {
		resp.LoadedAt = board.LoadedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
