package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/garyjia/room-invoice-admin/internal/application/port"
	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

const (
	pathInvoices      = "/invoices"
	pathOccupiedRooms = "/rooms/occupied"
)

// Config holds billing backend connection settings
type Config struct {
	BaseURL string
	Timeout time.Duration
}

var _ port.InvoiceGateway = (*Client)(nil)

// Client implements port.InvoiceGateway against the billing REST API
type Client struct {
	http   *resty.Client
	auth   port.AuthContext
	logger *zap.Logger
}

// NewClient creates a new billing API client. auth may be nil for
// unauthenticated backends.
func NewClient(cfg Config, auth port.AuthContext, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &Client{
		auth:   auth,
		logger: logger,
	}

	c.http = resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetLogger(logger.Sugar()).
		OnBeforeRequest(c.attachToken).
		OnAfterResponse(c.checkSession)

	return c
}

func (c *Client) attachToken(_ *resty.Client, r *resty.Request) error {
	if c.auth == nil {
		return nil
	}
	if token := c.auth.Token(); token != "" {
		r.SetAuthToken(token)
	}
	return nil
}

func (c *Client) checkSession(_ *resty.Client, resp *resty.Response) error {
	if resp.StatusCode() == http.StatusUnauthorized && c.auth != nil {
		c.logger.Info("Billing API rejected session token",
			zap.String("method", resp.Request.Method),
			zap.String("url", resp.Request.URL))
		c.auth.Expire()
	}
	return nil
}

// FetchInvoices lists all invoices. The backend wraps the list as {"data": [...]}.
func (c *Client) FetchInvoices(ctx context.Context) ([]entity.Invoice, error) {
	body, err := c.get(ctx, pathInvoices)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode invoices: %w", err)
	}

	elements := rawArray(envelope.Data)
	invoices := make([]entity.Invoice, 0, len(elements))
	for i, raw := range elements {
		var inv entity.Invoice
		if err := json.Unmarshal(raw, &inv); err != nil {
			c.logger.Warn("Skipping undecodable invoice",
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		invoices = append(invoices, inv)
	}

	c.logger.Debug("Fetched invoices", zap.Int("count", len(invoices)))
	return invoices, nil
}

// FetchOccupiedRooms lists rooms that can be invoiced. The backend nests the
// list one level deeper: {"data": {"data": [...]}}.
func (c *Client) FetchOccupiedRooms(ctx context.Context) ([]entity.Room, error) {
	body, err := c.get(ctx, pathOccupiedRooms)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch occupied rooms: %w", err)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	// Rooms are only read from data.data; any other shape is an empty list
	var inner struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(envelope.Data, &inner); err != nil {
		inner.Data = nil
	}

	elements := rawArray(inner.Data)
	rooms := make([]entity.Room, 0, len(elements))
	for i, raw := range elements {
		var room entity.Room
		if err := json.Unmarshal(raw, &room); err != nil {
			c.logger.Warn("Skipping undecodable room",
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		rooms = append(rooms, room)
	}

	c.logger.Debug("Fetched occupied rooms", zap.Int("count", len(rooms)))
	return rooms, nil
}

// CreateInvoice posts a new invoice as multipart form data
func (c *Client) CreateInvoice(ctx context.Context, payload *entity.TransportPayload) (*entity.BoundaryResponse, error) {
	return c.sendMultipart(ctx, http.MethodPost, pathInvoices, payload)
}

// UpdateInvoice replaces the invoice with the given id
func (c *Client) UpdateInvoice(ctx context.Context, id string, payload *entity.TransportPayload) (*entity.BoundaryResponse, error) {
	if id == "" {
		return nil, fmt.Errorf("invoice id cannot be empty")
	}
	return c.sendMultipart(ctx, http.MethodPut, pathInvoices+"/{id}", payload, id)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		c.logger.Error("Billing API call failed",
			zap.String("path", path),
			zap.Error(err))
		return nil, err
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return nil, ErrSessionExpired
	case resp.IsError():
		msg := decodeResponse(resp.Body()).Message
		c.logger.Error("Billing API returned error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", msg))
		if msg != "" {
			return nil, fmt.Errorf("%s (status %d)", msg, resp.StatusCode())
		}
		return nil, fmt.Errorf("billing API returned status %d", resp.StatusCode())
	}

	return resp.Body(), nil
}

// sendMultipart writes text fields first and then one part per file.
// Every file is opened before the request and closed after it.
func (c *Client) sendMultipart(ctx context.Context, method, path string, payload *entity.TransportPayload, id ...string) (*entity.BoundaryResponse, error) {
	if payload == nil {
		return nil, fmt.Errorf("payload cannot be nil")
	}

	req := c.http.R().
		SetContext(ctx).
		SetMultipartFormData(payload.FormData())
	if len(id) > 0 {
		req.SetPathParam("id", id[0])
	}

	readers := make([]io.ReadCloser, 0, len(payload.Files))
	defer func() {
		for _, r := range readers {
			r.Close()
		}
	}()
	for _, f := range payload.Files {
		r, err := f.File.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open attachment %s: %w", f.File.Name(), err)
		}
		readers = append(readers, r)
		req.SetFileReader(f.Field, f.File.Name(), r)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Error("Billing API call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("failed to send invoice: %w", err)
	}

	result := decodeResponse(resp.Body())
	result.StatusCode = resp.StatusCode()

	c.logger.Info("Billing API responded",
		zap.String("method", method),
		zap.String("url", resp.Request.URL),
		zap.Int("status_code", result.StatusCode),
		zap.Int("files", len(payload.Files)))

	return result, nil
}

// decodeResponse reads {"message": ..., "data": ...}; a body that is not a
// JSON object yields an empty response
func decodeResponse(body []byte) *entity.BoundaryResponse {
	var envelope struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &entity.BoundaryResponse{}
	}
	return &entity.BoundaryResponse{
		Message: envelope.Message,
		Data:    envelope.Data,
	}
}

// rawArray splits a JSON array; anything else (null, object, missing) is empty
func rawArray(data json.RawMessage) []json.RawMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil
	}
	return elements
}
