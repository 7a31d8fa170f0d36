package port

import (
	"context"

	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

// InvoiceGateway defines the billing backend operations the console consumes
type InvoiceGateway interface {
	// FetchInvoices returns the invoice collection. A response without a
	// data array yields an empty collection, not an error.
	FetchInvoices(ctx context.Context) ([]entity.Invoice, error)

	// FetchOccupiedRooms returns rooms that can be billed
	FetchOccupiedRooms(ctx context.Context) ([]entity.Room, error)

	// CreateInvoice sends a new invoice. Any HTTP status is returned in the
	// response; err is reserved for transport failures.
	CreateInvoice(ctx context.Context, payload *entity.TransportPayload) (*entity.BoundaryResponse, error)

	// UpdateInvoice sends an edit of invoice id
	UpdateInvoice(ctx context.Context, id string, payload *entity.TransportPayload) (*entity.BoundaryResponse, error)
}

// AuthContext supplies the session token consulted by boundary calls
type AuthContext interface {
	// Token returns the current bearer token, empty when signed out
	Token() string

	// Expire drops the session after the backend rejected it
	Expire()
}
