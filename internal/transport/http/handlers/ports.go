package http_handlers

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/application/mutation"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/validation"
)

type Mutations interface {
	Register(ctx context.Context, form validation.Fields) mutation.Result
	CreateInvoice(ctx context.Context, actor domain.Identity, form validation.Fields) mutation.Result
	UpdateInvoice(ctx context.Context, actor domain.Identity, id string, form validation.Fields) mutation.Result
	DeleteInvoice(ctx context.Context, actor domain.Identity, id string) mutation.Result
}

type Authenticator interface {
	Authenticate(ctx context.Context, form validation.Fields) (domain.Identity, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type SessionSigner interface {
	Sign(id domain.Identity, ttl time.Duration) (string, error)
}

type InvoiceReader interface {
	List(ctx context.Context) ([]domain.Invoice, error)
	Get(ctx context.Context, id string) (domain.Invoice, error)
}
