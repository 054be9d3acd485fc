package mutation

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/application/invoice"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/validation"
)

func requireIdentity(id domain.Identity) func() *domain.Error {
	return func() *domain.Error {
		if !id.Present() {
			return domain.ErrUnauthenticated()
		}
		return nil
	}
}

// CreateInvoice stores a new invoice dated today (UTC).
func (p *Pipeline) CreateInvoice(ctx context.Context, actor domain.Identity, form validation.Fields) Result {
	var in validation.Invoice

	return p.run(ctx, step{
		op:    OpCreateInvoice,
		guard: requireIdentity(actor),
		validate: func() validation.FieldErrors {
			var errs validation.FieldErrors
			in, errs = p.v.Invoice(form)
			return errs
		},
		execute: func(ctx context.Context, res *Result) error {
			inv := domain.Invoice{
				CustomerID:  in.CustomerID,
				AmountCents: in.AmountCents,
				Status:      in.Status,
				Date:        domain.InvoiceDate(p.clock.Now()),
			}
			id, err := p.invoices.Insert(ctx, inv)
			if err != nil {
				return err
			}
			inv.ID = id
			res.Invoice = &inv
			res.Message = MsgInvoiceCreated
			return nil
		},
		signal: func(*Result) Signal {
			return Signal{Invalidate: []string{invoice.ListKey}, Redirect: RedirectAfterInvoice}
		},
		event: func(res *Result) (string, any) {
			return RoutingInvoiceCreated, invoicePayload(*res.Invoice, actor)
		},
	})
}

// UpdateInvoice rewrites customer, amount and status. ID and date are kept.
// Updating a missing invoice fails with NotFound.
func (p *Pipeline) UpdateInvoice(ctx context.Context, actor domain.Identity, id string, form validation.Fields) Result {
	var in validation.Invoice
	id = strings.TrimSpace(id)

	return p.run(ctx, step{
		op:    OpUpdateInvoice,
		guard: requireIdentity(actor),
		validate: func() validation.FieldErrors {
			var errs validation.FieldErrors
			in, errs = p.v.Invoice(form)
			return errs
		},
		execute: func(ctx context.Context, res *Result) error {
			if id == "" {
				return domain.ErrNotFound("invoice")
			}
			updated, found, err := p.invoices.Update(ctx, domain.Invoice{
				ID:          id,
				CustomerID:  in.CustomerID,
				AmountCents: in.AmountCents,
				Status:      in.Status,
			})
			if err != nil {
				return err
			}
			if !found {
				return domain.ErrNotFound("invoice")
			}
			res.Invoice = &updated
			res.Message = MsgInvoiceUpdated
			return nil
		},
		signal: func(*Result) Signal {
			return Signal{Invalidate: []string{invoice.ListKey, invoice.Key(id)}, Redirect: RedirectAfterInvoice}
		},
		event: func(res *Result) (string, any) {
			return RoutingInvoiceUpdated, invoicePayload(*res.Invoice, actor)
		},
	})
}

// DeleteInvoice removes an invoice. Deleting an id that does not exist,
// including one already deleted, fails with NotFound.
func (p *Pipeline) DeleteInvoice(ctx context.Context, actor domain.Identity, id string) Result {
	id = strings.TrimSpace(id)

	return p.run(ctx, step{
		op:    OpDeleteInvoice,
		guard: requireIdentity(actor),
		execute: func(ctx context.Context, res *Result) error {
			if id == "" {
				return domain.ErrNotFound("invoice")
			}
			n, err := p.invoices.Delete(ctx, id)
			if err != nil {
				return err
			}
			if n == 0 {
				return domain.ErrNotFound("invoice")
			}
			res.Message = MsgInvoiceDeleted
			return nil
		},
		signal: func(*Result) Signal {
			return Signal{Invalidate: []string{invoice.ListKey, invoice.Key(id)}, Redirect: RedirectAfterInvoice}
		},
		event: func(*Result) (string, any) {
			return RoutingInvoiceDeleted, InvoicePayload{InvoiceID: id, ActorID: actor.UserID}
		},
	})
}

func invoicePayload(inv domain.Invoice, actor domain.Identity) InvoicePayload {
	return InvoicePayload{
		InvoiceID:   inv.ID,
		CustomerID:  inv.CustomerID,
		AmountCents: inv.AmountCents,
		Status:      string(inv.Status),
		Date:        inv.Date,
		ActorID:     actor.UserID,
	}
}
