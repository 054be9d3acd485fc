package dto

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/application/mutation"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/transport/http/response"
)

type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type InvoiceView struct {
	ID          string `json:"id"`
	CustomerID  string `json:"customerId"`
	AmountCents int64  `json:"amountCents"`
	Status      string `json:"status"`
	Date        string `json:"date"`
}

// MutationResponse is the body of every state-changing endpoint.
type MutationResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message,omitempty"`
	Errors      map[string][]string `json:"errors,omitempty"`
	Redirect    string              `json:"redirect,omitempty"`
	Revalidated []string            `json:"revalidated,omitempty"`
	User        *UserView           `json:"user,omitempty"`
	Invoice     *InvoiceView        `json:"invoice,omitempty"`
}

func NewInvoiceView(inv domain.Invoice) InvoiceView {
	return InvoiceView{
		ID:          inv.ID,
		CustomerID:  inv.CustomerID,
		AmountCents: inv.AmountCents,
		Status:      string(inv.Status),
		Date:        inv.Date,
	}
}

func NewInvoiceViews(list []domain.Invoice) []InvoiceView {
	out := make([]InvoiceView, 0, len(list))
	for _, inv := range list {
		out = append(out, NewInvoiceView(inv))
	}
	return out
}

// FromResult renders a pipeline result and picks its HTTP status.
func FromResult(res mutation.Result) (int, MutationResponse) {
	body := MutationResponse{
		Success: res.OK(),
		Message: res.Message,
	}

	if !res.OK() {
		if len(res.Errors) > 0 {
			body.Errors = res.Errors
		}
		status := http.StatusInternalServerError
		if res.Err != nil {
			status = response.StatusFromKind(res.Err.Kind)
		}
		return status, body
	}

	body.Redirect = res.Signal.Redirect
	body.Revalidated = res.Signal.Invalidate
	if res.User != nil {
		body.User = &UserView{ID: res.User.ID, Email: res.User.Email}
	}
	if res.Invoice != nil {
		v := NewInvoiceView(*res.Invoice)
		body.Invoice = &v
	}

	switch res.Op {
	case mutation.OpRegister, mutation.OpCreateInvoice:
		return http.StatusCreated, body
	default:
		return http.StatusOK, body
	}
}
