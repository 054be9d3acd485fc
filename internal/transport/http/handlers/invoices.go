package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/transport/http/response"
)

type InvoiceHandler struct {
	mutations Mutations
	reader    InvoiceReader
}

func NewInvoiceHandler(m Mutations, reader InvoiceReader) *InvoiceHandler {
	return &InvoiceHandler{mutations: m, reader: reader}
}

// List handles GET /dashboard/invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.reader.List(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error().Err(err).Msg("list invoices failed")
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewInvoiceViews(list))
}

// Get handles GET /dashboard/invoices/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.reader.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewInvoiceView(inv))
}

// Create handles POST /dashboard/invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := response.DecodeFields(w, r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	res := h.mutations.CreateInvoice(r.Context(), middleware.IdentityFromContext(r.Context()), form)
	status, body := dto.FromResult(res)
	response.WriteJSON(w, status, body)
}

// Update handles PUT /dashboard/invoices/{id}
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, err := response.DecodeFields(w, r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	actor := middleware.IdentityFromContext(r.Context())
	res := h.mutations.UpdateInvoice(r.Context(), actor, chi.URLParam(r, "id"), form)
	status, body := dto.FromResult(res)
	response.WriteJSON(w, status, body)
}

// Delete handles DELETE /dashboard/invoices/{id}
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.IdentityFromContext(r.Context())
	res := h.mutations.DeleteInvoice(r.Context(), actor, chi.URLParam(r, "id"))
	status, body := dto.FromResult(res)
	response.WriteJSON(w, status, body)
}
