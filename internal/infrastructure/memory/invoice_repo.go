package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
)

type InvoiceRepo struct {
	mu   sync.RWMutex
	rows map[string]domain.Invoice
}

func NewInvoiceRepo() *InvoiceRepo {
	return &InvoiceRepo{rows: make(map[string]domain.Invoice)}
}

func (r *InvoiceRepo) Insert(ctx context.Context, inv domain.Invoice) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv.ID = uuid.NewString()
	r.rows[inv.ID] = inv
	return inv.ID, nil
}

// Update keeps the stored date; only customer, amount and status change.
func (r *InvoiceRepo) Update(ctx context.Context, inv domain.Invoice) (domain.Invoice, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.rows[inv.ID]
	if !ok {
		return domain.Invoice{}, false, nil
	}
	old.CustomerID = inv.CustomerID
	old.AmountCents = inv.AmountCents
	old.Status = inv.Status
	r.rows[inv.ID] = old
	return old, true, nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

func (r *InvoiceRepo) List(ctx context.Context) ([]domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Invoice, 0, len(r.rows))
	for _, inv := range r.rows {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *InvoiceRepo) Get(ctx context.Context, id string) (domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.rows[id]
	if !ok {
		return domain.Invoice{}, domain.ErrNotFound("invoice")
	}
	return inv, nil
}
