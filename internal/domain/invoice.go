package domain

import "time"

type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "pending"
	StatusPaid    InvoiceStatus = "paid"
)

func (s InvoiceStatus) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// DateLayout is the ISO 8601 calendar date form invoices are stamped with.
const DateLayout = "2006-01-02"

// Invoice amounts are always integer cents. Date and ID never change after
// creation.
type Invoice struct {
	ID          string        `json:"id"`
	CustomerID  string        `json:"customer_id"`
	AmountCents int64         `json:"amount_cents"`
	Status      InvoiceStatus `json:"status"`
	Date        string        `json:"date"`
}

// InvoiceDate returns the calendar date an invoice created at t carries.
func InvoiceDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
