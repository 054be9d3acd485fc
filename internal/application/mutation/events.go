package mutation

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventVersion  = 1
	EventProducer = "invoice-service"

	RoutingUserRegistered = "user.registered"
	RoutingInvoiceCreated = "invoice.created"
	RoutingInvoiceUpdated = "invoice.updated"
	RoutingInvoiceDeleted = "invoice.deleted"
)

// DomainEventEnvelope is the stable contract for everything this service
// publishes. trace_id carries the request id when there is one.
type DomainEventEnvelope struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type InvoicePayload struct {
	InvoiceID   string `json:"invoice_id"`
	CustomerID  string `json:"customer_id,omitempty"`
	AmountCents int64  `json:"amount_cents,omitempty"`
	Status      string `json:"status,omitempty"`
	Date        string `json:"date,omitempty"`
	ActorID     string `json:"actor_id"`
}

func newEnvelope(traceID string, at time.Time, payload any) DomainEventEnvelope {
	return DomainEventEnvelope{
		Version:    EventVersion,
		Producer:   EventProducer,
		MessageID:  uuid.NewString(),
		TraceID:    traceID,
		OccurredAt: at.UTC(),
		Payload:    payload,
	}
}

// ID is the AMQP message id.
func (e DomainEventEnvelope) ID() string { return e.MessageID }
