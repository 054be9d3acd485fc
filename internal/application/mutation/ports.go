package mutation

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
)

/*
CredentialStore
---------------
Persistence port for accounts. Create must report a duplicate email as
domain.ErrDuplicateEmail, decided by the store's unique index.
*/
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (domain.User, bool, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
InvoiceStore
------------
Write port for invoices. A missing row is not an error here; Update reports
it as found == false and Delete as zero affected rows. The pipeline decides
what either means.
*/
type InvoiceStore interface {
	Insert(ctx context.Context, inv domain.Invoice) (string, error)
	Update(ctx context.Context, inv domain.Invoice) (updated domain.Invoice, found bool, err error)
	Delete(ctx context.Context, id string) (int64, error)
}

// Invalidator drops cached views after a committed change.
type Invalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey string, payload any) error
}

// Observer is told when a mutation starts and when it settles.
type Observer interface {
	Pending(ctx context.Context, op Operation)
	Settled(ctx context.Context, op Operation, res Result, took time.Duration)
}

type Clock interface{ Now() time.Time }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type nopObserver struct{}

func (nopObserver) Pending(context.Context, Operation)                        {}
func (nopObserver) Settled(context.Context, Operation, Result, time.Duration) {}
