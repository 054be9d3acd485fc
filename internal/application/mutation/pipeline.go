// Package mutation runs every state-changing operation through the same
// stages: Validating, Executing, Finalizing, then Succeeded or Failed.
//
// Failures are values. Callers always get a Result back; store diagnostics
// are logged and never copied into it.
package mutation

import (
	"context"
	"errors"
	"time"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/logger"
	appCtx "github.com/baechuer/real-time-ressys/services/invoice-service/internal/pkg/context"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/validation"
)

type Stage string

const (
	StageValidating Stage = "validating"
	StageExecuting  Stage = "executing"
	StageFinalizing Stage = "finalizing"
	StageSucceeded  Stage = "succeeded"
	StageFailed     Stage = "failed"
)

type Operation string

const (
	OpRegister      Operation = "register"
	OpCreateInvoice Operation = "create_invoice"
	OpUpdateInvoice Operation = "update_invoice"
	OpDeleteInvoice Operation = "delete_invoice"
)

// Signal tells the caller which cached views were dropped and where to go next.
type Signal struct {
	Invalidate []string
	Redirect   string
}

// Result is either a success (Stage == StageSucceeded) or a failure with
// field errors and/or a message. Err classifies a failure.
type Result struct {
	Op      Operation
	Stage   Stage
	Message string
	Errors  validation.FieldErrors
	Err     *domain.Error

	User    *domain.User
	Invoice *domain.Invoice
	Signal  Signal
}

func (r Result) OK() bool { return r.Stage == StageSucceeded }

const (
	MsgDuplicateEmail     = "An account with this email already exists."
	MsgInvoiceNotFound    = "Invoice not found."
	MsgUnauthenticated    = "Authentication required."
	MsgUserCreated        = "User created successfully"
	MsgInvoiceCreated     = "Invoice created."
	MsgInvoiceUpdated     = "Invoice updated."
	MsgInvoiceDeleted     = "Deleted Invoice."
	RedirectAfterRegister = "/login"
	RedirectAfterInvoice  = "/dashboard/invoices"
)

var failureCopy = map[Operation]struct{ invalid, store string }{
	OpRegister:      {"Missing Fields. Failed to Create Account.", "Database Error: Failed to Create Account."},
	OpCreateInvoice: {"Missing Fields. Failed to Create Invoice.", "Database Error: Failed to Create Invoice."},
	OpUpdateInvoice: {"Missing Fields. Failed to Update Invoice.", "Database Error: Failed to Update Invoice."},
	OpDeleteInvoice: {"", "Database Error: Failed to Delete Invoice."},
}

type Deps struct {
	Validator *validation.Validator
	Users     CredentialStore
	Hasher    PasswordHasher
	Invoices  InvoiceStore

	// optional
	Cache     Invalidator
	Publisher EventPublisher
	Observer  Observer
	Clock     Clock
}

type Config struct {
	// StoreTimeout bounds the Executing stage.
	StoreTimeout time.Duration
	// FinalizeTimeout bounds cache invalidation and event publication.
	FinalizeTimeout time.Duration
}

type Pipeline struct {
	v        *validation.Validator
	users    CredentialStore
	hasher   PasswordHasher
	invoices InvoiceStore
	cache    Invalidator
	pub      EventPublisher
	obs      Observer
	clock    Clock

	storeTimeout    time.Duration
	finalizeTimeout time.Duration
}

func New(d Deps, cfg Config) *Pipeline {
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	if d.Observer == nil {
		d.Observer = nopObserver{}
	}
	if d.Clock == nil {
		d.Clock = systemClock{}
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 5 * time.Second
	}
	if cfg.FinalizeTimeout <= 0 {
		cfg.FinalizeTimeout = 2 * time.Second
	}
	return &Pipeline{
		v:               d.Validator,
		users:           d.Users,
		hasher:          d.Hasher,
		invoices:        d.Invoices,
		cache:           d.Cache,
		pub:             d.Publisher,
		obs:             d.Observer,
		clock:           d.Clock,
		storeTimeout:    cfg.StoreTimeout,
		finalizeTimeout: cfg.FinalizeTimeout,
	}
}

// step describes one mutation. Closures share the validated record.
type step struct {
	op Operation

	// guard runs before validation; a non-nil error fails the mutation
	guard    func() *domain.Error
	validate func() validation.FieldErrors
	execute  func(ctx context.Context, res *Result) error
	signal   func(res *Result) Signal
	event    func(res *Result) (routingKey string, payload any)
}

func (p *Pipeline) run(ctx context.Context, s step) Result {
	start := p.clock.Now()
	p.obs.Pending(ctx, s.op)

	res := p.advance(ctx, s)

	p.obs.Settled(ctx, s.op, res, p.clock.Now().Sub(start))
	return res
}

func (p *Pipeline) advance(ctx context.Context, s step) Result {
	res := Result{Op: s.op, Stage: StageValidating}

	if s.guard != nil {
		if err := s.guard(); err != nil {
			return p.fail(ctx, res, err)
		}
	}
	if s.validate != nil {
		if errs := s.validate(); !errs.Empty() {
			res.Errors = errs
			return p.fail(ctx, res, domain.ErrValidationFailed(failureCopy[s.op].invalid))
		}
	}

	res.Stage = StageExecuting
	if err := p.execute(ctx, s, &res); err != nil {
		return p.fail(ctx, res, err)
	}

	res.Stage = StageFinalizing
	if s.signal != nil {
		res.Signal = s.signal(&res)
	}
	p.finalize(ctx, s, &res)

	res.Stage = StageSucceeded
	return res
}

// execute runs the store calls on a context the caller cannot cancel, so an
// aborted request never leaves a half-applied mutation behind.
func (p *Pipeline) execute(ctx context.Context, s step, res *Result) error {
	execCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.storeTimeout)
	defer cancel()

	err := s.execute(execCtx, res)
	if err == nil {
		return nil
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrStoreUnavailable(err)
	}
	return domain.ErrInternal(err)
}

func (p *Pipeline) finalize(ctx context.Context, s step, res *Result) {
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.finalizeTimeout)
	defer cancel()

	lg := logger.WithCtx(ctx)

	if keys := res.Signal.Invalidate; len(keys) > 0 && p.cache != nil {
		if err := p.cache.Delete(fctx, keys...); err != nil {
			lg.Warn().Err(err).Strs("keys", keys).Str("op", string(s.op)).Msg("cache invalidate failed")
		}
	}

	if s.event != nil && p.pub != nil {
		key, payload := s.event(res)
		env := newEnvelope(appCtx.GetRequestID(ctx), p.clock.Now(), payload)
		if err := p.pub.PublishEvent(fctx, key, env); err != nil {
			lg.Warn().Err(err).Str("routing_key", key).Str("message_id", env.MessageID).Msg("publish domain event failed")
		}
	}
}

func (p *Pipeline) fail(ctx context.Context, res Result, err error) Result {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.ErrInternal(err)
	}

	res.Err = de
	copyFor := failureCopy[res.Op]

	switch de.Code {
	case domain.CodeValidationFailed:
		res.Message = copyFor.invalid
	case domain.CodeDuplicateEmail:
		res.Errors = validation.FieldErrors{"email": {MsgDuplicateEmail}}
		res.Message = MsgDuplicateEmail
	case domain.CodeNotFound:
		res.Message = MsgInvoiceNotFound
	case domain.CodeUnauthenticated:
		res.Message = MsgUnauthenticated
	default:
		res.Message = copyFor.store
	}

	lg := logger.WithCtx(ctx)
	ev := lg.Info()
	if de.Kind == domain.KindInfrastructure || de.Kind == domain.KindInternal {
		ev = lg.Error().Err(de)
	}
	ev.Str("op", string(res.Op)).
		Str("stage", string(res.Stage)).
		Str("code", de.Code).
		Msg("mutation failed")

	res.Stage = StageFailed
	return res
}
