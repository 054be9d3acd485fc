package mutation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
)

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byEmail map[string]domain.User

	findErr   error
	createErr error

	// when set, FindByEmail never reports a hit; forces the insert race path
	blindLookup bool

	findCalls   int
	createCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]domain.User{}}
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.findCalls++
	if f.findErr != nil {
		return domain.User{}, false, f.findErr
	}
	if f.blindLookup {
		return domain.User{}, false, nil
	}
	u, ok := f.byEmail[email]
	return u, ok, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrDuplicateEmail(errors.New("unique violation"))
	}
	f.byEmail[u.Email] = u
	return u, nil
}

type fakeHasher struct {
	hashErr error
}

func (h fakeHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeInvoiceStore struct {
	mu sync.Mutex

	rows map[string]domain.Invoice
	seq  int

	err   error
	block chan struct{} // when set, calls wait for close or ctx done
	calls int
}

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{rows: map[string]domain.Invoice{}}
}

func (f *fakeInvoiceStore) wait(ctx context.Context) error {
	if f.block == nil {
		return nil
	}
	select {
	case <-f.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeInvoiceStore) Insert(ctx context.Context, inv domain.Invoice) (string, error) {
	if err := f.wait(ctx); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return "", f.err
	}
	f.seq++
	inv.ID = fmt.Sprintf("inv-%d", f.seq)
	f.rows[inv.ID] = inv
	return inv.ID, nil
}

func (f *fakeInvoiceStore) Update(ctx context.Context, inv domain.Invoice) (domain.Invoice, bool, error) {
	if err := f.wait(ctx); err != nil {
		return domain.Invoice{}, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return domain.Invoice{}, false, f.err
	}
	old, ok := f.rows[inv.ID]
	if !ok {
		return domain.Invoice{}, false, nil
	}
	inv.Date = old.Date
	f.rows[inv.ID] = inv
	return inv, true, nil
}

func (f *fakeInvoiceStore) Delete(ctx context.Context, id string) (int64, error) {
	if err := f.wait(ctx); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

func (f *fakeInvoiceStore) get(id string) (domain.Invoice, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.rows[id]
	return inv, ok
}

type fakeCache struct {
	mu      sync.Mutex
	deleted [][]string
	err     error
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, keys)
	return c.err
}

type publishedEvent struct {
	key string
	env DomainEventEnvelope
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) PublishEvent(ctx context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	env, _ := payload.(DomainEventEnvelope)
	p.events = append(p.events, publishedEvent{key: routingKey, env: env})
	return p.err
}

type recordingObserver struct {
	mu      sync.Mutex
	pending []Operation
	settled []Result
}

func (o *recordingObserver) Pending(ctx context.Context, op Operation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, op)
}

func (o *recordingObserver) Settled(ctx context.Context, op Operation, res Result, took time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settled = append(o.settled, res)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

/*
Harness
*/

type harness struct {
	users    *fakeUserRepo
	invoices *fakeInvoiceStore
	cache    *fakeCache
	pub      *fakePublisher
	obs      *recordingObserver
	p        *Pipeline
}

var testNow = time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)

func newHarness() *harness {
	h := &harness{
		users:    newFakeUserRepo(),
		invoices: newFakeInvoiceStore(),
		cache:    &fakeCache{},
		pub:      &fakePublisher{},
		obs:      &recordingObserver{},
	}
	h.p = New(Deps{
		Users:     h.users,
		Hasher:    fakeHasher{},
		Invoices:  h.invoices,
		Cache:     h.cache,
		Publisher: h.pub,
		Observer:  h.obs,
		Clock:     fixedClock{t: testNow},
	}, Config{StoreTimeout: time.Second})
	return h
}

var alice = domain.Identity{UserID: "u-alice", Email: "alice@example.com"}
