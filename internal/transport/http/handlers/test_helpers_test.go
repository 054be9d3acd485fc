package http_handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/application/invoice"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/application/mutation"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/application/session"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/infrastructure/memory"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/validation"
)

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json: %v; body=%s", err, string(raw))
	}
}

func readCookie(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// testApp wires the handlers to in-memory adapters.
type testApp struct {
	users    *memory.UserRepo
	invoices *memory.InvoiceRepo
	cache    *memory.Cache
	signer   *security.SessionSigner

	accounts *AccountHandler
	invoice  *InvoiceHandler
	router   http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	v := validation.New()
	hasher := security.NewBcryptHasher(4)
	a := &testApp{
		users:    memory.NewUserRepo(),
		invoices: memory.NewInvoiceRepo(),
		cache:    memory.NewCache(),
		signer:   security.NewSessionSigner("test-secret", "invoice-service"),
	}

	p := mutation.New(mutation.Deps{
		Validator: v,
		Users:     a.users,
		Hasher:    hasher,
		Invoices:  a.invoices,
		Cache:     a.cache,
		Publisher: memory.NewNoopPublisher(),
	}, mutation.Config{})

	issuer := session.NewIssuer(v, a.users, hasher, time.Second)
	reader := invoice.New(a.invoices, a.cache, time.Minute, time.Minute)

	a.accounts = NewAccountHandler(p, issuer, a.signer, time.Hour, false)
	a.invoice = NewInvoiceHandler(p, reader)

	r := chi.NewRouter()
	r.Use(middleware.Identity(a.signer))
	r.Post("/signup", a.accounts.Signup)
	r.Post("/signup/check-email", a.accounts.CheckEmail)
	r.Post("/login", a.accounts.Login)
	r.Post("/logout", a.accounts.Logout)
	r.Route("/dashboard/invoices", func(r chi.Router) {
		r.Get("/", a.invoice.List)
		r.Post("/", a.invoice.Create)
		r.Get("/{id}", a.invoice.Get)
		r.Put("/{id}", a.invoice.Update)
		r.Delete("/{id}", a.invoice.Delete)
	})
	a.router = r
	return a
}

func (a *testApp) sessionCookie(t *testing.T, id domain.Identity) *http.Cookie {
	t.Helper()
	tok, err := a.signer.Sign(id, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return &http.Cookie{Name: security.SessionCookieName, Value: tok}
}
