package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
	appCtx "github.com/baechuer/real-time-ressys/services/invoice-service/internal/pkg/context"
)

type stubVerifier map[string]domain.Identity

func (s stubVerifier) Verify(token string) (domain.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return domain.Anonymous, errors.New("bad token")
}

var ok200 = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = appCtx.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, strings.Repeat("x", 500))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Len(t, seen, 36)
}

func TestIdentity_ResolvesCookie(t *testing.T) {
	alice := domain.Identity{UserID: "u1", Email: "alice@example.com"}
	var got domain.Identity
	h := Identity(stubVerifier{"good": alice})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "good"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, alice, got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "forged"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, got.Present())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, got.Present())
}

func TestGate(t *testing.T) {
	alice := domain.Identity{UserID: "u1"}
	tests := []struct {
		name     string
		identity domain.Identity
		path     string
		wantCode int
		wantLoc  string
	}{
		{"signed in on signup", alice, "/signup", http.StatusSeeOther, "/dashboard"},
		{"anonymous on signup", domain.Anonymous, "/signup", http.StatusOK, ""},
		{"anonymous on dashboard", domain.Anonymous, "/dashboard/invoices", http.StatusSeeOther, "/login"},
		{"signed in on dashboard", alice, "/dashboard/invoices", http.StatusOK, ""},
		{"lookalike path", domain.Anonymous, "/dashboards", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req = req.WithContext(WithIdentity(req.Context(), tt.identity))
			rec := httptest.NewRecorder()

			Gate(ok200).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
		})
	}
}

func TestGate_CountsRedirects(t *testing.T) {
	before := testutil.ToFloat64(GateRedirectsTotal.WithLabelValues("/login"))

	Gate(ok200).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(GateRedirectsTotal.WithLabelValues("/login")))
}

func TestAccessLog_WritesRequestLine(t *testing.T) {
	var buf bytes.Buffer
	prev := zlog.Logger
	zlog.Logger = zerolog.New(&buf)
	t.Cleanup(func() { zlog.Logger = prev })

	h := RequestID(AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	out := buf.String()
	require.Contains(t, out, `"message":"http_request"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"bytes":2`)
	assert.Contains(t, out, `"request_id"`)
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/dashboard/invoices/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/dashboard/invoices/{id}", "204"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard/invoices/42", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/dashboard/invoices/{id}", "204"))

	assert.Equal(t, before+1, after)
}
