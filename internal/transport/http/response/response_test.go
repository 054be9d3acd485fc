package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
	appCtx "github.com/baechuer/real-time-ressys/services/invoice-service/internal/pkg/context"
)

func newReqWithBody(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	return req
}

func TestDecodeFields_JSONKeepsNumberText(t *testing.T) {
	req := newReqWithBody(`{"customerId":"c1","amount":10.005,"status":"paid","extra":{"x":1},"gone":null}`, "application/json; charset=utf-8")

	f, err := DecodeFields(httptest.NewRecorder(), req)
	require.NoError(t, err)

	assert.Equal(t, "c1", f.Get("customerId"))
	assert.Equal(t, "10.005", f.Get("amount"))
	assert.Equal(t, "paid", f.Get("status"))
	assert.Equal(t, "", f.Get("extra"))
	assert.Equal(t, "", f.Get("gone"))
}

func TestDecodeFields_Form(t *testing.T) {
	form := url.Values{"name": {"Ann"}, "email": {"ann@x.io", "second@x.io"}}
	req := newReqWithBody(form.Encode(), "application/x-www-form-urlencoded")

	f, err := DecodeFields(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, "Ann", f.Get("name"))
	assert.Equal(t, "ann@x.io", f.Get("email"))
}

func TestDecodeFields_RejectsBadJSON(t *testing.T) {
	for _, body := range []string{`{`, `[1,2]`, `{"a":"b"} {"c":"d"}`} {
		_, err := DecodeFields(httptest.NewRecorder(), newReqWithBody(body, "application/json"))
		assert.True(t, domain.Is(err, domain.CodeInvalidJSON), body)
	}
}

func TestWriteError_DomainError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(appCtx.WithRequestID(context.Background(), "rid-1"))
	rec := httptest.NewRecorder()

	WriteError(rec, req, domain.ErrNotFound("invoice"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.CodeNotFound, body.Error.Code)
	assert.Equal(t, "rid-1", body.Error.RequestID)
	assert.Equal(t, "invoice", body.Error.Meta["entity"])
}

func TestWriteError_UnknownErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestStatusFromKind(t *testing.T) {
	cases := map[domain.ErrKind]int{
		domain.KindValidation:     http.StatusBadRequest,
		domain.KindAuth:           http.StatusUnauthorized,
		domain.KindNotFound:       http.StatusNotFound,
		domain.KindConflict:       http.StatusConflict,
		domain.KindInfrastructure: http.StatusServiceUnavailable,
		domain.KindInternal:       http.StatusInternalServerError,
		"unknown":                 http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, StatusFromKind(k), string(k))
	}
}

func TestOKAndNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]bool{"exists": true})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"exists":true}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
