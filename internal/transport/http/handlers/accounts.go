package http_handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/application/session"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/transport/http/response"
)

type AccountHandler struct {
	mutations     Mutations
	auth          Authenticator
	signer        SessionSigner
	sessionTTL    time.Duration
	secureCookies bool
}

func NewAccountHandler(m Mutations, auth Authenticator, signer SessionSigner, sessionTTL time.Duration, secureCookies bool) *AccountHandler {
	return &AccountHandler{
		mutations:     m,
		auth:          auth,
		signer:        signer,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

// Signup handles POST /signup.
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	form, err := response.DecodeFields(w, r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	res := h.mutations.Register(r.Context(), form)
	if res.OK() {
		logger.WithCtx(r.Context()).Info().
			Str("user_id", res.User.ID).
			Msg("user_registered")
	}

	status, body := dto.FromResult(res)
	response.WriteJSON(w, status, body)
}

// CheckEmail handles POST /signup/check-email. The answer is a hint for the
// form only.
func (h *AccountHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	form, err := response.DecodeFields(w, r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	exists, err := h.auth.EmailExists(r.Context(), strings.TrimSpace(form.Get("email")))
	if err != nil {
		logger.WithCtx(r.Context()).Warn().Err(err).Msg("email existence check failed")
		response.WriteError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, dto.CheckEmailResponse{Exists: exists})
}

// Login handles POST /login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	form, err := response.DecodeFields(w, r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	id, err := h.auth.Authenticate(r.Context(), form)
	if err != nil {
		outcome := "error"
		if domain.Is(err, domain.CodeInvalidCredentials) {
			outcome = "invalid_credentials"
		}
		middleware.LoginAttemptsTotal.WithLabelValues(outcome).Inc()

		response.WriteJSON(w, response.StatusFromKind(domain.KindOf(err)), dto.LoginFailure{
			Message: session.FailureMessage(err),
		})
		return
	}

	token, err := h.signer.Sign(id, h.sessionTTL)
	if err != nil {
		logger.WithCtx(r.Context()).Error().Err(err).Msg("session sign failed")
		middleware.LoginAttemptsTotal.WithLabelValues("error").Inc()
		response.WriteJSON(w, http.StatusInternalServerError, dto.LoginFailure{
			Message: session.MsgSomethingWentWrong,
		})
		return
	}

	middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()
	logger.WithCtx(r.Context()).Info().Str("user_id", id.UserID).Msg("user_logged_in")

	security.SetSession(w, token, h.sessionTTL, h.secureCookies)
	response.NoContent(w)
}

// Logout handles POST /logout.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	security.ClearSession(w, h.secureCookies)
	response.NoContent(w)
}
