// Package session checks sign-in credentials and yields an Identity.
// It does not mint tokens; the transport owns how an identity is carried.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/validation"
)

const (
	MsgInvalidCredentials = "Invalid credentials."
	MsgSomethingWentWrong = "Something went wrong."
)

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (domain.User, bool, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type Issuer struct {
	v      *validation.Validator
	users  UserFinder
	hasher PasswordHasher

	// compared against when the email is unknown so both paths cost a hash
	dummyHash string
	timeout   time.Duration
}

func NewIssuer(v *validation.Validator, users UserFinder, hasher PasswordHasher, timeout time.Duration) *Issuer {
	if v == nil {
		v = validation.New()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		dummy = ""
	}
	return &Issuer{v: v, users: users, hasher: hasher, dummyHash: dummy, timeout: timeout}
}

// Authenticate returns the identity for a well-formed, matching email and
// password. Unknown email, wrong password and malformed input all fail with
// the same InvalidCredentials error.
func (s *Issuer) Authenticate(ctx context.Context, form validation.Fields) (domain.Identity, error) {
	email, password, ok := s.v.Credentials(form)
	if !ok {
		return domain.Anonymous, domain.ErrInvalidCredentials()
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u, found, err := s.users.FindByEmail(lookupCtx, email)
	if err != nil {
		logger.WithCtx(ctx).Error().Err(err).Msg("credential lookup failed")
		if domain.KindOf(err) == domain.KindInfrastructure || errors.Is(err, context.DeadlineExceeded) {
			return domain.Anonymous, domain.ErrStoreUnavailable(err)
		}
		return domain.Anonymous, domain.ErrInternal(err)
	}

	if !found {
		_ = s.hasher.Compare(s.dummyHash, password)
		return domain.Anonymous, domain.ErrInvalidCredentials()
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return domain.Anonymous, domain.ErrInvalidCredentials()
	}

	return domain.Identity{UserID: u.ID, Email: u.Email}, nil
}

// EmailExists is a non-authoritative hint for the sign-up form. Registration
// itself never relies on it.
func (s *Issuer) EmailExists(ctx context.Context, email string) (bool, error) {
	if !s.v.Email(email) {
		return false, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, found, err := s.users.FindByEmail(lookupCtx, email)
	if err != nil {
		return false, domain.ErrStoreUnavailable(err)
	}
	return found, nil
}

// FailureMessage maps an Authenticate error to one of the two fixed strings
// shown to the user.
func FailureMessage(err error) string {
	if domain.Is(err, domain.CodeInvalidCredentials) {
		return MsgInvalidCredentials
	}
	return MsgSomethingWentWrong
}
