package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
)

// SessionSigner issues and verifies the HS256 token carried in the session cookie.
type SessionSigner struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewSessionSigner(secret string, issuer string) *SessionSigner {
	return &SessionSigner{secret: []byte(secret), issuer: issuer, now: time.Now}
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *SessionSigner) Sign(id domain.Identity, ttl time.Duration) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

// Verify returns the identity in a valid token. Expired, forged and
// malformed tokens all fail with ErrTokenInvalid.
func (s *SessionSigner) Verify(token string) (domain.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domain.Anonymous, domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return domain.Anonymous, domain.ErrTokenInvalid()
	}
	return domain.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
