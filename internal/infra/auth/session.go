package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

const clockLeeway = 30 * time.Second

// MinSecretLength é o menor segredo HS256 que o go-jose aceita.
const MinSecretLength = 32

var ErrInvalidSession = errors.New("invalid session token")

// Session é o que sobra de um JWT de sessão válido.
type Session struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

type sessionClaims struct {
	jwt.Claims
	Email string `json:"email,omitempty"`
}

// SessionVerifier valida os JWTs HS256 emitidos pelo provedor de login do dashboard.
type SessionVerifier struct {
	secret   []byte
	audience string
	now      func() time.Time
}

func NewSessionVerifier(secret []byte, audience string) *SessionVerifier {
	return &SessionVerifier{
		secret:   secret,
		audience: audience,
		now:      time.Now,
	}
}

// Verify aceita o token com ou sem o prefixo "Bearer ".
func (v *SessionVerifier) Verify(raw string) (*Session, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" || len(v.secret) == 0 {
		return nil, ErrInvalidSession
	}

	tok, err := jwt.ParseSigned(raw, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	var claims sessionClaims
	if err := tok.Claims(v.secret, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	expected := jwt.Expected{Time: v.now()}
	if v.audience != "" {
		expected.AnyAudience = jwt.Audience{v.audience}
	}
	if err := claims.ValidateWithLeeway(expected, clockLeeway); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidSession)
	}
	// sem exp o token valeria para sempre
	if claims.Expiry == nil {
		return nil, fmt.Errorf("%w: missing exp", ErrInvalidSession)
	}

	return &Session{
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.Expiry.Time(),
	}, nil
}

// Issue assina um token de sessão. Usado pela CLI e pelos testes.
func (v *SessionVerifier) Issue(userID string, ttl time.Duration) (string, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: v.secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", err
	}

	now := v.now()
	claims := jwt.Claims{
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(ttl)),
	}
	if v.audience != "" {
		claims.Audience = jwt.Audience{v.audience}
	}
	return jwt.Signed(signer).Claims(claims).Serialize()
}
