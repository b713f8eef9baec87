package google

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"

	"github.com/xavierca1/leadsync/internal/entity"
)

const (
	jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionLifetime  = time.Hour
)

// CredentialSigner assina o JWT da service account e troca por um access token.
// Não guarda o token: cada sync paga assinatura + troca.
type CredentialSigner struct {
	key        ServiceAccountKey
	privateKey *rsa.PrivateKey
	http       *http.Client
	now        func() time.Time
}

type SignerOption func(*CredentialSigner)

func WithSignerHTTPClient(c *http.Client) SignerOption {
	return func(s *CredentialSigner) {
		s.http = c
	}
}

func WithClock(now func() time.Time) SignerOption {
	return func(s *CredentialSigner) {
		s.now = now
	}
}

func NewCredentialSigner(key ServiceAccountKey, opts ...SignerOption) (*CredentialSigner, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	privateKey, err := parseRSAPrivateKey(key.PrivateKey)
	if err != nil {
		return nil, err
	}

	s := &CredentialSigner{
		key:        key,
		privateKey: privateKey,
		http:       &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SignAssertion monta header.claims.signature (RS256) para o escopo pedido.
func (s *CredentialSigner) SignAssertion(scope string) (string, error) {
	now := s.now()
	claims := assertionClaims{
		Issuer:   s.key.ClientEmail,
		Scope:    scope,
		Audience: s.key.TokenURI,
		IssuedAt: now.Unix(),
		Expiry:   now.Add(assertionLifetime).Unix(),
	}

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.RS256, Key: s.privateKey},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("erro ao criar signer RS256: %w", err)
	}

	assertion, err := jwt.Signed(signer).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("erro ao assinar assertion: %w", err)
	}
	return assertion, nil
}

// AccessToken troca a assertion no token_uri. Não-2xx ou resposta sem
// access_token vira *AuthError com o body do Google.
func (s *CredentialSigner) AccessToken(ctx context.Context, scope string) (*entity.AccessToken, error) {
	assertion, err := s.SignAssertion(scope)
	if err != nil {
		return nil, &AuthError{Err: err}
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerGrantType)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.key.TokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("erro request token google: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AuthError{StatusCode: resp.StatusCode, Err: fmt.Errorf("erro lendo resposta do token: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("❌ [AUTH] Token error: %d %s", resp.StatusCode, string(body))
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var data tokenResponse
	if err := json.Unmarshal(body, &data); err != nil || data.AccessToken == "" {
		log.Printf("❌ [AUTH] Token error: resposta sem access_token: %s", string(body))
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	expiresIn := data.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = int(assertionLifetime.Seconds())
	}

	return &entity.AccessToken{
		Value:  data.AccessToken,
		Expiry: s.now().Add(time.Duration(expiresIn) * time.Second),
	}, nil
}

func parseRSAPrivateKey(pemData string) (*rsa.PrivateKey, error) {
	// chave vinda de variável de ambiente costuma chegar com "\n" literal
	pemData = strings.ReplaceAll(pemData, `\n`, "\n")

	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, errors.New("service account: private_key is not valid PEM")
	}

	if parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("service account: private_key is not an RSA key")
		}
		return key, nil
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("service account: cannot parse private_key: %w", err)
	}
	return key, nil
}
