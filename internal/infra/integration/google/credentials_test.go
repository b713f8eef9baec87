package google

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScope = "https://www.googleapis.com/auth/spreadsheets.readonly"

func newTestKey(t *testing.T, tokenURI string) (ServiceAccountKey, *rsa.PrivateKey) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	return ServiceAccountKey{
		Type:        "service_account",
		ClientEmail: "sheets-sync@example.iam.gserviceaccount.com",
		PrivateKey:  string(pemKey),
		TokenURI:    tokenURI,
	}, priv
}

func fixedClock() time.Time {
	return time.Unix(1_700_000_000, 0)
}

func TestSignAssertion(t *testing.T) {
	key, priv := newTestKey(t, "https://oauth2.googleapis.com/token")
	signer, err := NewCredentialSigner(key, WithClock(fixedClock))
	require.NoError(t, err)

	assertion, err := signer.SignAssertion(testScope)
	require.NoError(t, err)

	parts := strings.Split(assertion, ".")
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.NotContains(t, p, "=", "base64url sem padding")
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	var header map[string]string
	require.NoError(t, json.Unmarshal(headerJSON, &header))
	assert.Equal(t, "RS256", header["alg"])
	assert.Equal(t, "JWT", header["typ"])

	tok, err := jwt.ParseSigned(assertion, []jose.SignatureAlgorithm{jose.RS256})
	require.NoError(t, err)

	var claims assertionClaims
	require.NoError(t, tok.Claims(&priv.PublicKey, &claims))
	assert.Equal(t, key.ClientEmail, claims.Issuer)
	assert.Equal(t, testScope, claims.Scope)
	assert.Equal(t, key.TokenURI, claims.Audience)
	assert.Equal(t, fixedClock().Unix(), claims.IssuedAt)
	assert.Equal(t, fixedClock().Add(time.Hour).Unix(), claims.Expiry)
}

func TestAccessTokenExchange(t *testing.T) {
	var gotAssertion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, jwtBearerGrantType, r.PostForm.Get("grant_type"))
		gotAssertion = r.PostForm.Get("assertion")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"ya29.test","token_type":"Bearer","expires_in":3599}`))
	}))
	defer srv.Close()

	key, _ := newTestKey(t, srv.URL)
	signer, err := NewCredentialSigner(key, WithClock(fixedClock))
	require.NoError(t, err)

	token, err := signer.AccessToken(context.Background(), testScope)
	require.NoError(t, err)
	assert.Equal(t, "ya29.test", token.Value)
	assert.Equal(t, fixedClock().Add(3599*time.Second), token.Expiry)
	assert.Len(t, strings.Split(gotAssertion, "."), 3)
}

func TestAccessTokenUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid JWT Signature."}`))
	}))
	defer srv.Close()

	key, _ := newTestKey(t, srv.URL)
	signer, err := NewCredentialSigner(key)
	require.NoError(t, err)

	_, err = signer.AccessToken(context.Background(), testScope)
	require.Error(t, err)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusBadRequest, authErr.StatusCode)
	assert.Contains(t, err.Error(), "Invalid JWT Signature.")
}

func TestAccessTokenMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	key, _ := newTestKey(t, srv.URL)
	signer, err := NewCredentialSigner(key)
	require.NoError(t, err)

	_, err = signer.AccessToken(context.Background(), testScope)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusOK, authErr.StatusCode)
	assert.Contains(t, authErr.Body, "token_type")
}

func TestNewCredentialSignerRejectsBadKey(t *testing.T) {
	t.Run("missing email", func(t *testing.T) {
		_, err := NewCredentialSigner(ServiceAccountKey{PrivateKey: "x", TokenURI: DefaultTokenURI})
		assert.Error(t, err)
	})

	t.Run("not pem", func(t *testing.T) {
		_, err := NewCredentialSigner(ServiceAccountKey{
			ClientEmail: "a@b.c",
			PrivateKey:  "not a key",
			TokenURI:    DefaultTokenURI,
		})
		assert.ErrorContains(t, err, "not valid PEM")
	})

	t.Run("pkcs1 with escaped newlines", func(t *testing.T) {
		priv, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		pemKey := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})
		escaped := strings.ReplaceAll(string(pemKey), "\n", `\n`)

		_, err = NewCredentialSigner(ServiceAccountKey{ClientEmail: "a@b.c", PrivateKey: escaped, TokenURI: DefaultTokenURI})
		assert.NoError(t, err)
	})
}

func TestParseServiceAccountKeyDefaultsTokenURI(t *testing.T) {
	key, err := ParseServiceAccountKey([]byte(`{"type":"service_account","client_email":"a@b.c","private_key":"pem"}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenURI, key.TokenURI)

	_, err = ParseServiceAccountKey([]byte(`{`))
	assert.Error(t, err)
}
