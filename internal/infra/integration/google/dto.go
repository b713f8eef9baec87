package google

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const DefaultTokenURI = "https://oauth2.googleapis.com/token"

// ServiceAccountKey é o subconjunto do JSON da service account que usamos.
type ServiceAccountKey struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
	TokenURI     string `json:"token_uri"`
}

// ParseServiceAccountKey lê o arquivo de chave no formato que o console do Google gera.
func ParseServiceAccountKey(data []byte) (ServiceAccountKey, error) {
	var key ServiceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return ServiceAccountKey{}, fmt.Errorf("invalid service account json: %w", err)
	}
	if key.TokenURI == "" {
		key.TokenURI = DefaultTokenURI
	}
	if err := key.Validate(); err != nil {
		return ServiceAccountKey{}, err
	}
	return key, nil
}

func (k ServiceAccountKey) Validate() error {
	if strings.TrimSpace(k.ClientEmail) == "" {
		return errors.New("service account: client_email is required")
	}
	if strings.TrimSpace(k.PrivateKey) == "" {
		return errors.New("service account: private_key is required")
	}
	if strings.TrimSpace(k.TokenURI) == "" {
		return errors.New("service account: token_uri is required")
	}
	return nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// assertionClaims é o claim set do JWT bearer grant.
type assertionClaims struct {
	Issuer   string `json:"iss"`
	Scope    string `json:"scope"`
	Audience string `json:"aud"`
	IssuedAt int64  `json:"iat"`
	Expiry   int64  `json:"exp"`
}
