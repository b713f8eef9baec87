package google

import "fmt"

// AuthError: assinatura ou troca do token falhou. Body traz a resposta do Google.
type AuthError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Failed to get access token: %v", e.Err)
	}
	return fmt.Sprintf("Failed to get access token: status %d - %s", e.StatusCode, e.Body)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// FetchError: a leitura da planilha retornou não-2xx.
type FetchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 && e.Err != nil {
		return fmt.Sprintf("Failed to fetch sheet data: %v", e.Err)
	}
	return fmt.Sprintf("Failed to fetch sheet data: status %d - %s", e.StatusCode, e.Body)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
