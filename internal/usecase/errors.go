package usecase

import "errors"

const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeBadRequest      = "BAD_REQUEST"
	CodeProfileNotFound = "PROFILE_NOT_FOUND"
	CodeMissingPhone    = "MISSING_PHONE"
	CodeNoCompany       = "NO_COMPANY"
	CodePersistence     = "PERSISTENCE_ERROR"
)

// DomainError: erro de regra/entrada, a mensagem vai direto para o cliente.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is compara pelo Code, então errors.Is(err, ErrBadRequest) funciona para qualquer mensagem.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

var (
	ErrUnauthorized    = &DomainError{Code: CodeUnauthorized, Message: "Unauthorized"}
	ErrProfileNotFound = &DomainError{Code: CodeProfileNotFound, Message: "User profile not found"}
	ErrBadRequest      = &DomainError{Code: CodeBadRequest, Message: "Bad request"}
	ErrMissingPhone    = &DomainError{Code: CodeMissingPhone, Message: "No phone number provided"}
	ErrNoCompany       = &DomainError{Code: CodeNoCompany, Message: "No company available for new lead"}
)

func NewBadRequest(message string) *DomainError {
	return &DomainError{Code: CodeBadRequest, Message: message}
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError: falha de infraestrutura (banco, fila).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps a store failure during the lead upsert.
func NewPersistenceError(message string, err error) *TechnicalError {
	return &TechnicalError{Code: CodePersistence, Message: message, Err: err}
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func IsPersistenceError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te) && te.Code == CodePersistence
}
