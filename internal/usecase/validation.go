package usecase

import (
	"fmt"
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DigitsOnly remove tudo que não for dígito: "+91 98765-43210" → "919876543210".
func DigitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// ValidateSheetConfig confere o payload do PUT de configuração da planilha.
// Espaços nas pontas são ignorados; o handler salva os valores já aparados.
func ValidateSheetConfig(sheetID, tabName string) []ValidationError {
	var errs []ValidationError
	sheetID = strings.TrimSpace(sheetID)
	tabName = strings.TrimSpace(tabName)

	if sheetID == "" {
		errs = append(errs, ValidationError{"sheetId", "is required"})
	} else if strings.ContainsAny(sheetID, "/ ") {
		errs = append(errs, ValidationError{"sheetId", "must be the spreadsheet id, not the URL"})
	}

	if tabName == "" {
		errs = append(errs, ValidationError{"tabName", "is required"})
	} else if len(tabName) > 100 {
		errs = append(errs, ValidationError{"tabName", "must not exceed 100 characters"})
	}

	return errs
}

// JoinValidationErrors formata a lista para a resposta HTTP.
func JoinValidationErrors(errs []ValidationError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}
