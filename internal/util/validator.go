package util

import (
	"errors"
	"net/mail"
	"strings"
)

// ValidationError marca erros de entrada do usuário, que a camada
// HTTP traduz para 400 em vez de 500.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Invalid cria um erro de validação.
func Invalid(msg string) error {
	return &ValidationError{msg: msg}
}

// IsValidation indica se o erro (ou sua cadeia) é de validação.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateEmail retorna erro para e-mails inválidos.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return Invalid("email obrigatório")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Invalid("email inválido")
	}
	return nil
}

// ValidatePassword verifica requisitos mínimos de senha.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return Invalid("senha deve ter pelo menos 8 caracteres")
	}
	return nil
}

// RequireString garante string não vazia.
func RequireString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return Invalid(field + " obrigatório")
	}
	return nil
}

// NormalizeEmail padroniza e-mails para comparação (minúsculas, sem espaços).
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeOptionalURL converte string vazia em ausência de valor,
// evitando que "" e NULL convivam nos campos de URL.
func NormalizeOptionalURL(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
