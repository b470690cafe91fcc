package util

import "github.com/google/uuid"

// NewID gera o identificador opaco usado como chave de aplicação.
func NewID() string {
	return uuid.NewString()
}
