package usuario

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound é retornado quando nenhum usuário é encontrado.
	ErrNotFound = errors.New("usuário não encontrado")
	// ErrEmailEmUso indica violação da unicidade de e-mail.
	ErrEmailEmUso = errors.New("email já está em uso")
	// ErrRoleInvalida indica papel desconhecido.
	ErrRoleInvalida = errors.New("papel de usuário inválido")
)

// Role é o papel fechado de um usuário; fixado na criação.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleAssociado Role = "associado"
	RoleMembro    Role = "membro"
	RoleParceiro  Role = "parceiro"
)

// ParseRole normaliza e valida um papel vindo de fora.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleAssociado:
		return RoleAssociado, nil
	case RoleMembro:
		return RoleMembro, nil
	case RoleParceiro:
		return RoleParceiro, nil
	default:
		return "", ErrRoleInvalida
	}
}

func (r Role) String() string { return string(r) }

// Usuario representa uma conta do portal.
type Usuario struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nome      string    `json:"nome"`
	Telefone  *string   `json:"telefone,omitempty"`
	Role      Role      `json:"role"`
	Ativo     bool      `json:"ativo"`
	Descricao *string   `json:"descricao,omitempty"`
	FotoURL   *string   `json:"foto_url,omitempty"`
	CriadoEm  time.Time `json:"created_at"`
}

// PerfilPatch é o conjunto fechado de campos editáveis de perfil.
// Papel e hash de senha ficam fora de propósito: só mudam por
// operações dedicadas.
type PerfilPatch struct {
	Nome      *string
	Telefone  *string
	Descricao *string
	FotoURL   *string
}

// Vazio indica patch sem nenhum campo preenchido.
func (p PerfilPatch) Vazio() bool {
	return p.Nome == nil && p.Telefone == nil && p.Descricao == nil && p.FotoURL == nil
}
