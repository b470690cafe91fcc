package http

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/altilhabela/portal/internal/auth"
	"github.com/altilhabela/portal/internal/candidatura"
	"github.com/altilhabela/portal/internal/imovel"
	"github.com/altilhabela/portal/internal/lifecycle"
	"github.com/altilhabela/portal/internal/noticia"
	"github.com/altilhabela/portal/internal/parceiro"
	"github.com/altilhabela/portal/internal/service"
	"github.com/altilhabela/portal/internal/usuario"
	"github.com/altilhabela/portal/internal/util"
)

// writeDomainError traduz os erros de domínio para o envelope HTTP.
// O que não tem tradução vira 500 genérico, com o erro real só no log.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case util.IsValidation(err):
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)

	case errors.Is(err, usuario.ErrNotFound),
		errors.Is(err, candidatura.ErrNotFound),
		errors.Is(err, imovel.ErrNotFound),
		errors.Is(err, parceiro.ErrNotFound),
		errors.Is(err, noticia.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)

	case errors.Is(err, lifecycle.ErrTransicaoInvalida):
		WriteError(w, http.StatusConflict, "INVALID_TRANSITION", err.Error(), nil)

	case errors.Is(err, usuario.ErrEmailEmUso):
		WriteError(w, http.StatusBadRequest, "EMAIL_IN_USE", err.Error(), nil)

	case errors.Is(err, candidatura.ErrEmailJaRegistrado):
		WriteError(w, http.StatusBadRequest, "EMAIL_IN_USE", err.Error(), nil)

	case errors.Is(err, candidatura.ErrCandidaturaPendente):
		WriteError(w, http.StatusBadRequest, "DUPLICATE_PENDING", err.Error(), nil)

	case errors.Is(err, candidatura.ErrTipoInvalido):
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)

	case errors.Is(err, parceiro.ErrPerfilJaExiste):
		WriteError(w, http.StatusBadRequest, "PROFILE_EXISTS", err.Error(), nil)

	case errors.Is(err, lifecycle.ErrAutoExclusao):
		WriteError(w, http.StatusBadRequest, "SELF_DELETION", err.Error(), nil)

	case errors.Is(err, usuario.ErrRoleInvalida):
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)

	case errors.Is(err, service.ErrCredenciaisInvalidas):
		WriteError(w, http.StatusUnauthorized, "AUTH", err.Error(), nil)

	case errors.Is(err, service.ErrContaDesativada):
		WriteError(w, http.StatusUnauthorized, "ACCOUNT_DISABLED", err.Error(), nil)

	case errors.Is(err, service.ErrSenhaAtualIncorreta):
		WriteError(w, http.StatusBadRequest, "WRONG_PASSWORD", err.Error(), nil)

	case errors.Is(err, auth.ErrInvalidRefresh):
		WriteError(w, http.StatusUnauthorized, "AUTH", err.Error(), nil)

	default:
		log.Error().Err(err).Msg("erro inesperado na requisição")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
	}
}

// writeValidationError responde 400 com a mensagem do validador.
func writeValidationError(w http.ResponseWriter, err error) {
	WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
}

func errInvalidQuery(param string) error {
	return util.Invalid("parâmetro " + param + " inválido")
}
