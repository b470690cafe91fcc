package http

import (
	"encoding/json"
	"net/http"

	httpmiddleware "github.com/altilhabela/portal/internal/http/middleware"
	"github.com/altilhabela/portal/internal/service"
	"github.com/altilhabela/portal/internal/util"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		Senha string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	pair, err := h.authService.Login(r.Context(), body.Email, body.Senha)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, pair)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "refresh_token obrigatório", nil)
		return
	}

	pair, err := h.authService.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, pair)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "refresh_token obrigatório", nil)
		return
	}

	if err := h.authService.Logout(r.Context(), body.RefreshToken); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Sessão encerrada"})
}

func (h *Handler) recuperarSenha(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	if err := util.ValidateEmail(body.Email); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.authService.RecuperarSenha(r.Context(), body.Email); err != nil {
		writeDomainError(w, err)
		return
	}
	// resposta idêntica para e-mail cadastrado ou não
	WriteJSON(w, http.StatusOK, map[string]string{"message": service.MsgRecuperacao})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.authService.Me(r.Context(), httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) alterarSenha(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SenhaAtual string `json:"senhaAtual"`
		NovaSenha  string `json:"novaSenha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	if body.SenhaAtual == "" || body.NovaSenha == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "Senha atual e nova senha são obrigatórias", nil)
		return
	}

	err := h.authService.AlterarSenha(r.Context(), httpmiddleware.GetSubject(r.Context()), body.SenhaAtual, body.NovaSenha)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Senha alterada com sucesso"})
}
