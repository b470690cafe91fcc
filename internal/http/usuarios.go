package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	httpmiddleware "github.com/altilhabela/portal/internal/http/middleware"
	"github.com/altilhabela/portal/internal/imovel"
	"github.com/altilhabela/portal/internal/usuario"
)

// perfilPublico expõe a página pública de um anunciante: dados de
// contato e os anúncios aprovados e ativos.
func (h *Handler) perfilPublico(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, err := h.usuarios.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	todos, err := h.imoveis.ListarDoProprietario(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	proprios := make([]imovel.Imovel, 0, len(todos))
	for _, i := range todos {
		if i.Ativo && i.StatusAprovacao == imovel.StatusAprovado {
			proprios = append(proprios, i)
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"id":       u.ID,
		"nome":     u.Nome,
		"telefone": u.Telefone,
		"role":     u.Role,
		"imoveis":  proprios,
	})
}

// atualizarPerfil edita o próprio perfil; admin pode editar qualquer um.
func (h *Handler) atualizarPerfil(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if id != httpmiddleware.GetSubject(ctx) && !httpmiddleware.HasRole(ctx, usuario.RoleAdmin) {
		WriteError(w, http.StatusForbidden, "FORBIDDEN", "Não autorizado a editar este perfil", nil)
		return
	}

	var body struct {
		Nome      *string `json:"nome"`
		Telefone  *string `json:"telefone"`
		Descricao *string `json:"descricao"`
		FotoURL   *string `json:"foto_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	patch := usuario.PerfilPatch{
		Nome:      body.Nome,
		Telefone:  body.Telefone,
		Descricao: body.Descricao,
		FotoURL:   body.FotoURL,
	}
	if patch.Vazio() {
		WriteJSON(w, http.StatusOK, map[string]string{"message": "Nada a atualizar"})
		return
	}

	if err := h.usuarios.UpdatePerfil(ctx, id, patch); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Perfil atualizado com sucesso"})
}
