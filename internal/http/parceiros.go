package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	httpmiddleware "github.com/altilhabela/portal/internal/http/middleware"
	"github.com/altilhabela/portal/internal/parceiro"
)

func (h *Handler) listParceiros(w http.ResponseWriter, r *http.Request) {
	var categoria *string
	if v := r.URL.Query().Get("categoria"); v != "" {
		categoria = &v
	}

	list, err := h.parceiros.ListarVitrine(r.Context(), categoria)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []parceiro.PerfilParceiro{}
	}
	WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) getParceiro(w http.ResponseWriter, r *http.Request) {
	p, err := h.parceiros.Buscar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) criarPerfilParceiro(w http.ResponseWriter, r *http.Request) {
	var body parceiro.PerfilParceiro
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	body.UserID = httpmiddleware.GetSubject(r.Context())

	created, err := h.parceiros.Criar(r.Context(), body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) meuPerfilParceiro(w http.ResponseWriter, r *http.Request) {
	p, err := h.parceiros.BuscarDoUsuario(r.Context(), httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) atualizarPerfilParceiro(w http.ResponseWriter, r *http.Request) {
	var patch parceiro.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.parceiros.Atualizar(r.Context(), id, httpmiddleware.GetSubject(r.Context()), patch); err != nil {
		writeDomainError(w, err)
		return
	}

	p, err := h.parceiros.Buscar(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}
