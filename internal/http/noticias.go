package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	httpmiddleware "github.com/altilhabela/portal/internal/http/middleware"
	"github.com/altilhabela/portal/internal/noticia"
)

func (h *Handler) listNoticias(w http.ResponseWriter, r *http.Request) {
	var categoria *string
	if v := r.URL.Query().Get("categoria"); v != "" {
		categoria = &v
	}

	list, err := h.noticias.ListarPublicadas(r.Context(), categoria)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []noticia.Noticia{}
	}
	WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) getNoticia(w http.ResponseWriter, r *http.Request) {
	n, err := h.noticias.BuscarPublica(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, n)
}

func (h *Handler) adminListNoticias(w http.ResponseWriter, r *http.Request) {
	list, err := h.noticias.ListarTodas(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []noticia.Noticia{}
	}
	WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) criarNoticia(w http.ResponseWriter, r *http.Request) {
	var body noticia.Noticia
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	autor, err := h.usuarios.GetByID(r.Context(), httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	body.AutorID = autor.ID
	body.AutorNome = autor.Nome

	created, err := h.noticias.Criar(r.Context(), body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) atualizarNoticia(w http.ResponseWriter, r *http.Request) {
	var patch noticia.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.noticias.Atualizar(r.Context(), id, patch); err != nil {
		writeDomainError(w, err)
		return
	}

	n, err := h.noticias.Buscar(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, n)
}

func (h *Handler) removerNoticia(w http.ResponseWriter, r *http.Request) {
	if err := h.noticias.Remover(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Notícia removida"})
}
