package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/altilhabela/portal/internal/candidatura"
)

func (h *Handler) submitCandidatura(w http.ResponseWriter, r *http.Request) {
	tipo, err := candidatura.ParseTipo(chi.URLParam(r, "tipo"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var body candidatura.Candidatura
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	body.Tipo = tipo

	created, err := h.candidaturas.Submit(r.Context(), body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) adminListCandidaturas(w http.ResponseWriter, r *http.Request) {
	tipo, err := candidatura.ParseTipo(chi.URLParam(r, "tipo"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var status *candidatura.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := candidatura.Status(raw)
		status = &s
	}

	list, err := h.candidaturas.List(r.Context(), tipo, status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []candidatura.Candidatura{}
	}
	WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) aprovarCandidatura(w http.ResponseWriter, r *http.Request) {
	tipo, err := candidatura.ParseTipo(chi.URLParam(r, "tipo"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	novo, err := h.engine.AprovarCandidatura(r.Context(), tipo, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Candidatura aprovada",
		"usuario": novo,
	})
}

func (h *Handler) recusarCandidatura(w http.ResponseWriter, r *http.Request) {
	tipo, err := candidatura.ParseTipo(chi.URLParam(r, "tipo"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var body struct {
		Motivo *string `json:"motivo"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
			return
		}
	}

	if err := h.engine.RecusarCandidatura(r.Context(), tipo, chi.URLParam(r, "id"), body.Motivo); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Candidatura recusada"})
}
