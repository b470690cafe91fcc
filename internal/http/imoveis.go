package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	httpmiddleware "github.com/altilhabela/portal/internal/http/middleware"
	"github.com/altilhabela/portal/internal/imovel"
)

func (h *Handler) listImoveis(w http.ResponseWriter, r *http.Request) {
	filtro, err := parseFiltroImoveis(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	list, err := h.imoveis.ListarVitrine(r.Context(), filtro)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []imovel.Imovel{}
	}
	WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) getImovel(w http.ResponseWriter, r *http.Request) {
	i, err := h.imoveis.BuscarPublico(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, i)
}

func (h *Handler) registrarClique(w http.ResponseWriter, r *http.Request) {
	if err := h.imoveis.RegistrarClique(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Clique registrado"})
}

// getProprietario expõe o contato do anunciante sem mover o contador
// de visualizações; só a página de detalhe conta.
func (h *Handler) getProprietario(w http.ResponseWriter, r *http.Request) {
	i, err := h.imoveis.BuscarAtivo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dono, err := h.usuarios.GetByID(r.Context(), i.ProprietarioID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"id":   dono.ID,
		"nome": dono.Nome,
		"role": dono.Role,
	})
}

func (h *Handler) criarImovel(w http.ResponseWriter, r *http.Request) {
	var body imovel.Imovel
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	body.ProprietarioID = httpmiddleware.GetSubject(r.Context())

	created, err := h.imoveis.Criar(r.Context(), body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) meusImoveis(w http.ResponseWriter, r *http.Request) {
	list, err := h.imoveis.ListarDoProprietario(r.Context(), httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []imovel.Imovel{}
	}
	WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) atualizarImovel(w http.ResponseWriter, r *http.Request) {
	var patch imovel.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.imoveis.Atualizar(r.Context(), id, httpmiddleware.GetSubject(r.Context()), patch); err != nil {
		writeDomainError(w, err)
		return
	}

	i, err := h.imoveis.Buscar(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, i)
}

func (h *Handler) removerImovel(w http.ResponseWriter, r *http.Request) {
	err := h.imoveis.Remover(r.Context(), chi.URLParam(r, "id"), httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Imóvel removido com sucesso"})
}

func parseFiltroImoveis(r *http.Request) (imovel.Filtro, error) {
	q := r.URL.Query()
	var f imovel.Filtro

	if v := q.Get("tipo"); v != "" {
		f.Tipo = &v
	}
	if v := q.Get("regiao"); v != "" {
		f.Regiao = &v
	}
	if v := q.Get("preco_max"); v != "" {
		preco, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, errInvalidQuery("preco_max")
		}
		f.PrecoMax = &preco
	}
	if v := q.Get("num_quartos"); v != "" {
		quartos, err := strconv.Atoi(v)
		if err != nil {
			return f, errInvalidQuery("num_quartos")
		}
		f.NumQuartos = &quartos
	}
	if v := q.Get("possui_piscina"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, errInvalidQuery("possui_piscina")
		}
		f.PossuiPiscina = &b
	}
	if v := q.Get("aceita_pets"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, errInvalidQuery("aceita_pets")
		}
		f.AceitaPets = &b
	}
	return f, nil
}
