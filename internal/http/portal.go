package http

import (
	"net/http"

	"github.com/altilhabela/portal/internal/imovel"
	"github.com/altilhabela/portal/internal/noticia"
	"github.com/altilhabela/portal/internal/parceiro"
	"github.com/altilhabela/portal/internal/usuario"
)

// paginaPrincipal agrega o conteúdo da home do portal numa chamada só:
// imóveis em destaque, parceiros ativos, últimas notícias e os números
// gerais da associação.
func (h *Handler) paginaPrincipal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	destaques, err := h.imoveis.ListarDestaques(ctx, 6)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if destaques == nil {
		destaques = []imovel.Imovel{}
	}

	parceiros, err := h.parceiros.ListarVitrine(ctx, nil)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if parceiros == nil {
		parceiros = []parceiro.PerfilParceiro{}
	}

	noticias, err := h.noticias.ListarPublicadas(ctx, nil)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if noticias == nil {
		noticias = []noticia.Noticia{}
	}

	aprovado := imovel.StatusAprovado
	totalImoveis, err := h.imoveis.ContarPorStatus(ctx, &aprovado)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	totalParceiros, err := h.parceiros.ContarAtivos(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	membro := usuario.RoleMembro
	totalMembros, err := h.usuarios.CountByRole(ctx, &membro)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"imoveis_destaque": destaques,
		"parceiros":        parceiros,
		"noticias":         noticias,
		"estatisticas": map[string]int64{
			"total_imoveis":   totalImoveis,
			"total_parceiros": totalParceiros,
			"total_membros":   totalMembros,
		},
	})
}
