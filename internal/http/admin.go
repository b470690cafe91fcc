package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/altilhabela/portal/internal/candidatura"
	httpmiddleware "github.com/altilhabela/portal/internal/http/middleware"
	"github.com/altilhabela/portal/internal/imovel"
	"github.com/altilhabela/portal/internal/lifecycle"
	"github.com/altilhabela/portal/internal/notify"
	"github.com/altilhabela/portal/internal/parceiro"
	"github.com/altilhabela/portal/internal/usuario"
	"github.com/altilhabela/portal/internal/util"
)

// dashboard resume os números do portal para o painel administrativo.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	usuariosPorRole := map[string]int64{}
	for _, role := range []usuario.Role{usuario.RoleAdmin, usuario.RoleAssociado, usuario.RoleMembro, usuario.RoleParceiro} {
		n, err := h.usuarios.CountByRole(ctx, &role)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		usuariosPorRole[string(role)] = n
	}
	totalUsuarios, err := h.usuarios.CountByRole(ctx, nil)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	pendente := imovel.StatusPendente
	aprovado := imovel.StatusAprovado
	imoveisPendentes, err := h.imoveis.ContarPorStatus(ctx, &pendente)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	imoveisAprovados, err := h.imoveis.ContarPorStatus(ctx, &aprovado)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	totalImoveis, err := h.imoveis.ContarPorStatus(ctx, nil)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	parceirosAtivos, err := h.parceiros.ContarAtivos(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	candidaturasPendentes := map[string]int64{}
	for _, tipo := range []candidatura.Tipo{candidatura.TipoMembro, candidatura.TipoParceiro, candidatura.TipoAssociado} {
		n, err := h.candidaturas.CountPendentes(ctx, tipo)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		candidaturasPendentes[tipo.String()] = n
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"usuarios": map[string]any{
			"total":    totalUsuarios,
			"por_role": usuariosPorRole,
		},
		"imoveis": map[string]any{
			"total":     totalImoveis,
			"pendentes": imoveisPendentes,
			"aprovados": imoveisAprovados,
		},
		"parceiros_ativos":       parceirosAtivos,
		"candidaturas_pendentes": candidaturasPendentes,
	})
}

func (h *Handler) adminListUsuarios(w http.ResponseWriter, r *http.Request) {
	list, err := h.usuarios.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []usuario.Usuario{}
	}
	WriteJSON(w, http.StatusOK, list)
}

// adminCriarUsuario cria conta direto, sem passar por candidatura.
func (h *Handler) adminCriarUsuario(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Nome  string `json:"nome"`
		Email string `json:"email"`
		Senha string `json:"senha"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	role, err := usuario.ParseRole(body.Role)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	novo, err := h.authService.Registrar(r.Context(), body.Nome, body.Email, body.Senha, role)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, novo)
}

// adminAtualizarUsuario aplica o patch administrativo; mudança de ativo
// passa pelo motor de ciclo de vida e arrasta os dependentes.
func (h *Handler) adminAtualizarUsuario(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Ativo     *bool   `json:"ativo"`
		Nome      *string `json:"nome"`
		Telefone  *string `json:"telefone"`
		Descricao *string `json:"descricao"`
		FotoURL   *string `json:"foto_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	id := chi.URLParam(r, "id")
	patch := lifecycle.AtualizacaoUsuario{
		Ativo: body.Ativo,
		Perfil: usuario.PerfilPatch{
			Nome:      body.Nome,
			Telefone:  body.Telefone,
			Descricao: body.Descricao,
			FotoURL:   body.FotoURL,
		},
	}
	if err := h.engine.AtualizarUsuario(r.Context(), id, patch); err != nil {
		writeDomainError(w, err)
		return
	}

	u, err := h.usuarios.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) adminRemoverUsuario(w http.ResponseWriter, r *http.Request) {
	resumo, err := h.engine.RemoverUsuario(r.Context(), chi.URLParam(r, "id"), httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Usuário removido com sucesso",
		"resumo":  resumo,
	})
}

func (h *Handler) adminListImoveis(w http.ResponseWriter, r *http.Request) {
	list, err := h.imoveis.ListarTodos(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []imovel.Imovel{}
	}
	WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) aprovarImovel(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.AprovarImovel(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Imóvel aprovado"})
}

func (h *Handler) recusarImovel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Motivo *string `json:"motivo"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
			return
		}
	}

	if err := h.engine.RecusarImovel(r.Context(), chi.URLParam(r, "id"), body.Motivo); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Imóvel recusado"})
}

func (h *Handler) destaqueImovel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Destaque bool `json:"destaque"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if err := h.imoveis.Destacar(r.Context(), chi.URLParam(r, "id"), body.Destaque); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Destaque atualizado"})
}

func (h *Handler) adminListParceiros(w http.ResponseWriter, r *http.Request) {
	list, err := h.parceiros.ListarTodos(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []parceiro.PerfilParceiro{}
	}
	WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) destaqueParceiro(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Destaque bool `json:"destaque"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if err := h.parceiros.Destacar(r.Context(), chi.URLParam(r, "id"), body.Destaque); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Destaque atualizado"})
}

// emailMassa envia um aviso para todos os usuários ativos, com filtro
// opcional de papel. O envio é assíncrono; a resposta informa só
// quantos destinatários entraram na fila.
func (h *Handler) emailMassa(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Assunto  string `json:"assunto"`
		Mensagem string `json:"mensagem"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	if err := util.RequireString(body.Assunto, "assunto"); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := util.RequireString(body.Mensagem, "mensagem"); err != nil {
		writeValidationError(w, err)
		return
	}

	var role *usuario.Role
	if body.Role != "" {
		parsed, err := usuario.ParseRole(body.Role)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		role = &parsed
	}

	emails, err := h.usuarios.ListEmailsAtivos(r.Context(), role)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	for _, email := range emails {
		h.notifier.Dispatch(notify.Event{
			Tipo:         notify.EventoAviso,
			Para:         email,
			Assunto:      body.Assunto,
			PreCabecalho: body.Assunto,
			Corpo:        "<p>" + body.Mensagem + "</p>",
		})
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"message":       "Envio em massa iniciado",
		"destinatarios": len(emails),
	})
}
