// Package http expõe a API REST do portal da associação.
package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/altilhabela/portal/internal/auth"
	"github.com/altilhabela/portal/internal/candidatura"
	"github.com/altilhabela/portal/internal/config"
	httpmiddleware "github.com/altilhabela/portal/internal/http/middleware"
	"github.com/altilhabela/portal/internal/imovel"
	"github.com/altilhabela/portal/internal/lifecycle"
	"github.com/altilhabela/portal/internal/noticia"
	"github.com/altilhabela/portal/internal/notify"
	"github.com/altilhabela/portal/internal/parceiro"
	"github.com/altilhabela/portal/internal/service"
	"github.com/altilhabela/portal/internal/storage"
	"github.com/altilhabela/portal/internal/usuario"
)

// userDirectory é o recorte do repositório de usuários que as rotas
// consomem; o resto das escritas passa pelo motor de ciclo de vida.
type userDirectory interface {
	GetByID(ctx context.Context, id string) (*usuario.Usuario, error)
	List(ctx context.Context) ([]usuario.Usuario, error)
	ListEmailsAtivos(ctx context.Context, role *usuario.Role) ([]string, error)
	CountByRole(ctx context.Context, role *usuario.Role) (int64, error)
	UpdatePerfil(ctx context.Context, id string, patch usuario.PerfilPatch) error
}

// Handler agrupa as dependências das rotas.
type Handler struct {
	cfg          *config.Config
	authService  *service.AuthService
	usuarios     userDirectory
	candidaturas *candidatura.Service
	imoveis      *imovel.Service
	parceiros    *parceiro.Service
	noticias     *noticia.Service
	engine       *lifecycle.Service
	notifier     *notify.Dispatcher
	storage      storage.ObjectStore

	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
}

// Deps são as dependências injetadas pelo main.
type Deps struct {
	Cfg          *config.Config
	AuthService  *service.AuthService
	Usuarios     userDirectory
	Candidaturas *candidatura.Service
	Imoveis      *imovel.Service
	Parceiros    *parceiro.Service
	Noticias     *noticia.Service
	Engine       *lifecycle.Service
	Notifier     *notify.Dispatcher
	Storage      storage.ObjectStore
	JWT          *auth.JWTManager

	// Ready verifica as dependências externas (banco, redis); nil
	// significa sempre pronto.
	Ready func(ctx context.Context) error
}

// NewRouter monta o roteador com todas as rotas do portal.
func NewRouter(d Deps) http.Handler {
	h := &Handler{
		cfg:           d.Cfg,
		authService:   d.AuthService,
		usuarios:      d.Usuarios,
		candidaturas:  d.Candidaturas,
		imoveis:       d.Imoveis,
		parceiros:     d.Parceiros,
		noticias:      d.Noticias,
		engine:        d.Engine,
		notifier:      d.Notifier,
		storage:       d.Storage,
		publicLimiter: httpmiddleware.NewRateLimiter(d.Cfg.RateLimitPublic.RequestsPerSecond, d.Cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(d.Cfg.RateLimitAuth.RequestsPerSecond, d.Cfg.RateLimitAuth.Burst),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.CORS(d.Cfg.AllowOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(r.Context()); err != nil {
				WriteError(w, http.StatusServiceUnavailable, "NOT_READY", err.Error(), nil)
				return
			}
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	// rotas públicas, limitadas por IP
	r.Group(func(r chi.Router) {
		r.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		r.Post("/auth/login", h.login)
		r.Post("/auth/refresh", h.refresh)
		r.Post("/auth/logout", h.logout)
		r.Post("/auth/recuperar-senha", h.recuperarSenha)

		r.Post("/candidaturas/{tipo}", h.submitCandidatura)

		r.Get("/imoveis", h.listImoveis)
		r.Get("/imoveis/{id}", h.getImovel)
		r.Post("/imoveis/{id}/clique", h.registrarClique)

		r.Get("/parceiros", h.listParceiros)
		r.Get("/parceiros/{id}", h.getParceiro)

		r.Get("/noticias", h.listNoticias)
		r.Get("/noticias/{id}", h.getNoticia)

		r.Get("/pagina-principal", h.paginaPrincipal)
		r.Get("/usuarios/{id}/perfil-publico", h.perfilPublico)
	})

	// rotas autenticadas, limitadas por usuário
	r.Group(func(r chi.Router) {
		r.Use(httpmiddleware.Auth(d.JWT))
		r.Use(httpmiddleware.UserRateLimit(h.authLimiter))

		r.Get("/auth/me", h.me)
		r.Put("/auth/alterar-senha", h.alterarSenha)
		r.Put("/usuarios/{id}/perfil", h.atualizarPerfil)
		r.Get("/imoveis/{id}/proprietario", h.getProprietario)
		r.Post("/uploads", h.upload)
		r.Delete("/uploads", h.removerUpload)

		// área do membro locador
		r.Group(func(r chi.Router) {
			r.Use(httpmiddleware.RequireMembro)

			r.Post("/imoveis", h.criarImovel)
			r.Get("/meus-imoveis", h.meusImoveis)
			r.Put("/imoveis/{id}", h.atualizarImovel)
			r.Delete("/imoveis/{id}", h.removerImovel)
		})

		// área do parceiro comercial
		r.Group(func(r chi.Router) {
			r.Use(httpmiddleware.RequireParceiro)

			r.Post("/parceiros/perfil", h.criarPerfilParceiro)
			r.Get("/parceiros/meu-perfil", h.meuPerfilParceiro)
			r.Put("/parceiros/perfil/{id}", h.atualizarPerfilParceiro)
		})

		// painel administrativo
		r.Route("/admin", func(r chi.Router) {
			r.Use(httpmiddleware.RequireAdmin)

			r.Get("/dashboard", h.dashboard)

			r.Get("/usuarios", h.adminListUsuarios)
			r.Post("/usuarios", h.adminCriarUsuario)
			r.Put("/usuarios/{id}", h.adminAtualizarUsuario)
			r.Delete("/usuarios/{id}", h.adminRemoverUsuario)

			r.Get("/candidaturas/{tipo}", h.adminListCandidaturas)
			r.Put("/candidaturas/{tipo}/{id}/aprovar", h.aprovarCandidatura)
			r.Put("/candidaturas/{tipo}/{id}/recusar", h.recusarCandidatura)

			r.Get("/imoveis", h.adminListImoveis)
			r.Put("/imoveis/{id}/aprovar", h.aprovarImovel)
			r.Put("/imoveis/{id}/recusar", h.recusarImovel)
			r.Put("/imoveis/{id}/destaque", h.destaqueImovel)

			r.Get("/parceiros", h.adminListParceiros)
			r.Put("/parceiros/{id}/destaque", h.destaqueParceiro)

			r.Get("/noticias", h.adminListNoticias)
			r.Post("/noticias", h.criarNoticia)
			r.Put("/noticias/{id}", h.atualizarNoticia)
			r.Delete("/noticias/{id}", h.removerNoticia)

			r.Post("/email-massa", h.emailMassa)
		})
	})

	return r
}
