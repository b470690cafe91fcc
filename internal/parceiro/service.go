package parceiro

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/altilhabela/portal/internal/util"
)

type repository interface {
	Create(ctx context.Context, p PerfilParceiro) (*PerfilParceiro, error)
	GetByID(ctx context.Context, id string) (*PerfilParceiro, error)
	GetByUser(ctx context.Context, userID string) (*PerfilParceiro, error)
	ListAtivos(ctx context.Context, categoria *string) ([]PerfilParceiro, error)
	ListAll(ctx context.Context) ([]PerfilParceiro, error)
	Update(ctx context.Context, id, userID string, p Patch) error
	SetDestaque(ctx context.Context, id string, destaque bool) error
	CountAtivos(ctx context.Context) (int64, error)
}

// Service concentra as regras dos perfis de parceiros.
type Service struct {
	repo   repository
	logger zerolog.Logger
}

// NewService cria o serviço de parceiros.
func NewService(repo repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Criar registra o perfil do parceiro autenticado. Cada usuário tem
// no máximo um perfil.
func (s *Service) Criar(ctx context.Context, p PerfilParceiro) (*PerfilParceiro, error) {
	if err := validarPerfil(p); err != nil {
		return nil, err
	}

	p.ID = util.NewID()
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("perfil_id", created.ID).
		Str("user_id", created.UserID).
		Msg("perfil de parceiro criado")

	return created, nil
}

// Buscar busca perfil pelo identificador.
func (s *Service) Buscar(ctx context.Context, id string) (*PerfilParceiro, error) {
	return s.repo.GetByID(ctx, id)
}

// BuscarDoUsuario busca o perfil do usuário autenticado.
func (s *Service) BuscarDoUsuario(ctx context.Context, userID string) (*PerfilParceiro, error) {
	return s.repo.GetByUser(ctx, userID)
}

// ListarVitrine lista perfis ativos, com filtro opcional de categoria.
func (s *Service) ListarVitrine(ctx context.Context, categoria *string) ([]PerfilParceiro, error) {
	return s.repo.ListAtivos(ctx, categoria)
}

// ListarTodos lista todos os perfis (painel administrativo).
func (s *Service) ListarTodos(ctx context.Context) ([]PerfilParceiro, error) {
	return s.repo.ListAll(ctx)
}

// Atualizar aplica o patch do parceiro sobre o próprio perfil.
func (s *Service) Atualizar(ctx context.Context, id, userID string, p Patch) error {
	if p.NomeEmpresa != nil {
		if err := util.RequireString(*p.NomeEmpresa, "nome_empresa"); err != nil {
			return err
		}
	}
	return s.repo.Update(ctx, id, userID, p)
}

// ContarAtivos conta perfis ativos na vitrine.
func (s *Service) ContarAtivos(ctx context.Context) (int64, error) {
	return s.repo.CountAtivos(ctx)
}

// Destacar marca ou desmarca o perfil na vitrine de destaques.
func (s *Service) Destacar(ctx context.Context, id string, destaque bool) error {
	return s.repo.SetDestaque(ctx, id, destaque)
}

func validarPerfil(p PerfilParceiro) error {
	if err := util.RequireString(p.UserID, "user_id"); err != nil {
		return err
	}
	if err := util.RequireString(p.NomeEmpresa, "nome_empresa"); err != nil {
		return err
	}
	if err := util.RequireString(p.Categoria, "categoria"); err != nil {
		return err
	}
	if err := util.RequireString(p.Telefone, "telefone"); err != nil {
		return err
	}
	if err := util.RequireString(p.Descricao, "descricao"); err != nil {
		return err
	}
	return nil
}
