package imovel

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/altilhabela/portal/internal/util"
)

type repository interface {
	Create(ctx context.Context, i Imovel) (*Imovel, error)
	GetByID(ctx context.Context, id string, somenteAtivo bool) (*Imovel, error)
	ListAprovados(ctx context.Context, f Filtro) ([]Imovel, error)
	ListDestaques(ctx context.Context, limit int) ([]Imovel, error)
	ListDoProprietario(ctx context.Context, proprietarioID string) ([]Imovel, error)
	ListAll(ctx context.Context) ([]Imovel, error)
	Update(ctx context.Context, id, proprietarioID string, p Patch) error
	SoftDelete(ctx context.Context, id, proprietarioID string) error
	SetDestaque(ctx context.Context, id string, destaque bool) error
	CountByStatus(ctx context.Context, status *StatusAprovacao) (int64, error)
	RegistrarVisualizacao(ctx context.Context, id string) error
	RegistrarClique(ctx context.Context, id string) error
}

// Service concentra as regras dos anúncios de imóveis. Aprovação e
// destaque ficam no motor de ciclo de vida e nas rotas administrativas.
type Service struct {
	repo   repository
	logger zerolog.Logger
}

// NewService cria o serviço de imóveis.
func NewService(repo repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Criar registra anúncio novo do membro: status pendente, ativo,
// contadores zerados.
func (s *Service) Criar(ctx context.Context, i Imovel) (*Imovel, error) {
	if err := validarImovel(i); err != nil {
		return nil, err
	}

	i.ID = util.NewID()
	created, err := s.repo.Create(ctx, i)
	if err != nil {
		return nil, fmt.Errorf("criar imóvel: %w", err)
	}

	s.logger.Info().
		Str("imovel_id", created.ID).
		Str("proprietario_id", created.ProprietarioID).
		Msg("imóvel cadastrado, aguardando revisão")

	return created, nil
}

// BuscarPublico busca anúncio ativo e registra a visualização. Falha
// no contador não derruba a leitura.
func (s *Service) BuscarPublico(ctx context.Context, id string) (*Imovel, error) {
	i, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RegistrarVisualizacao(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("imovel_id", id).Msg("falha ao contar visualização")
	}
	i.Visualizacoes++
	return i, nil
}

// BuscarAtivo busca anúncio ativo sem contar visualização. Serve as
// rotas auxiliares; só a página de detalhe move o contador.
func (s *Service) BuscarAtivo(ctx context.Context, id string) (*Imovel, error) {
	return s.repo.GetByID(ctx, id, true)
}

// Buscar busca anúncio sem restrição de atividade (dono ou admin).
func (s *Service) Buscar(ctx context.Context, id string) (*Imovel, error) {
	return s.repo.GetByID(ctx, id, false)
}

// ListarVitrine lista a vitrine pública com filtros.
func (s *Service) ListarVitrine(ctx context.Context, f Filtro) ([]Imovel, error) {
	return s.repo.ListAprovados(ctx, f)
}

// ListarDestaques lista anúncios em destaque para a página principal.
func (s *Service) ListarDestaques(ctx context.Context, limit int) ([]Imovel, error) {
	if limit <= 0 {
		limit = 6
	}
	return s.repo.ListDestaques(ctx, limit)
}

// ListarDoProprietario lista os anúncios do membro autenticado.
func (s *Service) ListarDoProprietario(ctx context.Context, proprietarioID string) ([]Imovel, error) {
	return s.repo.ListDoProprietario(ctx, proprietarioID)
}

// ListarTodos lista todos os anúncios (painel administrativo).
func (s *Service) ListarTodos(ctx context.Context) ([]Imovel, error) {
	return s.repo.ListAll(ctx)
}

// Atualizar aplica o patch do proprietário sobre o próprio anúncio.
func (s *Service) Atualizar(ctx context.Context, id, proprietarioID string, p Patch) error {
	if p.PrecoDiaria != nil && *p.PrecoDiaria <= 0 {
		return util.Invalid("preco_diaria deve ser positivo")
	}
	if p.Titulo != nil {
		if err := util.RequireString(*p.Titulo, "titulo"); err != nil {
			return err
		}
	}
	return s.repo.Update(ctx, id, proprietarioID, p)
}

// ContarPorStatus conta anúncios, opcionalmente por status de revisão.
func (s *Service) ContarPorStatus(ctx context.Context, status *StatusAprovacao) (int64, error) {
	return s.repo.CountByStatus(ctx, status)
}

// Destacar marca ou desmarca o anúncio na vitrine de destaques.
func (s *Service) Destacar(ctx context.Context, id string, destaque bool) error {
	return s.repo.SetDestaque(ctx, id, destaque)
}

// Remover desativa o anúncio do proprietário (remoção lógica).
func (s *Service) Remover(ctx context.Context, id, proprietarioID string) error {
	return s.repo.SoftDelete(ctx, id, proprietarioID)
}

// RegistrarClique conta clique em link externo. Id inexistente é
// tolerado: registra no log e segue, a navegação nunca falha por isso.
func (s *Service) RegistrarClique(ctx context.Context, id string) error {
	if err := s.repo.RegistrarClique(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn().Str("imovel_id", id).Msg("clique em imóvel inexistente ignorado")
			return nil
		}
		return err
	}
	return nil
}

func validarImovel(i Imovel) error {
	if err := util.RequireString(i.Titulo, "titulo"); err != nil {
		return err
	}
	if err := util.RequireString(i.Descricao, "descricao"); err != nil {
		return err
	}
	if err := util.RequireString(i.Tipo, "tipo"); err != nil {
		return err
	}
	if err := util.RequireString(i.Regiao, "regiao"); err != nil {
		return err
	}
	if err := util.RequireString(i.EnderecoCompleto, "endereco_completo"); err != nil {
		return err
	}
	if i.PrecoDiaria <= 0 {
		return util.Invalid("preco_diaria deve ser positivo")
	}
	if i.NumQuartos < 0 || i.NumBanheiros < 0 {
		return util.Invalid("quartos e banheiros não podem ser negativos")
	}
	if i.Capacidade < 1 {
		return util.Invalid("capacidade deve ser pelo menos 1")
	}
	return nil
}
