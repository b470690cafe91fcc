package noticia

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/altilhabela/portal/internal/util"
)

type repository interface {
	Create(ctx context.Context, n Noticia) (*Noticia, error)
	GetByID(ctx context.Context, id string, somentePublicada bool) (*Noticia, error)
	ListPublicadas(ctx context.Context, categoria *string) ([]Noticia, error)
	ListAll(ctx context.Context) ([]Noticia, error)
	Update(ctx context.Context, id string, p Patch) error
	Delete(ctx context.Context, id string) error
}

// Service concentra as regras das notícias da associação.
type Service struct {
	repo   repository
	logger zerolog.Logger
}

// NewService cria o serviço de notícias.
func NewService(repo repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Criar registra notícia nova; autor vem do usuário autenticado.
func (s *Service) Criar(ctx context.Context, n Noticia) (*Noticia, error) {
	if err := util.RequireString(n.Titulo, "titulo"); err != nil {
		return nil, err
	}
	if err := util.RequireString(n.Conteudo, "conteudo"); err != nil {
		return nil, err
	}
	if err := util.RequireString(n.Categoria, "categoria"); err != nil {
		return nil, err
	}
	if err := util.RequireString(n.AutorID, "autor_id"); err != nil {
		return nil, err
	}

	n.ID = util.NewID()
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("noticia_id", created.ID).Msg("notícia criada")
	return created, nil
}

// BuscarPublica busca notícia publicada (site público).
func (s *Service) BuscarPublica(ctx context.Context, id string) (*Noticia, error) {
	return s.repo.GetByID(ctx, id, true)
}

// Buscar busca notícia sem restrição de publicação (admin).
func (s *Service) Buscar(ctx context.Context, id string) (*Noticia, error) {
	return s.repo.GetByID(ctx, id, false)
}

// ListarPublicadas lista notícias do site público.
func (s *Service) ListarPublicadas(ctx context.Context, categoria *string) ([]Noticia, error) {
	return s.repo.ListPublicadas(ctx, categoria)
}

// ListarTodas lista todas as notícias, rascunhos inclusos.
func (s *Service) ListarTodas(ctx context.Context) ([]Noticia, error) {
	return s.repo.ListAll(ctx)
}

// Atualizar aplica o patch administrativo.
func (s *Service) Atualizar(ctx context.Context, id string, p Patch) error {
	if p.Titulo != nil {
		if err := util.RequireString(*p.Titulo, "titulo"); err != nil {
			return err
		}
	}
	return s.repo.Update(ctx, id, p)
}

// Remover apaga a notícia.
func (s *Service) Remover(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
