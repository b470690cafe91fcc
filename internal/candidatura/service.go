package candidatura

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/altilhabela/portal/internal/usuario"
	"github.com/altilhabela/portal/internal/util"
)

type repository interface {
	Create(ctx context.Context, c Candidatura) (*Candidatura, error)
	Get(ctx context.Context, tipo Tipo, id string) (*Candidatura, error)
	ListByStatus(ctx context.Context, tipo Tipo, status *Status) ([]Candidatura, error)
	ExistsPendente(ctx context.Context, tipo Tipo, email string) (bool, error)
	CountPendentes(ctx context.Context, tipo Tipo) (int64, error)
}

type usuarioDirectory interface {
	GetByEmail(ctx context.Context, email string) (*usuario.Usuario, error)
}

// Service concentra as regras de entrada de candidaturas. As
// transições de status ficam fora daqui, no motor de ciclo de vida.
type Service struct {
	repo     repository
	usuarios usuarioDirectory
	logger   zerolog.Logger
}

// NewService cria o serviço de candidaturas.
func NewService(repo repository, usuarios usuarioDirectory, logger zerolog.Logger) *Service {
	return &Service{repo: repo, usuarios: usuarios, logger: logger}
}

// Submit registra candidatura nova em status pendente. Recusa quando
// já há pendente do mesmo tipo para o e-mail ou quando o e-mail já
// pertence a uma conta do portal.
func (s *Service) Submit(ctx context.Context, c Candidatura) (*Candidatura, error) {
	if err := validar(c); err != nil {
		return nil, err
	}

	pendente, err := s.repo.ExistsPendente(ctx, c.Tipo, c.Email)
	if err != nil {
		return nil, fmt.Errorf("verificar candidatura pendente: %w", err)
	}
	if pendente {
		return nil, ErrCandidaturaPendente
	}

	if _, err := s.usuarios.GetByEmail(ctx, c.Email); err == nil {
		return nil, ErrEmailJaRegistrado
	} else if !errors.Is(err, usuario.ErrNotFound) {
		return nil, fmt.Errorf("verificar email registrado: %w", err)
	}

	c.ID = util.NewID()
	c.Status = StatusPendente
	c.MotivoRecusa = nil

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("criar candidatura: %w", err)
	}

	s.logger.Info().
		Str("candidatura_id", created.ID).
		Str("tipo", created.Tipo.String()).
		Msg("candidatura recebida")

	return created, nil
}

// Get busca candidatura por tipo e id.
func (s *Service) Get(ctx context.Context, tipo Tipo, id string) (*Candidatura, error) {
	return s.repo.Get(ctx, tipo, id)
}

// ListPendentes lista candidaturas pendentes de um tipo, mais
// recentes primeiro.
func (s *Service) ListPendentes(ctx context.Context, tipo Tipo) ([]Candidatura, error) {
	status := StatusPendente
	return s.repo.ListByStatus(ctx, tipo, &status)
}

// List lista candidaturas de um tipo, com filtro opcional de status.
func (s *Service) List(ctx context.Context, tipo Tipo, status *Status) ([]Candidatura, error) {
	return s.repo.ListByStatus(ctx, tipo, status)
}

// CountPendentes conta pendentes de um tipo (painel administrativo).
func (s *Service) CountPendentes(ctx context.Context, tipo Tipo) (int64, error) {
	return s.repo.CountPendentes(ctx, tipo)
}

func validar(c Candidatura) error {
	if err := util.RequireString(c.Nome, "nome"); err != nil {
		return err
	}
	if err := util.ValidateEmail(c.Email); err != nil {
		return err
	}
	if err := util.RequireString(c.Telefone, "telefone"); err != nil {
		return err
	}

	switch c.Tipo {
	case TipoMembro:
		if err := requirePtr(c.Endereco, "endereco"); err != nil {
			return err
		}
		if c.NumImoveis == nil || *c.NumImoveis < 1 {
			return util.Invalid("num_imoveis deve ser pelo menos 1")
		}
	case TipoParceiro:
		if err := requirePtr(c.NomeEmpresa, "nome_empresa"); err != nil {
			return err
		}
		if err := requirePtr(c.Categoria, "categoria"); err != nil {
			return err
		}
	case TipoAssociado:
		if err := requirePtr(c.Ocupacao, "ocupacao"); err != nil {
			return err
		}
		if err := requirePtr(c.MotivoInteresse, "motivo_interesse"); err != nil {
			return err
		}
	default:
		return ErrTipoInvalido
	}
	return nil
}

func requirePtr(value *string, field string) error {
	if value == nil {
		return util.Invalid(field + " obrigatório")
	}
	return util.RequireString(*value, field)
}
