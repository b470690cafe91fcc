package lifecycle

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/altilhabela/portal/internal/candidatura"
	"github.com/altilhabela/portal/internal/db"
	"github.com/altilhabela/portal/internal/imovel"
	"github.com/altilhabela/portal/internal/parceiro"
	"github.com/altilhabela/portal/internal/usuario"
)

// PgStore implementa Store sobre Postgres. Os combos de cascata e
// aprovação rodam numa transação só; o índice único de e-mail faz o
// desempate das aprovações concorrentes.
type PgStore struct {
	pool         *pgxpool.Pool
	usuarios     *usuario.Repository
	candidaturas *candidatura.Repository
	imoveis      *imovel.Repository
	perfis       *parceiro.Repository
}

// NewPgStore cria o store transacional do motor.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{
		pool:         pool,
		usuarios:     usuario.NewRepository(pool),
		candidaturas: candidatura.NewRepository(pool),
		imoveis:      imovel.NewRepository(pool),
		perfis:       parceiro.NewRepository(pool),
	}
}

func (s *PgStore) GetCandidatura(ctx context.Context, tipo candidatura.Tipo, id string) (*candidatura.Candidatura, error) {
	return s.candidaturas.Get(ctx, tipo, id)
}

func (s *PgStore) AprovarCandidatura(ctx context.Context, tipo candidatura.Tipo, id, novoUserID, senhaHash string) (*candidatura.Candidatura, *usuario.Usuario, error) {
	var (
		cand *candidatura.Candidatura
		novo *usuario.Usuario
	)

	err := db.WithTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		candidaturas := s.candidaturas.WithTx(tx)
		usuarios := s.usuarios.WithTx(tx)

		c, err := candidaturas.Get(ctx, tipo, id)
		if err != nil {
			return err
		}

		ok, err := candidaturas.UpdateStatusSePendente(ctx, tipo, id, candidatura.StatusAprovado, nil)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTransicaoInvalida
		}

		telefone := c.Telefone
		u, err := usuarios.Create(ctx, usuario.Usuario{
			ID:       novoUserID,
			Email:    c.Email,
			Nome:     c.Nome,
			Telefone: &telefone,
			Role:     usuario.Role(tipo.String()),
			Ativo:    true,
		}, senhaHash)
		if err != nil {
			return err
		}

		cand = c
		novo = u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return cand, novo, nil
}

func (s *PgStore) RecusarCandidatura(ctx context.Context, tipo candidatura.Tipo, id string, motivo *string) (*candidatura.Candidatura, error) {
	var cand *candidatura.Candidatura

	err := db.WithTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		candidaturas := s.candidaturas.WithTx(tx)

		c, err := candidaturas.Get(ctx, tipo, id)
		if err != nil {
			return err
		}

		ok, err := candidaturas.UpdateStatusSePendente(ctx, tipo, id, candidatura.StatusRecusado, motivo)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTransicaoInvalida
		}

		cand = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cand, nil
}

func (s *PgStore) GetUsuario(ctx context.Context, id string) (*usuario.Usuario, error) {
	return s.usuarios.GetByID(ctx, id)
}

func (s *PgStore) AtualizarPerfilUsuario(ctx context.Context, id string, patch usuario.PerfilPatch) error {
	return s.usuarios.UpdatePerfil(ctx, id, patch)
}

func (s *PgStore) DesativarUsuario(ctx context.Context, id string) (*CascataResumo, error) {
	return s.cascata(ctx, id, false)
}

func (s *PgStore) ReativarUsuario(ctx context.Context, id string) error {
	return s.usuarios.SetAtivo(ctx, id, true)
}

func (s *PgStore) RemoverUsuario(ctx context.Context, id string) (*CascataResumo, error) {
	return s.cascata(ctx, id, true)
}

// cascata desativa os dependentes do usuário e, conforme remover,
// apaga ou só desliga a conta. Tudo na mesma transação.
func (s *PgStore) cascata(ctx context.Context, id string, remover bool) (*CascataResumo, error) {
	var resumo *CascataResumo

	err := db.WithTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		usuarios := s.usuarios.WithTx(tx)
		imoveis := s.imoveis.WithTx(tx)
		perfis := s.perfis.WithTx(tx)

		u, err := usuarios.GetByID(ctx, id)
		if err != nil {
			return err
		}

		r := CascataResumo{UsuarioID: u.ID, Nome: u.Nome, Role: u.Role.String()}

		switch u.Role {
		case usuario.RoleMembro:
			n, err := imoveis.DesativarDoProprietario(ctx, id)
			if err != nil {
				return err
			}
			r.ImoveisDesativados = n
		case usuario.RoleParceiro:
			n, err := perfis.DesativarDoUsuario(ctx, id)
			if err != nil {
				return err
			}
			r.PerfisDesativados = n
		}

		if remover {
			err = usuarios.Delete(ctx, id)
		} else {
			err = usuarios.SetAtivo(ctx, id, false)
		}
		if err != nil {
			return err
		}

		resumo = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resumo, nil
}

func (s *PgStore) GetImovel(ctx context.Context, id string) (*imovel.Imovel, error) {
	return s.imoveis.GetByID(ctx, id, false)
}

func (s *PgStore) SetStatusImovel(ctx context.Context, id string, status imovel.StatusAprovacao, motivo *string) error {
	return s.imoveis.SetStatusAprovacao(ctx, id, status, motivo)
}
