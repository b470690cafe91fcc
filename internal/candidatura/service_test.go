package candidatura

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/altilhabela/portal/internal/usuario"
)

type stubRepo struct {
	created   []Candidatura
	pendentes map[string]bool
	createErr error
}

func (s *stubRepo) Create(_ context.Context, c Candidatura) (*Candidatura, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, c)
	return &c, nil
}

func (s *stubRepo) Get(context.Context, Tipo, string) (*Candidatura, error) {
	return nil, ErrNotFound
}

func (s *stubRepo) ListByStatus(context.Context, Tipo, *Status) ([]Candidatura, error) {
	return nil, nil
}

func (s *stubRepo) ExistsPendente(_ context.Context, tipo Tipo, email string) (bool, error) {
	return s.pendentes[tipo.String()+":"+email], nil
}

func (s *stubRepo) CountPendentes(context.Context, Tipo) (int64, error) {
	return int64(len(s.pendentes)), nil
}

type stubUsuarios struct {
	registrados map[string]bool
}

func (s *stubUsuarios) GetByEmail(_ context.Context, email string) (*usuario.Usuario, error) {
	if s.registrados[email] {
		return &usuario.Usuario{ID: "u1", Email: email}, nil
	}
	return nil, usuario.ErrNotFound
}

func newTestService(repo *stubRepo, usuarios *stubUsuarios) *Service {
	if repo.pendentes == nil {
		repo.pendentes = map[string]bool{}
	}
	if usuarios.registrados == nil {
		usuarios.registrados = map[string]bool{}
	}
	return NewService(repo, usuarios, zerolog.Nop())
}

func candidaturaMembro() Candidatura {
	endereco := "Rua das Flores, 10"
	numImoveis := 2
	return Candidatura{
		Tipo:       TipoMembro,
		Nome:       "Maria Souza",
		Email:      "maria@example.com",
		Telefone:   "12 99999-0000",
		Endereco:   &endereco,
		NumImoveis: &numImoveis,
	}
}

func TestSubmitCriaPendente(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(repo, &stubUsuarios{})

	created, err := svc.Submit(context.Background(), candidaturaMembro())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if created.Status != StatusPendente {
		t.Fatalf("status = %q, esperado pendente", created.Status)
	}
	if created.ID == "" {
		t.Fatal("id não gerado")
	}
	if created.MotivoRecusa != nil {
		t.Fatal("motivo_recusa deveria iniciar vazio")
	}
	if len(repo.created) != 1 {
		t.Fatalf("criadas = %d, esperado 1", len(repo.created))
	}
}

func TestSubmitRecusaPendenteDuplicada(t *testing.T) {
	repo := &stubRepo{pendentes: map[string]bool{"membro:maria@example.com": true}}
	svc := newTestService(repo, &stubUsuarios{})

	_, err := svc.Submit(context.Background(), candidaturaMembro())
	if !errors.Is(err, ErrCandidaturaPendente) {
		t.Fatalf("err = %v, esperado ErrCandidaturaPendente", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("não deveria criar candidatura")
	}
}

func TestSubmitMesmoEmailOutroTipoPermitido(t *testing.T) {
	repo := &stubRepo{pendentes: map[string]bool{"parceiro:maria@example.com": true}}
	svc := newTestService(repo, &stubUsuarios{})

	if _, err := svc.Submit(context.Background(), candidaturaMembro()); err != nil {
		t.Fatalf("pendente de outro tipo não deveria bloquear: %v", err)
	}
}

func TestSubmitRecusaEmailJaRegistrado(t *testing.T) {
	usuarios := &stubUsuarios{registrados: map[string]bool{"maria@example.com": true}}
	svc := newTestService(&stubRepo{}, usuarios)

	_, err := svc.Submit(context.Background(), candidaturaMembro())
	if !errors.Is(err, ErrEmailJaRegistrado) {
		t.Fatalf("err = %v, esperado ErrEmailJaRegistrado", err)
	}
}

func TestSubmitValidaCamposPorTipo(t *testing.T) {
	ocupacao := "Arquiteta"
	motivo := "Quero contribuir com o turismo local"
	nomeEmpresa := "Pousada Mar Azul"
	categoria := "hospedagem"

	tests := []struct {
		name  string
		mutar func(*Candidatura)
	}{
		{"sem nome", func(c *Candidatura) { c.Nome = "  " }},
		{"email inválido", func(c *Candidatura) { c.Email = "nao-e-email" }},
		{"sem telefone", func(c *Candidatura) { c.Telefone = "" }},
		{"membro sem endereço", func(c *Candidatura) { c.Endereco = nil }},
		{"membro sem imóveis", func(c *Candidatura) { zero := 0; c.NumImoveis = &zero }},
		{"parceiro sem empresa", func(c *Candidatura) {
			c.Tipo = TipoParceiro
			c.Categoria = &categoria
		}},
		{"associado sem motivo", func(c *Candidatura) {
			c.Tipo = TipoAssociado
			c.Ocupacao = &ocupacao
		}},
		{"tipo desconhecido", func(c *Candidatura) { c.Tipo = Tipo("visitante") }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(&stubRepo{}, &stubUsuarios{})
			c := candidaturaMembro()
			tc.mutar(&c)
			if _, err := svc.Submit(context.Background(), c); err == nil {
				t.Fatal("esperava erro de validação")
			}
		})
	}

	t.Run("parceiro completo passa", func(t *testing.T) {
		svc := newTestService(&stubRepo{}, &stubUsuarios{})
		c := candidaturaMembro()
		c.Tipo = TipoParceiro
		c.NomeEmpresa = &nomeEmpresa
		c.Categoria = &categoria
		if _, err := svc.Submit(context.Background(), c); err != nil {
			t.Fatalf("submit parceiro: %v", err)
		}
	})

	t.Run("associado completo passa", func(t *testing.T) {
		svc := newTestService(&stubRepo{}, &stubUsuarios{})
		c := candidaturaMembro()
		c.Tipo = TipoAssociado
		c.Ocupacao = &ocupacao
		c.MotivoInteresse = &motivo
		if _, err := svc.Submit(context.Background(), c); err != nil {
			t.Fatalf("submit associado: %v", err)
		}
	})
}

func TestParseTipo(t *testing.T) {
	if tipo, err := ParseTipo(" Membro "); err != nil || tipo != TipoMembro {
		t.Fatalf("ParseTipo(Membro) = %q, %v", tipo, err)
	}
	if _, err := ParseTipo("turista"); !errors.Is(err, ErrTipoInvalido) {
		t.Fatalf("err = %v, esperado ErrTipoInvalido", err)
	}
}
