package parceiro

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type stubRepo struct {
	porUsuario map[string]*PerfilParceiro
}

func newStubRepo() *stubRepo {
	return &stubRepo{porUsuario: map[string]*PerfilParceiro{}}
}

func (s *stubRepo) Create(_ context.Context, p PerfilParceiro) (*PerfilParceiro, error) {
	if _, ok := s.porUsuario[p.UserID]; ok {
		return nil, ErrPerfilJaExiste
	}
	p.Ativo = true
	s.porUsuario[p.UserID] = &p
	return &p, nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*PerfilParceiro, error) {
	for _, p := range s.porUsuario {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubRepo) GetByUser(_ context.Context, userID string) (*PerfilParceiro, error) {
	p, ok := s.porUsuario[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *stubRepo) ListAtivos(context.Context, *string) ([]PerfilParceiro, error) { return nil, nil }

func (s *stubRepo) ListAll(context.Context) ([]PerfilParceiro, error) { return nil, nil }

func (s *stubRepo) Update(_ context.Context, id, userID string, _ Patch) error {
	p, ok := s.porUsuario[userID]
	if !ok || p.ID != id {
		return ErrNotFound
	}
	return nil
}

func (s *stubRepo) SetDestaque(context.Context, string, bool) error { return nil }

func (s *stubRepo) CountAtivos(context.Context) (int64, error) { return 0, nil }

func perfilValido() PerfilParceiro {
	return PerfilParceiro{
		UserID:      "parceiro-1",
		NomeEmpresa: "Restaurante Ponta das Canas",
		Descricao:   "Frutos do mar à beira da praia",
		Categoria:   "gastronomia",
		Telefone:    "12 98888-0000",
	}
}

func TestCriarPerfilUnicoPorUsuario(t *testing.T) {
	svc := NewService(newStubRepo(), zerolog.Nop())

	created, err := svc.Criar(context.Background(), perfilValido())
	if err != nil {
		t.Fatalf("criar: %v", err)
	}
	if created.ID == "" {
		t.Fatal("id não gerado")
	}
	if !created.Ativo {
		t.Fatal("perfil novo deveria nascer ativo")
	}

	_, err = svc.Criar(context.Background(), perfilValido())
	if !errors.Is(err, ErrPerfilJaExiste) {
		t.Fatalf("err = %v, esperado ErrPerfilJaExiste", err)
	}
}

func TestCriarValidaCampos(t *testing.T) {
	tests := []struct {
		name  string
		mutar func(*PerfilParceiro)
	}{
		{"sem empresa", func(p *PerfilParceiro) { p.NomeEmpresa = " " }},
		{"sem categoria", func(p *PerfilParceiro) { p.Categoria = "" }},
		{"sem telefone", func(p *PerfilParceiro) { p.Telefone = "" }},
		{"sem descricao", func(p *PerfilParceiro) { p.Descricao = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(newStubRepo(), zerolog.Nop())
			p := perfilValido()
			tc.mutar(&p)
			if _, err := svc.Criar(context.Background(), p); err == nil {
				t.Fatal("esperava erro de validação")
			}
		})
	}
}

func TestAtualizarExigeDono(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, zerolog.Nop())

	created, err := svc.Criar(context.Background(), perfilValido())
	if err != nil {
		t.Fatalf("criar: %v", err)
	}

	nome := "Novo nome"
	err = svc.Atualizar(context.Background(), created.ID, "outro-usuario", Patch{NomeEmpresa: &nome})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, esperado ErrNotFound para não dono", err)
	}

	if err := svc.Atualizar(context.Background(), created.ID, "parceiro-1", Patch{NomeEmpresa: &nome}); err != nil {
		t.Fatalf("atualizar pelo dono: %v", err)
	}
}
