package noticia

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/altilhabela/portal/internal/util"
)

type stubRepo struct {
	noticias map[string]*Noticia
}

func newStubRepo() *stubRepo {
	return &stubRepo{noticias: map[string]*Noticia{}}
}

func (s *stubRepo) Create(_ context.Context, n Noticia) (*Noticia, error) {
	s.noticias[n.ID] = &n
	copia := n
	return &copia, nil
}

func (s *stubRepo) GetByID(_ context.Context, id string, somentePublicada bool) (*Noticia, error) {
	n, ok := s.noticias[id]
	if !ok || (somentePublicada && !n.Publicada) {
		return nil, ErrNotFound
	}
	copia := *n
	return &copia, nil
}

func (s *stubRepo) ListPublicadas(context.Context, *string) ([]Noticia, error) { return nil, nil }

func (s *stubRepo) ListAll(context.Context) ([]Noticia, error) { return nil, nil }

func (s *stubRepo) Update(_ context.Context, id string, _ Patch) error {
	if _, ok := s.noticias[id]; !ok {
		return ErrNotFound
	}
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.noticias[id]; !ok {
		return ErrNotFound
	}
	delete(s.noticias, id)
	return nil
}

func TestCriarGeraID(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, zerolog.Nop())

	created, err := svc.Criar(context.Background(), Noticia{
		Titulo:    "Temporada 2026",
		Conteudo:  "A temporada começa em dezembro.",
		Categoria: "eventos",
		AutorID:   "admin-1",
	})
	if err != nil {
		t.Fatalf("Criar: %v", err)
	}
	if created.ID == "" {
		t.Fatal("esperado id atribuído")
	}
	if _, ok := repo.noticias[created.ID]; !ok {
		t.Fatal("notícia não persistida")
	}
}

func TestCriarValidacao(t *testing.T) {
	svc := NewService(newStubRepo(), zerolog.Nop())

	tests := []struct {
		name string
		n    Noticia
	}{
		{"sem titulo", Noticia{Conteudo: "c", Categoria: "geral", AutorID: "a"}},
		{"sem conteudo", Noticia{Titulo: "t", Categoria: "geral", AutorID: "a"}},
		{"sem categoria", Noticia{Titulo: "t", Conteudo: "c", AutorID: "a"}},
		{"sem autor", Noticia{Titulo: "t", Conteudo: "c", Categoria: "geral"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Criar(context.Background(), tc.n)
			if !util.IsValidation(err) {
				t.Fatalf("esperado erro de validação, recebido %v", err)
			}
		})
	}
}

func TestBuscarPublicaSoVePublicadas(t *testing.T) {
	repo := newStubRepo()
	repo.noticias["rascunho"] = &Noticia{ID: "rascunho", Titulo: "Rascunho", Publicada: false}
	repo.noticias["no-ar"] = &Noticia{ID: "no-ar", Titulo: "No ar", Publicada: true}

	svc := NewService(repo, zerolog.Nop())

	if _, err := svc.BuscarPublica(context.Background(), "rascunho"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("rascunho não deveria aparecer no site público, erro %v", err)
	}
	if _, err := svc.BuscarPublica(context.Background(), "no-ar"); err != nil {
		t.Fatalf("publicada deveria aparecer: %v", err)
	}
	if _, err := svc.Buscar(context.Background(), "rascunho"); err != nil {
		t.Fatalf("admin deveria ver o rascunho: %v", err)
	}
}

func TestAtualizarTituloVazio(t *testing.T) {
	repo := newStubRepo()
	repo.noticias["n1"] = &Noticia{ID: "n1", Titulo: "Original"}

	svc := NewService(repo, zerolog.Nop())

	vazio := "  "
	if err := svc.Atualizar(context.Background(), "n1", Patch{Titulo: &vazio}); !util.IsValidation(err) {
		t.Fatalf("esperado erro de validação, recebido %v", err)
	}
}
