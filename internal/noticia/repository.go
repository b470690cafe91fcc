package noticia

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/altilhabela/portal/internal/db"
	"github.com/altilhabela/portal/internal/util"
)

// Repository provê acesso à tabela de notícias.
type Repository struct {
	q db.Querier
}

// NewRepository cria instância do repositório.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

const noticiaColumns = `id, titulo, subtitulo, conteudo, resumo, autor_id, autor_nome, categoria,
    fotos, video_url, link_externo, tags, destaque, publicada, created_at, updated_at`

// Create insere notícia nova.
func (r *Repository) Create(ctx context.Context, n Noticia) (*Noticia, error) {
	const query = `
        INSERT INTO noticias (id, titulo, subtitulo, conteudo, resumo, autor_id, autor_nome, categoria,
            fotos, video_url, link_externo, tags, destaque, publicada)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING ` + noticiaColumns

	row := r.q.QueryRow(ctx, query,
		n.ID, strings.TrimSpace(n.Titulo), n.Subtitulo, n.Conteudo, n.Resumo,
		n.AutorID, n.AutorNome, n.Categoria,
		sliceOrEmpty(n.Fotos), util.NormalizeOptionalURL(n.VideoURL),
		util.NormalizeOptionalURL(n.LinkExterno), sliceOrEmpty(n.Tags),
		n.Destaque, n.Publicada,
	)
	return scanNoticia(row)
}

// GetByID busca notícia; somentePublicada restringe ao site público.
func (r *Repository) GetByID(ctx context.Context, id string, somentePublicada bool) (*Noticia, error) {
	query := `SELECT ` + noticiaColumns + ` FROM noticias WHERE id = $1`
	if somentePublicada {
		query += ` AND publicada`
	}
	return scanNoticia(r.q.QueryRow(ctx, query, id))
}

// ListPublicadas lista notícias publicadas, destaque primeiro, com
// filtro opcional de categoria.
func (r *Repository) ListPublicadas(ctx context.Context, categoria *string) ([]Noticia, error) {
	query := `SELECT ` + noticiaColumns + ` FROM noticias WHERE publicada`
	args := []any{}
	if categoria != nil {
		query += ` AND categoria = $1`
		args = append(args, *categoria)
	}
	query += ` ORDER BY destaque DESC, created_at DESC`
	return r.list(ctx, query, args...)
}

// ListAll lista todas as notícias, rascunhos inclusos.
func (r *Repository) ListAll(ctx context.Context) ([]Noticia, error) {
	const query = `SELECT ` + noticiaColumns + ` FROM noticias ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// Update aplica o patch administrativo.
func (r *Repository) Update(ctx context.Context, id string, p Patch) error {
	setParts := []string{"updated_at = now()"}
	args := []any{}
	idx := 1

	add := func(col string, value any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, value)
		idx++
	}

	if p.Titulo != nil {
		add("titulo", strings.TrimSpace(*p.Titulo))
	}
	if p.Subtitulo != nil {
		add("subtitulo", *p.Subtitulo)
	}
	if p.Conteudo != nil {
		add("conteudo", *p.Conteudo)
	}
	if p.Resumo != nil {
		add("resumo", *p.Resumo)
	}
	if p.Categoria != nil {
		add("categoria", *p.Categoria)
	}
	if p.Fotos != nil {
		add("fotos", sliceOrEmpty(p.Fotos))
	}
	if p.VideoURL != nil {
		add("video_url", util.NormalizeOptionalURL(p.VideoURL))
	}
	if p.LinkExterno != nil {
		add("link_externo", util.NormalizeOptionalURL(p.LinkExterno))
	}
	if p.Tags != nil {
		add("tags", sliceOrEmpty(p.Tags))
	}
	if p.Destaque != nil {
		add("destaque", *p.Destaque)
	}
	if p.Publicada != nil {
		add("publicada", *p.Publicada)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE noticias SET %s WHERE id = $%d`, strings.Join(setParts, ", "), idx)

	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete remove a notícia.
func (r *Repository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM noticias WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Noticia, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Noticia
	for rows.Next() {
		n, err := scanNoticia(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func scanNoticia(row pgx.Row) (*Noticia, error) {
	var n Noticia
	err := row.Scan(
		&n.ID, &n.Titulo, &n.Subtitulo, &n.Conteudo, &n.Resumo, &n.AutorID, &n.AutorNome, &n.Categoria,
		&n.Fotos, &n.VideoURL, &n.LinkExterno, &n.Tags, &n.Destaque, &n.Publicada,
		&n.CriadoEm, &n.AtualizadoEm,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if n.Fotos == nil {
		n.Fotos = []string{}
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return &n, nil
}

func sliceOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
