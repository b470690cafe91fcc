package parceiro

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/altilhabela/portal/internal/db"
	"github.com/altilhabela/portal/internal/util"
)

// Repository provê acesso à tabela de perfis de parceiros.
type Repository struct {
	q db.Querier
}

// NewRepository cria instância do repositório.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

// WithTx devolve uma cópia do repositório presa à transação.
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{q: tx}
}

const perfilColumns = `id, user_id, nome_empresa, descricao, categoria, telefone,
    endereco, website, instagram, facebook, whatsapp,
    fotos, video_url, horario_funcionamento, servicos_oferecidos, preco_medio,
    aceita_cartao, delivery, destaque, ativo, created_at, updated_at`

// Create insere o perfil; o índice único de user_id garante a relação
// 1:1 e devolve ErrPerfilJaExiste em corrida.
func (r *Repository) Create(ctx context.Context, p PerfilParceiro) (*PerfilParceiro, error) {
	const query = `
        INSERT INTO perfis_parceiros (id, user_id, nome_empresa, descricao, categoria, telefone,
            endereco, website, instagram, facebook, whatsapp,
            fotos, video_url, horario_funcionamento, servicos_oferecidos, preco_medio,
            aceita_cartao, delivery, ativo)
        VALUES ($1, $2, $3, $4, $5, $6,
            $7, $8, $9, $10, $11,
            $12, $13, $14, $15, $16,
            $17, $18, TRUE)
        RETURNING ` + perfilColumns

	row := r.q.QueryRow(ctx, query,
		p.ID, p.UserID, strings.TrimSpace(p.NomeEmpresa), p.Descricao, p.Categoria, p.Telefone,
		p.Endereco, util.NormalizeOptionalURL(p.Website), p.Instagram, p.Facebook, p.Whatsapp,
		fotosOrEmpty(p.Fotos), util.NormalizeOptionalURL(p.VideoURL),
		p.HorarioFuncionamento, p.ServicosOferecidos, p.PrecoMedio,
		p.AceitaCartao, p.Delivery,
	)

	created, err := scanPerfil(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrPerfilJaExiste
		}
		return nil, err
	}
	return created, nil
}

// GetByID busca perfil pelo identificador.
func (r *Repository) GetByID(ctx context.Context, id string) (*PerfilParceiro, error) {
	const query = `SELECT ` + perfilColumns + ` FROM perfis_parceiros WHERE id = $1`
	return scanPerfil(r.q.QueryRow(ctx, query, id))
}

// GetByUser busca o perfil do usuário (relação 1:1).
func (r *Repository) GetByUser(ctx context.Context, userID string) (*PerfilParceiro, error) {
	const query = `SELECT ` + perfilColumns + ` FROM perfis_parceiros WHERE user_id = $1`
	return scanPerfil(r.q.QueryRow(ctx, query, userID))
}

// ListAtivos lista a vitrine pública de parceiros, destaque primeiro,
// com filtro opcional de categoria.
func (r *Repository) ListAtivos(ctx context.Context, categoria *string) ([]PerfilParceiro, error) {
	query := `SELECT ` + perfilColumns + ` FROM perfis_parceiros WHERE ativo`
	args := []any{}
	if categoria != nil {
		query += ` AND categoria = $1`
		args = append(args, *categoria)
	}
	query += ` ORDER BY destaque DESC, created_at DESC`
	return r.list(ctx, query, args...)
}

// ListAll lista todos os perfis (uso administrativo).
func (r *Repository) ListAll(ctx context.Context) ([]PerfilParceiro, error) {
	const query = `SELECT ` + perfilColumns + ` FROM perfis_parceiros ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// Update aplica o patch do parceiro sobre o próprio perfil.
func (r *Repository) Update(ctx context.Context, id, userID string, p Patch) error {
	setParts := []string{"updated_at = now()"}
	args := []any{}
	idx := 1

	add := func(col string, value any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, value)
		idx++
	}

	if p.NomeEmpresa != nil {
		add("nome_empresa", strings.TrimSpace(*p.NomeEmpresa))
	}
	if p.Descricao != nil {
		add("descricao", *p.Descricao)
	}
	if p.Categoria != nil {
		add("categoria", *p.Categoria)
	}
	if p.Telefone != nil {
		add("telefone", *p.Telefone)
	}
	if p.Endereco != nil {
		add("endereco", *p.Endereco)
	}
	if p.Website != nil {
		add("website", util.NormalizeOptionalURL(p.Website))
	}
	if p.Instagram != nil {
		add("instagram", *p.Instagram)
	}
	if p.Facebook != nil {
		add("facebook", *p.Facebook)
	}
	if p.Whatsapp != nil {
		add("whatsapp", *p.Whatsapp)
	}
	if p.Fotos != nil {
		add("fotos", fotosOrEmpty(p.Fotos))
	}
	if p.VideoURL != nil {
		add("video_url", util.NormalizeOptionalURL(p.VideoURL))
	}
	if p.HorarioFuncionamento != nil {
		add("horario_funcionamento", *p.HorarioFuncionamento)
	}
	if p.ServicosOferecidos != nil {
		add("servicos_oferecidos", *p.ServicosOferecidos)
	}
	if p.PrecoMedio != nil {
		add("preco_medio", *p.PrecoMedio)
	}
	if p.AceitaCartao != nil {
		add("aceita_cartao", *p.AceitaCartao)
	}
	if p.Delivery != nil {
		add("delivery", *p.Delivery)
	}

	args = append(args, id, userID)
	query := fmt.Sprintf(`UPDATE perfis_parceiros SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(setParts, ", "), idx, idx+1)

	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDestaque marca/desmarca destaque da vitrine.
func (r *Repository) SetDestaque(ctx context.Context, id string, destaque bool) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE perfis_parceiros SET destaque = $2, updated_at = now() WHERE id = $1`, id, destaque)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DesativarDoUsuario desativa o perfil do usuário, se houver; perfil
// ausente não é erro. Devolve quantas linhas mudaram (0 ou 1).
func (r *Repository) DesativarDoUsuario(ctx context.Context, userID string) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE perfis_parceiros SET ativo = FALSE, updated_at = now() WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// CountAtivos conta perfis ativos.
func (r *Repository) CountAtivos(ctx context.Context) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM perfis_parceiros WHERE ativo`).Scan(&total)
	return total, err
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]PerfilParceiro, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PerfilParceiro
	for rows.Next() {
		p, err := scanPerfil(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPerfil(row pgx.Row) (*PerfilParceiro, error) {
	var p PerfilParceiro
	err := row.Scan(
		&p.ID, &p.UserID, &p.NomeEmpresa, &p.Descricao, &p.Categoria, &p.Telefone,
		&p.Endereco, &p.Website, &p.Instagram, &p.Facebook, &p.Whatsapp,
		&p.Fotos, &p.VideoURL, &p.HorarioFuncionamento, &p.ServicosOferecidos, &p.PrecoMedio,
		&p.AceitaCartao, &p.Delivery, &p.Destaque, &p.Ativo, &p.CriadoEm, &p.AtualizadoEm,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.Fotos == nil {
		p.Fotos = []string{}
	}
	return &p, nil
}

func fotosOrEmpty(fotos []string) []string {
	if fotos == nil {
		return []string{}
	}
	return fotos
}
