package imovel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/altilhabela/portal/internal/db"
	"github.com/altilhabela/portal/internal/util"
)

// Repository provê acesso à tabela de imóveis.
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

const imovelColumns = `id, proprietario_id, titulo, descricao, tipo, regiao, endereco_completo,
    preco_diaria, preco_semanal, preco_mensal, num_quartos, num_banheiros, capacidade, area_m2,
    possui_piscina, possui_churrasqueira, possui_wifi, aceita_pets, vista_mar, ar_condicionado,
    fotos, video_url, link_booking, link_airbnb,
    status_aprovacao, motivo_recusa, ativo, destaque, visualizacoes, cliques_link,
    created_at, updated_at`

// Create insere anúncio novo. Estado inicial: pendente, ativo,
// contadores zerados, sem destaque.
func (r *Repository) Create(ctx context.Context, i Imovel) (*Imovel, error) {
	const query = `
        INSERT INTO imoveis (id, proprietario_id, titulo, descricao, tipo, regiao, endereco_completo,
            preco_diaria, preco_semanal, preco_mensal, num_quartos, num_banheiros, capacidade, area_m2,
            possui_piscina, possui_churrasqueira, possui_wifi, aceita_pets, vista_mar, ar_condicionado,
            fotos, video_url, link_booking, link_airbnb, status_aprovacao, ativo)
        VALUES ($1, $2, $3, $4, $5, $6, $7,
            $8, $9, $10, $11, $12, $13, $14,
            $15, $16, $17, $18, $19, $20,
            $21, $22, $23, $24, 'pendente', TRUE)
        RETURNING ` + imovelColumns

	row := r.q.QueryRow(ctx, query,
		i.ID, i.ProprietarioID, i.Titulo, i.Descricao, i.Tipo, i.Regiao, i.EnderecoCompleto,
		i.PrecoDiaria, i.PrecoSemanal, i.PrecoMensal, i.NumQuartos, i.NumBanheiros, i.Capacidade, i.AreaM2,
		i.PossuiPiscina, i.PossuiChurrasqueira, i.PossuiWifi, i.AceitaPets, i.VistaMar, i.ArCondicionado,
		fotosOrEmpty(i.Fotos), util.NormalizeOptionalURL(i.VideoURL),
		util.NormalizeOptionalURL(i.LinkBooking), util.NormalizeOptionalURL(i.LinkAirbnb),
	)
	return scanImovel(row)
}

// GetByID busca um imóvel; somenteAtivo restringe à vitrine pública.
func (r *Repository) GetByID(ctx context.Context, id string, somenteAtivo bool) (*Imovel, error) {
	query := `SELECT ` + imovelColumns + ` FROM imoveis WHERE id = $1`
	if somenteAtivo {
		query += ` AND ativo`
	}
	return scanImovel(r.q.QueryRow(ctx, query, id))
}

// ListAprovados lista a vitrine pública: aprovados e ativos, destaque
// primeiro, com filtros opcionais.
func (r *Repository) ListAprovados(ctx context.Context, f Filtro) ([]Imovel, error) {
	query := `SELECT ` + imovelColumns + ` FROM imoveis WHERE ativo AND status_aprovacao = 'aprovado'`
	args := []any{}
	idx := 1

	add := func(cond string, value any) {
		query += fmt.Sprintf(" AND "+cond, idx)
		args = append(args, value)
		idx++
	}

	if f.Tipo != nil {
		add("tipo = $%d", *f.Tipo)
	}
	if f.Regiao != nil {
		add("regiao = $%d", *f.Regiao)
	}
	if f.PrecoMax != nil {
		add("preco_diaria <= $%d", *f.PrecoMax)
	}
	if f.NumQuartos != nil {
		add("num_quartos >= $%d", *f.NumQuartos)
	}
	if f.PossuiPiscina != nil {
		add("possui_piscina = $%d", *f.PossuiPiscina)
	}
	if f.AceitaPets != nil {
		add("aceita_pets = $%d", *f.AceitaPets)
	}

	query += ` ORDER BY destaque DESC, created_at DESC`
	return r.list(ctx, query, args...)
}

// ListDestaques lista aprovados em destaque para a página principal.
func (r *Repository) ListDestaques(ctx context.Context, limit int) ([]Imovel, error) {
	const query = `SELECT ` + imovelColumns + ` FROM imoveis
        WHERE ativo AND status_aprovacao = 'aprovado' AND destaque
        ORDER BY created_at DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

// ListDoProprietario lista todos os anúncios de um membro, inclusive
// pendentes e inativos.
func (r *Repository) ListDoProprietario(ctx context.Context, proprietarioID string) ([]Imovel, error) {
	const query = `SELECT ` + imovelColumns + ` FROM imoveis
        WHERE proprietario_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, proprietarioID)
}

// ListAll lista todos os anúncios (uso administrativo).
func (r *Repository) ListAll(ctx context.Context) ([]Imovel, error) {
	const query = `SELECT ` + imovelColumns + ` FROM imoveis ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// Update aplica o patch do proprietário. A edição não mexe no status
// de aprovação; re-revisão é decisão administrativa.
func (r *Repository) Update(ctx context.Context, id, proprietarioID string, p Patch) error {
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
	if p.Descricao != nil {
		add("descricao", *p.Descricao)
	}
	if p.Tipo != nil {
		add("tipo", *p.Tipo)
	}
	if p.Regiao != nil {
		add("regiao", *p.Regiao)
	}
	if p.EnderecoCompleto != nil {
		add("endereco_completo", *p.EnderecoCompleto)
	}
	if p.PrecoDiaria != nil {
		add("preco_diaria", *p.PrecoDiaria)
	}
	if p.PrecoSemanal != nil {
		add("preco_semanal", *p.PrecoSemanal)
	}
	if p.PrecoMensal != nil {
		add("preco_mensal", *p.PrecoMensal)
	}
	if p.NumQuartos != nil {
		add("num_quartos", *p.NumQuartos)
	}
	if p.NumBanheiros != nil {
		add("num_banheiros", *p.NumBanheiros)
	}
	if p.Capacidade != nil {
		add("capacidade", *p.Capacidade)
	}
	if p.AreaM2 != nil {
		add("area_m2", *p.AreaM2)
	}
	if p.PossuiPiscina != nil {
		add("possui_piscina", *p.PossuiPiscina)
	}
	if p.PossuiChurrasqueira != nil {
		add("possui_churrasqueira", *p.PossuiChurrasqueira)
	}
	if p.PossuiWifi != nil {
		add("possui_wifi", *p.PossuiWifi)
	}
	if p.AceitaPets != nil {
		add("aceita_pets", *p.AceitaPets)
	}
	if p.VistaMar != nil {
		add("vista_mar", *p.VistaMar)
	}
	if p.ArCondicionado != nil {
		add("ar_condicionado", *p.ArCondicionado)
	}
	if p.Fotos != nil {
		add("fotos", fotosOrEmpty(p.Fotos))
	}
	if p.VideoURL != nil {
		add("video_url", util.NormalizeOptionalURL(p.VideoURL))
	}
	if p.LinkBooking != nil {
		add("link_booking", util.NormalizeOptionalURL(p.LinkBooking))
	}
	if p.LinkAirbnb != nil {
		add("link_airbnb", util.NormalizeOptionalURL(p.LinkAirbnb))
	}

	args = append(args, id, proprietarioID)
	query := fmt.Sprintf(`UPDATE imoveis SET %s WHERE id = $%d AND proprietario_id = $%d`,
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

// SoftDelete desativa o anúncio do proprietário sem apagar histórico.
func (r *Repository) SoftDelete(ctx context.Context, id, proprietarioID string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE imoveis SET ativo = FALSE, updated_at = now() WHERE id = $1 AND proprietario_id = $2`,
		id, proprietarioID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatusAprovacao grava o veredito da revisão. Re-revisão é
// permitida: aprovado pode virar recusado e vice-versa.
func (r *Repository) SetStatusAprovacao(ctx context.Context, id string, status StatusAprovacao, motivo *string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE imoveis SET status_aprovacao = $2, motivo_recusa = $3, updated_at = now() WHERE id = $1`,
		id, string(status), motivo)
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
		`UPDATE imoveis SET destaque = $2, updated_at = now() WHERE id = $1`, id, destaque)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RegistrarVisualizacao incrementa o contador de visualizações.
// Id ausente devolve ErrNotFound; o chamador decide se ignora.
func (r *Repository) RegistrarVisualizacao(ctx context.Context, id string) error {
	return r.incrementar(ctx, id, "visualizacoes")
}

// RegistrarClique incrementa o contador de cliques nos links externos.
func (r *Repository) RegistrarClique(ctx context.Context, id string) error {
	return r.incrementar(ctx, id, "cliques_link")
}

func (r *Repository) incrementar(ctx context.Context, id, coluna string) error {
	query := fmt.Sprintf(`UPDATE imoveis SET %s = %s + 1 WHERE id = $1`, coluna, coluna)
	cmd, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DesativarDoProprietario desativa todos os anúncios de um membro e
// devolve quantos mudaram.
func (r *Repository) DesativarDoProprietario(ctx context.Context, proprietarioID string) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE imoveis SET ativo = FALSE, updated_at = now() WHERE proprietario_id = $1`,
		proprietarioID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// CountByStatus conta anúncios por status de aprovação; nil conta todos.
func (r *Repository) CountByStatus(ctx context.Context, status *StatusAprovacao) (int64, error) {
	query := `SELECT count(*) FROM imoveis`
	args := []any{}
	if status != nil {
		query += ` WHERE status_aprovacao = $1`
		args = append(args, string(*status))
	}

	var total int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Imovel, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Imovel
	for rows.Next() {
		i, err := scanImovel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *i)
	}
	return out, rows.Err()
}

func scanImovel(row pgx.Row) (*Imovel, error) {
	var (
		i      Imovel
		status string
	)
	err := row.Scan(
		&i.ID, &i.ProprietarioID, &i.Titulo, &i.Descricao, &i.Tipo, &i.Regiao, &i.EnderecoCompleto,
		&i.PrecoDiaria, &i.PrecoSemanal, &i.PrecoMensal, &i.NumQuartos, &i.NumBanheiros, &i.Capacidade, &i.AreaM2,
		&i.PossuiPiscina, &i.PossuiChurrasqueira, &i.PossuiWifi, &i.AceitaPets, &i.VistaMar, &i.ArCondicionado,
		&i.Fotos, &i.VideoURL, &i.LinkBooking, &i.LinkAirbnb,
		&status, &i.MotivoRecusa, &i.Ativo, &i.Destaque, &i.Visualizacoes, &i.CliquesLink,
		&i.CriadoEm, &i.AtualizadoEm,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	i.StatusAprovacao = StatusAprovacao(status)
	if i.Fotos == nil {
		i.Fotos = []string{}
	}
	return &i, nil
}

func fotosOrEmpty(fotos []string) []string {
	if fotos == nil {
		return []string{}
	}
	return fotos
}
