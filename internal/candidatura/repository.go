package candidatura

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/altilhabela/portal/internal/db"
	"github.com/altilhabela/portal/internal/util"
)

// Repository provê acesso à tabela de candidaturas.
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

const candidaturaColumns = `id, tipo, nome, email, telefone, mensagem, status, motivo_recusa, created_at,
    endereco, num_imoveis, link_imovel, experiencia_locacao, renda_mensal_estimada, possui_alvara,
    nome_empresa, categoria, website, cnpj, tempo_operacao, servicos_oferecidos, capacidade_atendimento,
    ocupacao, motivo_interesse, empresa_trabalho, linkedin, contribuicao_pretendida, disponibilidade`

// Create insere uma candidatura nova.
func (r *Repository) Create(ctx context.Context, c Candidatura) (*Candidatura, error) {
	const query = `
        INSERT INTO candidaturas (id, tipo, nome, email, telefone, mensagem, status,
            endereco, num_imoveis, link_imovel, experiencia_locacao, renda_mensal_estimada, possui_alvara,
            nome_empresa, categoria, website, cnpj, tempo_operacao, servicos_oferecidos, capacidade_atendimento,
            ocupacao, motivo_interesse, empresa_trabalho, linkedin, contribuicao_pretendida, disponibilidade)
        VALUES ($1, $2, $3, $4, $5, $6, $7,
            $8, $9, $10, $11, $12, $13,
            $14, $15, $16, $17, $18, $19, $20,
            $21, $22, $23, $24, $25, $26)
        RETURNING ` + candidaturaColumns

	row := r.q.QueryRow(ctx, query,
		c.ID, c.Tipo.String(), c.Nome, util.NormalizeEmail(c.Email), c.Telefone, c.Mensagem, string(c.Status),
		c.Endereco, c.NumImoveis, util.NormalizeOptionalURL(c.LinkImovel), c.ExperienciaLocacao, c.RendaMensalEstimada, c.PossuiAlvara,
		c.NomeEmpresa, c.Categoria, util.NormalizeOptionalURL(c.Website), c.CNPJ, c.TempoOperacao, c.ServicosOferecidos, c.CapacidadeAtendimento,
		c.Ocupacao, c.MotivoInteresse, c.EmpresaTrabalho, util.NormalizeOptionalURL(c.Linkedin), c.ContribuicaoPretendida, c.Disponibilidade,
	)
	return scanCandidatura(row)
}

// Get busca candidatura por tipo e id.
func (r *Repository) Get(ctx context.Context, tipo Tipo, id string) (*Candidatura, error) {
	const query = `SELECT ` + candidaturaColumns + ` FROM candidaturas WHERE tipo = $1 AND id = $2`
	return scanCandidatura(r.q.QueryRow(ctx, query, tipo.String(), id))
}

// ListByStatus lista candidaturas de um tipo filtrando por status;
// status nil devolve todas, mais recentes primeiro.
func (r *Repository) ListByStatus(ctx context.Context, tipo Tipo, status *Status) ([]Candidatura, error) {
	query := `SELECT ` + candidaturaColumns + ` FROM candidaturas WHERE tipo = $1`
	args := []any{tipo.String()}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Candidatura
	for rows.Next() {
		c, err := scanCandidatura(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// ExistsPendente verifica se já há candidatura pendente do mesmo
// tipo para o e-mail.
func (r *Repository) ExistsPendente(ctx context.Context, tipo Tipo, email string) (bool, error) {
	const query = `SELECT EXISTS (
        SELECT 1 FROM candidaturas WHERE tipo = $1 AND email = $2 AND status = 'pendente')`

	var exists bool
	if err := r.q.QueryRow(ctx, query, tipo.String(), util.NormalizeEmail(email)).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateStatusSePendente executa a transição condicional
// pendente -> novo status; devolve false quando nenhuma linha muda
// (candidatura ausente ou já decidida).
func (r *Repository) UpdateStatusSePendente(ctx context.Context, tipo Tipo, id string, novo Status, motivo *string) (bool, error) {
	const query = `
        UPDATE candidaturas SET status = $3, motivo_recusa = $4
        WHERE tipo = $1 AND id = $2 AND status = 'pendente'`

	cmd, err := r.q.Exec(ctx, query, tipo.String(), id, string(novo), motivo)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// CountPendentes conta candidaturas pendentes de um tipo.
func (r *Repository) CountPendentes(ctx context.Context, tipo Tipo) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM candidaturas WHERE tipo = $1 AND status = 'pendente'`,
		tipo.String(),
	).Scan(&total)
	return total, err
}

func scanCandidatura(row pgx.Row) (*Candidatura, error) {
	var (
		c      Candidatura
		tipo   string
		status string
	)
	err := row.Scan(
		&c.ID, &tipo, &c.Nome, &c.Email, &c.Telefone, &c.Mensagem, &status, &c.MotivoRecusa, &c.CriadoEm,
		&c.Endereco, &c.NumImoveis, &c.LinkImovel, &c.ExperienciaLocacao, &c.RendaMensalEstimada, &c.PossuiAlvara,
		&c.NomeEmpresa, &c.Categoria, &c.Website, &c.CNPJ, &c.TempoOperacao, &c.ServicosOferecidos, &c.CapacidadeAtendimento,
		&c.Ocupacao, &c.MotivoInteresse, &c.EmpresaTrabalho, &c.Linkedin, &c.ContribuicaoPretendida, &c.Disponibilidade,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c.Tipo = Tipo(tipo)
	c.Status = Status(status)
	return &c, nil
}
