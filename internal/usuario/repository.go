package usuario

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/altilhabela/portal/internal/db"
	"github.com/altilhabela/portal/internal/util"
)

// Repository provê acesso à tabela de usuários.
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

const usuarioColumns = "id, email, nome, telefone, role, ativo, descricao, foto_url, created_at"

// Create insere um usuário novo. E-mail é normalizado para minúsculas
// antes da escrita; o índice único devolve ErrEmailEmUso em corrida.
func (r *Repository) Create(ctx context.Context, u Usuario, senhaHash string) (*Usuario, error) {
	const query = `
        INSERT INTO usuarios (id, email, nome, telefone, role, ativo, descricao, foto_url, senha_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING ` + usuarioColumns

	row := r.q.QueryRow(ctx, query,
		u.ID,
		util.NormalizeEmail(u.Email),
		strings.TrimSpace(u.Nome),
		u.Telefone,
		u.Role.String(),
		u.Ativo,
		u.Descricao,
		u.FotoURL,
		senhaHash,
	)

	created, err := scanUsuario(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailEmUso
		}
		return nil, err
	}
	return created, nil
}

// GetByID busca usuário pelo identificador opaco.
func (r *Repository) GetByID(ctx context.Context, id string) (*Usuario, error) {
	const query = `SELECT ` + usuarioColumns + ` FROM usuarios WHERE id = $1`
	return scanUsuario(r.q.QueryRow(ctx, query, id))
}

// GetByEmail busca usuário pelo e-mail normalizado.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Usuario, error) {
	const query = `SELECT ` + usuarioColumns + ` FROM usuarios WHERE email = $1`
	return scanUsuario(r.q.QueryRow(ctx, query, util.NormalizeEmail(email)))
}

// GetSenhaHash devolve o hash de senha para verificação de login.
func (r *Repository) GetSenhaHash(ctx context.Context, id string) (string, error) {
	var hash string
	err := r.q.QueryRow(ctx, `SELECT senha_hash FROM usuarios WHERE id = $1`, id).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return hash, nil
}

// SetAtivo liga/desliga a conta. Idempotente e sem cascata; quem
// cascateia é o motor de ciclo de vida.
func (r *Repository) SetAtivo(ctx context.Context, id string, ativo bool) error {
	cmd, err := r.q.Exec(ctx, `UPDATE usuarios SET ativo = $2 WHERE id = $1`, id, ativo)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePerfil aplica o patch fechado de perfil.
func (r *Repository) UpdatePerfil(ctx context.Context, id string, patch PerfilPatch) error {
	setParts := []string{}
	args := []any{}
	idx := 1

	if patch.Nome != nil {
		setParts = append(setParts, fmt.Sprintf("nome = $%d", idx))
		args = append(args, strings.TrimSpace(*patch.Nome))
		idx++
	}
	if patch.Telefone != nil {
		setParts = append(setParts, fmt.Sprintf("telefone = $%d", idx))
		args = append(args, *patch.Telefone)
		idx++
	}
	if patch.Descricao != nil {
		setParts = append(setParts, fmt.Sprintf("descricao = $%d", idx))
		args = append(args, *patch.Descricao)
		idx++
	}
	if patch.FotoURL != nil {
		setParts = append(setParts, fmt.Sprintf("foto_url = $%d", idx))
		args = append(args, util.NormalizeOptionalURL(patch.FotoURL))
		idx++
	}

	if len(setParts) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE usuarios SET %s WHERE id = $%d`, strings.Join(setParts, ", "), idx)

	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSenha troca o hash de senha.
func (r *Repository) UpdateSenha(ctx context.Context, id, senhaHash string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE usuarios SET senha_hash = $2 WHERE id = $1`, id, senhaHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete remove fisicamente o usuário. O chamador já deve ter
// desativado os dependentes.
func (r *Repository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List devolve todos os usuários (uso administrativo).
func (r *Repository) List(ctx context.Context) ([]Usuario, error) {
	const query = `SELECT ` + usuarioColumns + ` FROM usuarios ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usuarios []Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		usuarios = append(usuarios, *u)
	}
	return usuarios, rows.Err()
}

// ListEmailsAtivos lista e-mails de contas ativas, opcionalmente por papel.
func (r *Repository) ListEmailsAtivos(ctx context.Context, role *Role) ([]string, error) {
	query := `SELECT email FROM usuarios WHERE ativo`
	args := []any{}
	if role != nil {
		query += ` AND role = $1`
		args = append(args, role.String())
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

// CountByRole conta usuários por papel; role nil conta todos.
func (r *Repository) CountByRole(ctx context.Context, role *Role) (int64, error) {
	query := `SELECT count(*) FROM usuarios`
	args := []any{}
	if role != nil {
		query += ` WHERE role = $1`
		args = append(args, role.String())
	}

	var total int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func scanUsuario(row pgx.Row) (*Usuario, error) {
	var (
		u    Usuario
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Nome, &u.Telefone, &role, &u.Ativo, &u.Descricao, &u.FotoURL, &u.CriadoEm); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.Role = Role(role)
	return &u, nil
}
