// Package service reúne os serviços de aplicação que não pertencem a
// um agregado específico, como autenticação e sessões.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/altilhabela/portal/internal/auth"
	"github.com/altilhabela/portal/internal/notify"
	"github.com/altilhabela/portal/internal/usuario"
	"github.com/altilhabela/portal/internal/util"
)

var (
	// ErrCredenciaisInvalidas cobre e-mail desconhecido e senha errada,
	// sem distinguir os dois para quem está de fora.
	ErrCredenciaisInvalidas = errors.New("email ou senha incorretos")
	// ErrContaDesativada indica login em conta desligada.
	ErrContaDesativada = errors.New("conta desativada")
	// ErrSenhaAtualIncorreta indica troca de senha com senha atual errada.
	ErrSenhaAtualIncorreta = errors.New("senha atual incorreta")
)

// MsgRecuperacao é a resposta fixa da recuperação de senha: a mesma
// para e-mail cadastrado ou não, para não vazar quem tem conta.
const MsgRecuperacao = "Se o email estiver cadastrado, você receberá instruções de recuperação"

type userStore interface {
	Create(ctx context.Context, u usuario.Usuario, senhaHash string) (*usuario.Usuario, error)
	GetByID(ctx context.Context, id string) (*usuario.Usuario, error)
	GetByEmail(ctx context.Context, email string) (*usuario.Usuario, error)
	GetSenhaHash(ctx context.Context, id string) (string, error)
	UpdateSenha(ctx context.Context, id, senhaHash string) error
}

type dispatcher interface {
	Dispatch(ev notify.Event)
}

// TokenPair é o resultado de login e refresh.
type TokenPair struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	TokenType    string           `json:"token_type"`
	Usuario      *usuario.Usuario `json:"user"`
}

// AuthService autentica usuários e gerencia sessões de refresh.
type AuthService struct {
	usuarios   userStore
	sessions   sessionStore
	jwt        *auth.JWTManager
	notifier   dispatcher
	logger     zerolog.Logger
	refreshTTL time.Duration
	portalURL  string
}

// NewAuthService cria o serviço de autenticação.
func NewAuthService(usuarios userStore, sessions sessionStore, jwt *auth.JWTManager, notifier dispatcher, refreshTTL time.Duration, portalURL string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		usuarios:   usuarios,
		sessions:   sessions,
		jwt:        jwt,
		notifier:   notifier,
		logger:     logger,
		refreshTTL: refreshTTL,
		portalURL:  portalURL,
	}
}

// Login valida credenciais e emite o par de tokens. Senha errada e
// e-mail desconhecido produzem o mesmo erro; conta inativa é avisada
// só depois da senha conferir.
func (s *AuthService) Login(ctx context.Context, email, senha string) (*TokenPair, error) {
	u, err := s.usuarios.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, usuario.ErrNotFound) {
			return nil, ErrCredenciaisInvalidas
		}
		return nil, err
	}

	hash, err := s.usuarios.GetSenhaHash(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	ok, err := auth.Verify(senha, hash)
	if err != nil {
		return nil, fmt.Errorf("verificar senha: %w", err)
	}
	if !ok {
		return nil, ErrCredenciaisInvalidas
	}

	if !u.Ativo {
		return nil, ErrContaDesativada
	}

	pair, err := s.emitirTokens(ctx, u)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("usuario_id", u.ID).Str("role", u.Role.String()).Msg("login realizado")
	return pair, nil
}

// Refresh troca um refresh token válido por um par novo. O token usado
// é invalidado no ato: reuso detectado vira ErrInvalidRefresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.sessions.ConsumeRefresh(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		return nil, err
	}

	u, err := s.usuarios.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, usuario.ErrNotFound) {
			return nil, auth.ErrInvalidRefresh
		}
		return nil, err
	}
	if !u.Ativo {
		return nil, ErrContaDesativada
	}

	return s.emitirTokens(ctx, u)
}

// Logout invalida o refresh token da sessão.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.sessions.DeleteRefresh(ctx, auth.HashRefreshToken(refreshToken))
}

// Me devolve o usuário autenticado.
func (s *AuthService) Me(ctx context.Context, userID string) (*usuario.Usuario, error) {
	return s.usuarios.GetByID(ctx, userID)
}

// AlterarSenha troca a senha do usuário autenticado conferindo a atual.
func (s *AuthService) AlterarSenha(ctx context.Context, userID, senhaAtual, novaSenha string) error {
	if err := util.ValidatePassword(novaSenha); err != nil {
		return err
	}

	hash, err := s.usuarios.GetSenhaHash(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := auth.Verify(senhaAtual, hash)
	if err != nil {
		return fmt.Errorf("verificar senha atual: %w", err)
	}
	if !ok {
		return ErrSenhaAtualIncorreta
	}

	novoHash, err := auth.Hash(novaSenha)
	if err != nil {
		return fmt.Errorf("hash da nova senha: %w", err)
	}
	if err := s.usuarios.UpdateSenha(ctx, userID, novoHash); err != nil {
		return err
	}

	s.logger.Info().Str("usuario_id", userID).Msg("senha alterada")
	return nil
}

// RecuperarSenha gera senha temporária e envia por e-mail. A resposta
// é sempre MsgRecuperacao; e-mail desconhecido não muda nada visível.
func (s *AuthService) RecuperarSenha(ctx context.Context, email string) error {
	u, err := s.usuarios.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, usuario.ErrNotFound) {
			return nil
		}
		return err
	}

	novaSenha, err := auth.GenerateTempPassword()
	if err != nil {
		return fmt.Errorf("gerar senha: %w", err)
	}
	novoHash, err := auth.Hash(novaSenha)
	if err != nil {
		return fmt.Errorf("hash da senha: %w", err)
	}
	if err := s.usuarios.UpdateSenha(ctx, u.ID, novoHash); err != nil {
		return err
	}

	s.notifier.Dispatch(notify.Event{
		Tipo:         notify.EventoSenhaRecuperada,
		Para:         u.Email,
		Nome:         u.Nome,
		Assunto:      "Recuperação de Senha",
		PreCabecalho: "Sua nova senha de acesso",
		Corpo: "<p>Recebemos um pedido de recuperação de senha.</p>" +
			"<p>Sua nova senha é: <strong>" + novaSenha + "</strong></p>" +
			"<p>Troque-a assim que entrar no portal.</p>",
		BotaoTexto: "Acessar o Portal",
		BotaoURL:   s.portalURL + "/login",
	})

	s.logger.Info().Str("usuario_id", u.ID).Msg("senha temporária emitida")
	return nil
}

// Registrar cria conta direto, sem candidatura (uso administrativo).
func (s *AuthService) Registrar(ctx context.Context, nome, email, senha string, role usuario.Role) (*usuario.Usuario, error) {
	if err := util.RequireString(nome, "nome"); err != nil {
		return nil, err
	}
	if err := util.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := util.ValidatePassword(senha); err != nil {
		return nil, err
	}

	hash, err := auth.Hash(senha)
	if err != nil {
		return nil, fmt.Errorf("hash da senha: %w", err)
	}

	u, err := s.usuarios.Create(ctx, usuario.Usuario{
		ID:    util.NewID(),
		Email: email,
		Nome:  nome,
		Role:  role,
		Ativo: true,
	}, hash)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("usuario_id", u.ID).Str("role", role.String()).Msg("usuário registrado")
	return u, nil
}

func (s *AuthService) emitirTokens(ctx context.Context, u *usuario.Usuario) (*TokenPair, error) {
	access, _, err := s.jwt.GenerateAccessToken(u.ID, []string{u.Role.String()})
	if err != nil {
		return nil, fmt.Errorf("emitir access token: %w", err)
	}

	raw, hashed, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("emitir refresh token: %w", err)
	}
	if err := s.sessions.SaveRefresh(ctx, hashed, u.ID, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("guardar sessão: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: raw,
		TokenType:    "bearer",
		Usuario:      u,
	}, nil
}
