// Package lifecycle é o motor de aprovação e ciclo de vida do portal:
// decide candidaturas, revisa imóveis e governa ativação, desativação
// e remoção de usuários com as cascatas que elas exigem.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/altilhabela/portal/internal/auth"
	"github.com/altilhabela/portal/internal/candidatura"
	"github.com/altilhabela/portal/internal/imovel"
	"github.com/altilhabela/portal/internal/notify"
	"github.com/altilhabela/portal/internal/usuario"
	"github.com/altilhabela/portal/internal/util"
)

var (
	// ErrTransicaoInvalida indica tentativa de decidir algo que já
	// foi decidido (ou que não está no estado exigido).
	ErrTransicaoInvalida = errors.New("transição de estado inválida")
	// ErrAutoExclusao impede o administrador de remover a própria conta.
	ErrAutoExclusao = errors.New("você não pode deletar sua própria conta")
)

// CascataResumo descreve o efeito de uma desativação ou remoção,
// para resposta e auditoria.
type CascataResumo struct {
	UsuarioID          string `json:"usuario_id"`
	Nome               string `json:"nome"`
	Role               string `json:"role"`
	ImoveisDesativados int64  `json:"imoveis_desativados"`
	PerfisDesativados  int64  `json:"perfis_desativados"`
}

// Store agrupa as operações de persistência do motor. A implementação
// pgx em store.go executa os combos dentro de uma transação.
type Store interface {
	GetCandidatura(ctx context.Context, tipo candidatura.Tipo, id string) (*candidatura.Candidatura, error)
	// AprovarCandidatura faz, atomicamente, a transição condicional
	// pendente -> aprovado e a criação do usuário. Entre aprovações
	// concorrentes do mesmo e-mail há exatamente um vencedor: o
	// perdedor recebe ErrTransicaoInvalida ou usuario.ErrEmailEmUso.
	AprovarCandidatura(ctx context.Context, tipo candidatura.Tipo, id, novoUserID, senhaHash string) (*candidatura.Candidatura, *usuario.Usuario, error)
	RecusarCandidatura(ctx context.Context, tipo candidatura.Tipo, id string, motivo *string) (*candidatura.Candidatura, error)

	GetUsuario(ctx context.Context, id string) (*usuario.Usuario, error)
	AtualizarPerfilUsuario(ctx context.Context, id string, patch usuario.PerfilPatch) error
	// DesativarUsuario cascateia para os dependentes e desliga a conta
	// na mesma transação.
	DesativarUsuario(ctx context.Context, id string) (*CascataResumo, error)
	ReativarUsuario(ctx context.Context, id string) error
	// RemoverUsuario cascateia e apaga fisicamente a conta.
	RemoverUsuario(ctx context.Context, id string) (*CascataResumo, error)

	GetImovel(ctx context.Context, id string) (*imovel.Imovel, error)
	SetStatusImovel(ctx context.Context, id string, status imovel.StatusAprovacao, motivo *string) error
}

type dispatcher interface {
	Dispatch(ev notify.Event)
}

// AtualizacaoUsuario é o patch administrativo de um usuário.
type AtualizacaoUsuario struct {
	Ativo  *bool
	Perfil usuario.PerfilPatch
}

// Service é o motor de ciclo de vida.
type Service struct {
	store     Store
	notifier  dispatcher
	logger    zerolog.Logger
	portalURL string
}

// NewService cria o motor.
func NewService(store Store, notifier dispatcher, portalURL string, logger zerolog.Logger) *Service {
	return &Service{store: store, notifier: notifier, portalURL: portalURL, logger: logger}
}

// AprovarCandidatura decide a candidatura e cria a conta com papel
// igual ao tipo da trilha e uma credencial temporária. A credencial em
// claro existe só no aviso de boas-vindas; no banco fica o hash.
func (s *Service) AprovarCandidatura(ctx context.Context, tipo candidatura.Tipo, id string) (*usuario.Usuario, error) {
	senha, err := auth.GenerateTempPassword()
	if err != nil {
		return nil, fmt.Errorf("gerar senha temporária: %w", err)
	}
	senhaHash, err := auth.Hash(senha)
	if err != nil {
		return nil, fmt.Errorf("hash da senha temporária: %w", err)
	}

	cand, novo, err := s.store.AprovarCandidatura(ctx, tipo, id, util.NewID(), senhaHash)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("candidatura_id", cand.ID).
		Str("tipo", tipo.String()).
		Str("usuario_id", novo.ID).
		Msg("candidatura aprovada")

	s.notifier.Dispatch(notify.Event{
		Tipo:         notify.EventoBemVindo,
		Para:         novo.Email,
		Nome:         novo.Nome,
		Assunto:      "Bem-vindo à ALT Ilhabela!",
		PreCabecalho: "Sua candidatura foi aprovada",
		Corpo: "<p>Sua candidatura foi <strong>aprovada</strong> e sua conta no portal já está ativa.</p>" +
			"<p>Use a senha temporária abaixo no primeiro acesso e troque-a em seguida:</p>" +
			"<p style=\"font-size: 20px; font-weight: bold;\">" + senha + "</p>",
		BotaoTexto: "Acessar o portal",
		BotaoURL:   s.portalURL + "/login",
	})

	return novo, nil
}

// RecusarCandidatura decide negativamente, guardando o motivo quando
// informado, e avisa o candidato.
func (s *Service) RecusarCandidatura(ctx context.Context, tipo candidatura.Tipo, id string, motivo *string) error {
	cand, err := s.store.RecusarCandidatura(ctx, tipo, id, motivo)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("candidatura_id", cand.ID).
		Str("tipo", tipo.String()).
		Msg("candidatura recusada")

	corpo := "<p>Agradecemos o interesse, mas sua candidatura não foi aprovada neste momento.</p>"
	if motivo != nil && *motivo != "" {
		corpo += "<p><strong>Motivo:</strong> " + *motivo + "</p>"
	}
	corpo += "<p>Você pode se candidatar novamente quando quiser.</p>"

	s.notifier.Dispatch(notify.Event{
		Tipo:         notify.EventoRecusado,
		Para:         cand.Email,
		Nome:         cand.Nome,
		Assunto:      "Sobre sua candidatura à ALT Ilhabela",
		PreCabecalho: "Resultado da sua candidatura",
		Corpo:        corpo,
	})

	return nil
}

// AtualizarUsuario aplica o patch administrativo: mudança de ativo
// passa pelas rotinas com cascata; o resto é edição de perfil.
func (s *Service) AtualizarUsuario(ctx context.Context, id string, patch AtualizacaoUsuario) error {
	if patch.Ativo != nil {
		if *patch.Ativo {
			if err := s.ReativarUsuario(ctx, id); err != nil {
				return err
			}
		} else {
			if _, err := s.DesativarUsuario(ctx, id); err != nil {
				return err
			}
		}
	}

	if patch.Perfil.Vazio() {
		return nil
	}
	return s.store.AtualizarPerfilUsuario(ctx, id, patch.Perfil)
}

// DesativarUsuario desliga a conta e os dependentes: todos os imóveis
// de um membro, o perfil de um parceiro. Tudo numa transação.
func (s *Service) DesativarUsuario(ctx context.Context, id string) (*CascataResumo, error) {
	resumo, err := s.store.DesativarUsuario(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("usuario_id", resumo.UsuarioID).
		Str("role", resumo.Role).
		Int64("imoveis_desativados", resumo.ImoveisDesativados).
		Int64("perfis_desativados", resumo.PerfisDesativados).
		Msg("usuário desativado")

	return resumo, nil
}

// ReativarUsuario religa só a conta. Dependentes desativados na
// cascata não voltam sozinhos; o dono reativa o que quiser.
func (s *Service) ReativarUsuario(ctx context.Context, id string) error {
	if err := s.store.ReativarUsuario(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("usuario_id", id).Msg("usuário reativado")
	return nil
}

// RemoverUsuario apaga a conta em definitivo, com a mesma cascata da
// desativação. O ator não pode remover a si próprio; essa checagem
// vem antes de qualquer consulta.
func (s *Service) RemoverUsuario(ctx context.Context, id, actorID string) (*CascataResumo, error) {
	if id == actorID {
		return nil, ErrAutoExclusao
	}

	resumo, err := s.store.RemoverUsuario(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("usuario_id", resumo.UsuarioID).
		Str("role", resumo.Role).
		Int64("imoveis_desativados", resumo.ImoveisDesativados).
		Int64("perfis_desativados", resumo.PerfisDesativados).
		Msg("usuário removido")

	return resumo, nil
}

// AprovarImovel publica o anúncio na vitrine e avisa o dono.
// Re-revisão é permitida: aprovar um aprovado é inofensivo.
func (s *Service) AprovarImovel(ctx context.Context, id string) error {
	i, err := s.store.GetImovel(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.SetStatusImovel(ctx, id, imovel.StatusAprovado, nil); err != nil {
		return err
	}

	s.logger.Info().Str("imovel_id", id).Msg("imóvel aprovado")
	s.notificarDono(ctx, i, notify.Event{
		Tipo:         notify.EventoImovelAprovado,
		Assunto:      "Seu imóvel foi aprovado!",
		PreCabecalho: "Anúncio publicado na vitrine",
		Corpo:        "<p>Seu imóvel <strong>" + i.Titulo + "</strong> foi aprovado e já aparece na vitrine do portal.</p>",
		BotaoTexto:   "Ver anúncio",
		BotaoURL:     s.portalURL + "/imoveis/" + i.ID,
	})
	return nil
}

// RecusarImovel tira o anúncio da vitrine, guarda o motivo e avisa o
// dono. Vale também para despublicar um aprovado.
func (s *Service) RecusarImovel(ctx context.Context, id string, motivo *string) error {
	i, err := s.store.GetImovel(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.SetStatusImovel(ctx, id, imovel.StatusRecusado, motivo); err != nil {
		return err
	}

	corpo := "<p>Seu imóvel <strong>" + i.Titulo + "</strong> não foi aprovado para a vitrine.</p>"
	if motivo != nil && *motivo != "" {
		corpo += "<p><strong>Motivo:</strong> " + *motivo + "</p>"
	}
	corpo += "<p>Ajuste o anúncio e aguarde nova revisão.</p>"

	s.logger.Info().Str("imovel_id", id).Msg("imóvel recusado")
	s.notificarDono(ctx, i, notify.Event{
		Tipo:         notify.EventoImovelRecusado,
		Assunto:      "Sobre a revisão do seu imóvel",
		PreCabecalho: "Anúncio precisa de ajustes",
		Corpo:        corpo,
	})
	return nil
}

// notificarDono completa o evento com os dados do proprietário; dono
// não encontrado só gera log, nunca falha a operação.
func (s *Service) notificarDono(ctx context.Context, i *imovel.Imovel, ev notify.Event) {
	dono, err := s.store.GetUsuario(ctx, i.ProprietarioID)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("imovel_id", i.ID).
			Str("proprietario_id", i.ProprietarioID).
			Msg("dono do imóvel não encontrado para aviso")
		return
	}
	ev.Para = dono.Email
	ev.Nome = dono.Nome
	s.notifier.Dispatch(ev)
}
