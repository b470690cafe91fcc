package candidatura

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound é retornado quando a candidatura não existe.
	ErrNotFound = errors.New("candidatura não encontrada")
	// ErrCandidaturaPendente indica candidatura pendente já aberta para o e-mail.
	ErrCandidaturaPendente = errors.New("já existe uma candidatura pendente para este email")
	// ErrEmailJaRegistrado indica que o e-mail já pertence a um usuário do portal.
	ErrEmailJaRegistrado = errors.New("este email já está cadastrado no portal")
	// ErrTipoInvalido indica tipo de candidatura desconhecido.
	ErrTipoInvalido = errors.New("tipo de candidatura inválido")
)

// Tipo identifica a trilha da candidatura.
type Tipo string

const (
	TipoMembro    Tipo = "membro"
	TipoParceiro  Tipo = "parceiro"
	TipoAssociado Tipo = "associado"
)

// ParseTipo valida o tipo vindo da URL.
func ParseTipo(value string) (Tipo, error) {
	switch Tipo(strings.ToLower(strings.TrimSpace(value))) {
	case TipoMembro:
		return TipoMembro, nil
	case TipoParceiro:
		return TipoParceiro, nil
	case TipoAssociado:
		return TipoAssociado, nil
	default:
		return "", ErrTipoInvalido
	}
}

func (t Tipo) String() string { return string(t) }

// Status do fluxo de aprovação.
type Status string

const (
	StatusPendente Status = "pendente"
	StatusAprovado Status = "aprovado"
	StatusRecusado Status = "recusado"
)

// Candidatura guarda as três trilhas numa tabela única; os campos
// específicos de cada trilha ficam nulos nas demais.
type Candidatura struct {
	ID           string    `json:"id"`
	Tipo         Tipo      `json:"tipo"`
	Nome         string    `json:"nome"`
	Email        string    `json:"email"`
	Telefone     string    `json:"telefone"`
	Mensagem     *string   `json:"mensagem,omitempty"`
	Status       Status    `json:"status"`
	MotivoRecusa *string   `json:"motivo_recusa,omitempty"`
	CriadoEm     time.Time `json:"created_at"`

	// Trilha membro (locador de imóveis).
	Endereco            *string `json:"endereco,omitempty"`
	NumImoveis          *int    `json:"num_imoveis,omitempty"`
	LinkImovel          *string `json:"link_imovel,omitempty"`
	ExperienciaLocacao  *string `json:"experiencia_locacao,omitempty"`
	RendaMensalEstimada *string `json:"renda_mensal_estimada,omitempty"`
	PossuiAlvara        *bool   `json:"possui_alvara,omitempty"`

	// Trilha parceiro (comércio e serviços).
	NomeEmpresa           *string `json:"nome_empresa,omitempty"`
	Categoria             *string `json:"categoria,omitempty"`
	Website               *string `json:"website,omitempty"`
	CNPJ                  *string `json:"cnpj,omitempty"`
	TempoOperacao         *string `json:"tempo_operacao,omitempty"`
	ServicosOferecidos    *string `json:"servicos_oferecidos,omitempty"`
	CapacidadeAtendimento *string `json:"capacidade_atendimento,omitempty"`

	// Trilha associado (pessoa física).
	Ocupacao               *string `json:"ocupacao,omitempty"`
	MotivoInteresse        *string `json:"motivo_interesse,omitempty"`
	EmpresaTrabalho        *string `json:"empresa_trabalho,omitempty"`
	Linkedin               *string `json:"linkedin,omitempty"`
	ContribuicaoPretendida *string `json:"contribuicao_pretendida,omitempty"`
	Disponibilidade        *string `json:"disponibilidade,omitempty"`
}
