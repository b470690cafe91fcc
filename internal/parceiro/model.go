package parceiro

import (
	"errors"
	"time"
)

var (
	// ErrNotFound é retornado quando o perfil não existe.
	ErrNotFound = errors.New("perfil de parceiro não encontrado")
	// ErrPerfilJaExiste indica que o usuário já tem perfil (relação 1:1).
	ErrPerfilJaExiste = errors.New("usuário já possui perfil de parceiro")
)

// PerfilParceiro é a página de um comércio ou serviço parceiro.
// Diferente dos imóveis, perfis não passam por aprovação: quem chega
// aqui já foi aprovado na candidatura.
type PerfilParceiro struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	NomeEmpresa string  `json:"nome_empresa"`
	Descricao   string  `json:"descricao"`
	Categoria   string  `json:"categoria"`
	Telefone    string  `json:"telefone"`
	Endereco    *string `json:"endereco,omitempty"`
	Website     *string `json:"website,omitempty"`
	Instagram   *string `json:"instagram,omitempty"`
	Facebook    *string `json:"facebook,omitempty"`
	Whatsapp    *string `json:"whatsapp,omitempty"`

	Fotos                []string `json:"fotos"`
	VideoURL             *string  `json:"video_url,omitempty"`
	HorarioFuncionamento *string  `json:"horario_funcionamento,omitempty"`
	ServicosOferecidos   *string  `json:"servicos_oferecidos,omitempty"`
	PrecoMedio           *string  `json:"preco_medio,omitempty"`
	AceitaCartao         bool     `json:"aceita_cartao"`
	Delivery             bool     `json:"delivery"`

	Destaque bool `json:"destaque"`
	Ativo    bool `json:"ativo"`

	CriadoEm     time.Time `json:"created_at"`
	AtualizadoEm time.Time `json:"updated_at"`
}

// Patch é o conjunto fechado de campos editáveis pelo parceiro.
type Patch struct {
	NomeEmpresa *string
	Descricao   *string
	Categoria   *string
	Telefone    *string
	Endereco    *string
	Website     *string
	Instagram   *string
	Facebook    *string
	Whatsapp    *string

	Fotos                []string
	VideoURL             *string
	HorarioFuncionamento *string
	ServicosOferecidos   *string
	PrecoMedio           *string
	AceitaCartao         *bool
	Delivery             *bool
}
