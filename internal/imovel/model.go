package imovel

import (
	"errors"
	"time"
)

var (
	// ErrNotFound é retornado quando o imóvel não existe ou não
	// pertence ao solicitante.
	ErrNotFound = errors.New("imóvel não encontrado")
)

// StatusAprovacao é o estado de revisão do anúncio.
type StatusAprovacao string

const (
	StatusPendente StatusAprovacao = "pendente"
	StatusAprovado StatusAprovacao = "aprovado"
	StatusRecusado StatusAprovacao = "recusado"
)

// Imovel é um anúncio de locação de temporada de um membro.
type Imovel struct {
	ID               string   `json:"id"`
	ProprietarioID   string   `json:"proprietario_id"`
	Titulo           string   `json:"titulo"`
	Descricao        string   `json:"descricao"`
	Tipo             string   `json:"tipo"`
	Regiao           string   `json:"regiao"`
	EnderecoCompleto string   `json:"endereco_completo"`
	PrecoDiaria      float64  `json:"preco_diaria"`
	PrecoSemanal     *float64 `json:"preco_semanal,omitempty"`
	PrecoMensal      *float64 `json:"preco_mensal,omitempty"`
	NumQuartos       int      `json:"num_quartos"`
	NumBanheiros     int      `json:"num_banheiros"`
	Capacidade       int      `json:"capacidade"`
	AreaM2           *float64 `json:"area_m2,omitempty"`

	PossuiPiscina       bool `json:"possui_piscina"`
	PossuiChurrasqueira bool `json:"possui_churrasqueira"`
	PossuiWifi          bool `json:"possui_wifi"`
	AceitaPets          bool `json:"aceita_pets"`
	VistaMar            bool `json:"vista_mar"`
	ArCondicionado      bool `json:"ar_condicionado"`

	Fotos       []string `json:"fotos"`
	VideoURL    *string  `json:"video_url,omitempty"`
	LinkBooking *string  `json:"link_booking,omitempty"`
	LinkAirbnb  *string  `json:"link_airbnb,omitempty"`

	StatusAprovacao StatusAprovacao `json:"status_aprovacao"`
	MotivoRecusa    *string         `json:"motivo_recusa,omitempty"`
	Ativo           bool            `json:"ativo"`
	Destaque        bool            `json:"destaque"`
	Visualizacoes   int64           `json:"visualizacoes"`
	CliquesLink     int64           `json:"cliques_link"`

	CriadoEm     time.Time `json:"created_at"`
	AtualizadoEm time.Time `json:"updated_at"`
}

// Filtro da vitrine pública.
type Filtro struct {
	Tipo          *string
	Regiao        *string
	PrecoMax      *float64
	NumQuartos    *int
	PossuiPiscina *bool
	AceitaPets    *bool
}

// Patch é o conjunto fechado de campos que o proprietário pode editar.
// Status de aprovação, destaque e contadores só mudam por operações
// dedicadas.
type Patch struct {
	Titulo           *string
	Descricao        *string
	Tipo             *string
	Regiao           *string
	EnderecoCompleto *string
	PrecoDiaria      *float64
	PrecoSemanal     *float64
	PrecoMensal      *float64
	NumQuartos       *int
	NumBanheiros     *int
	Capacidade       *int
	AreaM2           *float64

	PossuiPiscina       *bool
	PossuiChurrasqueira *bool
	PossuiWifi          *bool
	AceitaPets          *bool
	VistaMar            *bool
	ArCondicionado      *bool

	Fotos       []string
	VideoURL    *string
	LinkBooking *string
	LinkAirbnb  *string
}
