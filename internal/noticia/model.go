package noticia

import (
	"errors"
	"time"
)

// ErrNotFound é retornado quando a notícia não existe.
var ErrNotFound = errors.New("notícia não encontrada")

// Noticia é um comunicado ou matéria publicada pela associação.
type Noticia struct {
	ID          string   `json:"id"`
	Titulo      string   `json:"titulo"`
	Subtitulo   *string  `json:"subtitulo,omitempty"`
	Conteudo    string   `json:"conteudo"`
	Resumo      *string  `json:"resumo,omitempty"`
	AutorID     string   `json:"autor_id"`
	AutorNome   string   `json:"autor_nome"`
	Categoria   string   `json:"categoria"`
	Fotos       []string `json:"fotos"`
	VideoURL    *string  `json:"video_url,omitempty"`
	LinkExterno *string  `json:"link_externo,omitempty"`
	Tags        []string `json:"tags"`
	Destaque    bool     `json:"destaque"`
	Publicada   bool     `json:"publicada"`

	CriadoEm     time.Time `json:"created_at"`
	AtualizadoEm time.Time `json:"updated_at"`
}

// Patch é o conjunto fechado de campos editáveis de uma notícia.
type Patch struct {
	Titulo      *string
	Subtitulo   *string
	Conteudo    *string
	Resumo      *string
	Categoria   *string
	Fotos       []string
	VideoURL    *string
	LinkExterno *string
	Tags        []string
	Destaque    *bool
	Publicada   *bool
}
