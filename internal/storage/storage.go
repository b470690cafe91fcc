// Package storage guarda as fotos do portal (imóveis, perfis,
// parceiros e notícias) num bucket compatível com S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/altilhabela/portal/internal/util"
)

// Pastas lógicas do bucket, uma por tipo de mídia.
const (
	PastaImoveis   = "imoveis"
	PastaParceiros = "parceiros"
	PastaNoticias  = "noticias"
	PastaPerfis    = "perfis"
)

// Objeto é um arquivo a persistir.
type Objeto struct {
	Pasta       string
	Nome        string
	Corpo       []byte
	ContentType string
}

// Resultado descreve o arquivo persistido.
type Resultado struct {
	Chave string
	URL   string
}

// ObjectStore define o comportamento de guarda de mídias.
type ObjectStore interface {
	Upload(ctx context.Context, obj Objeto) (*Resultado, error)
	Delete(ctx context.Context, chave string) error
}

// NovoNome gera um nome único de objeto, preservando a extensão do
// nome original. O Upload prefixa a pasta lógica.
func NovoNome(nomeOriginal string) string {
	ext := ""
	if idx := strings.LastIndex(nomeOriginal, "."); idx >= 0 {
		ext = strings.ToLower(nomeOriginal[idx:])
	}
	return fmt.Sprintf("%s%s", util.NewID(), ext)
}

// NoopStore devolve erro em qualquer operação; usado quando o bucket
// não está configurado (ambiente local sem uploads).
type NoopStore struct{}

func (NoopStore) Upload(context.Context, Objeto) (*Resultado, error) {
	return nil, errors.New("storage: bucket não configurado")
}

func (NoopStore) Delete(context.Context, string) error {
	return errors.New("storage: bucket não configurado")
}
