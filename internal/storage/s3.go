package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/altilhabela/portal/internal/config"
)

// S3Store persiste objetos num endpoint compatível com S3 (R2 etc.)
// assinando as requisições com SigV4, sem SDK.
type S3Store struct {
	cfg    config.StorageConfig
	client *http.Client
}

// NewS3Store valida a configuração e cria o store.
func NewS3Store(cfg config.StorageConfig) (*S3Store, error) {
	switch {
	case cfg.Endpoint == "":
		return nil, errors.New("storage: endpoint ausente")
	case !strings.HasPrefix(cfg.Endpoint, "http://") && !strings.HasPrefix(cfg.Endpoint, "https://"):
		return nil, errors.New("storage: endpoint deve incluir protocolo http/https")
	case cfg.Region == "":
		return nil, errors.New("storage: região ausente")
	case cfg.Bucket == "":
		return nil, errors.New("storage: bucket ausente")
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return nil, errors.New("storage: credenciais ausentes")
	}

	return &S3Store{
		cfg:    cfg,
		client: &http.Client{Timeout: 20 * time.Second},
	}, nil
}

// Upload envia o objeto e devolve a URL pública.
func (s *S3Store) Upload(ctx context.Context, obj Objeto) (*Resultado, error) {
	chave := strings.TrimLeft(strings.TrimSpace(obj.Pasta+"/"+obj.Nome), "/")
	if obj.Pasta == "" || obj.Nome == "" {
		return nil, errors.New("storage: pasta e nome do objeto obrigatórios")
	}
	if len(obj.Corpo) == 0 {
		return nil, errors.New("storage: corpo vazio")
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req, err := s.novaRequisicao(ctx, http.MethodPut, chave, obj.Corpo)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(obj.Corpo))

	if err := s.executar(req); err != nil {
		return nil, err
	}

	return &Resultado{Chave: chave, URL: s.urlPublica(chave)}, nil
}

// Delete remove o objeto pela chave. Objeto inexistente não é erro no
// protocolo S3; a remoção é idempotente.
func (s *S3Store) Delete(ctx context.Context, chave string) error {
	chave = strings.TrimLeft(strings.TrimSpace(chave), "/")
	if chave == "" {
		return errors.New("storage: chave obrigatória")
	}

	req, err := s.novaRequisicao(ctx, http.MethodDelete, chave, nil)
	if err != nil {
		return err
	}
	return s.executar(req)
}

func (s *S3Store) novaRequisicao(ctx context.Context, method, chave string, corpo []byte) (*http.Request, error) {
	endpoint := strings.TrimRight(s.cfg.Endpoint, "/")
	escapada := (&url.URL{Path: chave}).EscapedPath()
	alvo := fmt.Sprintf("%s/%s/%s", endpoint, s.cfg.Bucket, escapada)

	var reader io.Reader
	if corpo != nil {
		reader = bytes.NewReader(corpo)
	}

	req, err := http.NewRequestWithContext(ctx, method, alvo, reader)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(corpo)
	assinarSigV4(req, s.cfg, hex.EncodeToString(sum[:]), time.Now().UTC())
	return req, nil
}

func (s *S3Store) executar(req *http.Request) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("storage: %s falhou (%d): %s", req.Method, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (s *S3Store) urlPublica(chave string) string {
	escapada := (&url.URL{Path: chave}).EscapedPath()
	if s.cfg.PublicURL != "" {
		return strings.TrimRight(s.cfg.PublicURL, "/") + "/" + escapada
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, escapada)
}
