package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/altilhabela/portal/internal/storage"
)

// Limite de 10 MB por arquivo, o bastante para fotos de anúncio.
const maxUploadBytes = 10 << 20

var pastasValidas = map[string]bool{
	storage.PastaImoveis:   true,
	storage.PastaParceiros: true,
	storage.PastaNoticias:  true,
	storage.PastaPerfis:    true,
}

// upload recebe um arquivo multipart e devolve a URL pública. O campo
// "pasta" escolhe o destino lógico (imoveis, parceiros, noticias,
// perfis).
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "arquivo inválido ou grande demais", nil)
		return
	}

	pasta := r.FormValue("pasta")
	if !pastasValidas[pasta] {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "pasta inválida", nil)
		return
	}

	arquivo, header, err := r.FormFile("arquivo")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "campo arquivo ausente", nil)
		return
	}
	defer arquivo.Close()

	corpo, err := io.ReadAll(arquivo)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "falha ao ler o arquivo", nil)
		return
	}

	resultado, err := h.storage.Upload(r.Context(), storage.Objeto{
		Pasta:       pasta,
		Nome:        storage.NovoNome(header.Filename),
		Corpo:       corpo,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{
		"chave": resultado.Chave,
		"url":   resultado.URL,
	})
}

// removerUpload apaga um objeto pela chave devolvida no upload. A
// remoção no bucket é idempotente.
func (h *Handler) removerUpload(w http.ResponseWriter, r *http.Request) {
	chave := r.URL.Query().Get("chave")
	pasta, _, ok := strings.Cut(chave, "/")
	if !ok || !pastasValidas[pasta] {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "chave inválida", nil)
		return
	}

	if err := h.storage.Delete(r.Context(), chave); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Arquivo removido"})
}
