package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/altilhabela/portal/internal/config"
)

// assinarSigV4 aplica a assinatura AWS SigV4 à requisição. São
// assinados host, x-amz-content-sha256 e x-amz-date; Content-Type fica
// de fora para a assinatura não depender da ordem de montagem dos
// cabeçalhos no chamador.
func assinarSigV4(req *http.Request, cfg config.StorageConfig, payloadHash string, now time.Time) {
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")

	req.Header.Set("x-amz-content-sha256", payloadHash)
	req.Header.Set("x-amz-date", amzDate)
	req.Header.Set("Host", req.URL.Host)

	assinados := map[string]string{
		"host":                 req.URL.Host,
		"x-amz-content-sha256": payloadHash,
		"x-amz-date":           amzDate,
	}

	nomes := make([]string, 0, len(assinados))
	for nome := range assinados {
		nomes = append(nomes, nome)
	}
	sort.Strings(nomes)

	var canonicos strings.Builder
	for _, nome := range nomes {
		canonicos.WriteString(nome)
		canonicos.WriteString(":")
		canonicos.WriteString(strings.TrimSpace(assinados[nome]))
		canonicos.WriteString("\n")
	}
	signedHeaders := strings.Join(nomes, ";")

	canonicalRequest := strings.Join([]string{
		req.Method,
		caminhoCanonico(req.URL.Path),
		req.URL.Query().Encode(),
		canonicos.String(),
		signedHeaders,
		payloadHash,
	}, "\n")

	hashCanonico := sha256.Sum256([]byte(canonicalRequest))
	escopo := fmt.Sprintf("%s/%s/s3/aws4_request", dateStamp, cfg.Region)

	stringToSign := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		escopo,
		hex.EncodeToString(hashCanonico[:]),
	}, "\n")

	chave := chaveDeAssinatura(cfg.SecretKey, dateStamp, cfg.Region)
	assinatura := hex.EncodeToString(hmacSHA256(chave, []byte(stringToSign)))

	req.Header.Set("Authorization", fmt.Sprintf(
		"AWS4-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		cfg.AccessKey, escopo, signedHeaders, assinatura,
	))
}

func caminhoCanonico(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var b strings.Builder
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.', c == '~', c == '/':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func chaveDeAssinatura(secret, dateStamp, region string) []byte {
	k := hmacSHA256([]byte("AWS4"+secret), []byte(dateStamp))
	k = hmacSHA256(k, []byte(region))
	k = hmacSHA256(k, []byte("s3"))
	return hmacSHA256(k, []byte("aws4_request"))
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
