package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashVerify(t *testing.T) {
	hash, err := Hash("senha-forte-123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	ok, err := Verify("senha-forte-123", hash)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("senha correta deveria conferir")
	}

	ok, err = Verify("outra-senha", hash)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("senha errada não deveria conferir")
	}
}

func TestGenerateTempPassword(t *testing.T) {
	a, err := GenerateTempPassword()
	if err != nil {
		t.Fatalf("GenerateTempPassword: %v", err)
	}
	b, err := GenerateTempPassword()
	if err != nil {
		t.Fatalf("GenerateTempPassword: %v", err)
	}

	if len(a) < 16 {
		t.Fatalf("senha temporária curta demais: %d", len(a))
	}
	if a == b {
		t.Fatal("senhas temporárias deveriam variar")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	raw, hashed, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if raw == "" || hashed == "" {
		t.Fatal("token e hash não podem ser vazios")
	}
	if raw == hashed {
		t.Fatal("hash não pode ser igual ao token em claro")
	}
	if HashRefreshToken(raw) != hashed {
		t.Fatal("hash deveria ser determinístico sobre o token")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("segredo-de-teste-com-32-caracteres!", time.Minute)

	token, jti, err := m.GenerateAccessToken("user-1", []string{"membro"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if jti == "" {
		t.Fatal("jti vazio")
	}

	claims, err := m.ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject esperado user-1, recebido %q", claims.Subject)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "membro" {
		t.Fatalf("roles inesperadas: %v", claims.Roles)
	}
	if claims.Issuer != tokenIssuer {
		t.Fatalf("issuer esperado %q, recebido %q", tokenIssuer, claims.Issuer)
	}
	if len(claims.Audience) != 1 || claims.Audience[0] != tokenAudience {
		t.Fatalf("audience inesperada: %v", claims.Audience)
	}
}

func TestJWTDeOutroEmissor(t *testing.T) {
	m := NewJWTManager("segredo-de-teste-com-32-caracteres!", time.Minute)

	forasteiro := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "outro-sistema",
		Subject:   "user-1",
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	signed, err := forasteiro.SignedString([]byte("segredo-de-teste-com-32-caracteres!"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	if _, err := m.ParseAndValidate(signed); err == nil {
		t.Fatal("token de outro emissor deveria ser rejeitado")
	}
}

func TestJWTExpirado(t *testing.T) {
	m := NewJWTManager("segredo-de-teste-com-32-caracteres!", -time.Minute)

	token, _, err := m.GenerateAccessToken("user-1", nil)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := m.ParseAndValidate(token); err == nil {
		t.Fatal("token expirado deveria ser rejeitado")
	}
}

func TestJWTOutroSegredo(t *testing.T) {
	a := NewJWTManager("segredo-de-teste-com-32-caracteres!", time.Minute)
	b := NewJWTManager("outro-segredo-tambem-com-32-chars!!", time.Minute)

	token, _, err := a.GenerateAccessToken("user-1", nil)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := b.ParseAndValidate(token); err == nil {
		t.Fatal("assinatura de outro segredo deveria ser rejeitada")
	}
}
