package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/altilhabela/portal/internal/auth"
	"github.com/altilhabela/portal/internal/usuario"
)

type contextKey string

const (
	ContextKeySubject contextKey = "subject"
	ContextKeyRoles   contextKey = "roles"
)

// Auth valida o JWT de acesso e injeta as claims no contexto.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "AUTH", "token ausente")
				return
			}

			claims, err := jwtManager.ParseAndValidate(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "AUTH", "token inválido")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySubject, claims.Subject)
			ctx = context.WithValue(ctx, ContextKeyRoles, claims.Roles)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject recupera o id do usuário autenticado.
func GetSubject(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeySubject).(string)
	return val
}

// GetRoles recupera os papéis do usuário autenticado.
func GetRoles(ctx context.Context) []string {
	val, _ := ctx.Value(ContextKeyRoles).([]string)
	return val
}

// HasRole verifica se o contexto carrega o papel.
func HasRole(ctx context.Context, role usuario.Role) bool {
	for _, r := range GetRoles(ctx) {
		if strings.EqualFold(r, role.String()) {
			return true
		}
	}
	return false
}

// RequireRoles exige pelo menos um dos papéis informados.
func RequireRoles(roles ...usuario.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, role := range roles {
				if HasRole(r.Context(), role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "FORBIDDEN", "acesso não autorizado")
		})
	}
}

// RequireAdmin restringe ao papel admin.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRoles(usuario.RoleAdmin)(next)
}

// RequireMembro restringe a membros (admin também passa).
func RequireMembro(next http.Handler) http.Handler {
	return RequireRoles(usuario.RoleMembro, usuario.RoleAdmin)(next)
}

// RequireParceiro restringe a parceiros (admin também passa).
func RequireParceiro(next http.Handler) http.Handler {
	return RequireRoles(usuario.RoleParceiro, usuario.RoleAdmin)(next)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
