package middleware

import (
	"context"
	"net/http"
	"strings"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/response"
	"vitrine/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto do pacote.
// Um tipo próprio evita colisão com chaves string de outros pacotes.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
	SessionKey
)

// UserClaims representa os dados do usuário extraídos do token JWT,
// que serão anexados ao contexto.
type UserClaims struct {
	UserID string
	Role   domain.UserRole
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// bearerToken extrai o token do header Authorization: Bearer <token>.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") || len(h) <= len("Bearer ") {
		return "", false
	}
	return h[len("Bearer "):], true
}

// Authenticate exige um JWT válido e anexa as claims ao contexto.
func Authenticate(tokenSvc TokenService, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				response.Error(w, r, log, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado."))
				return
			}

			claims, err := tokenSvc.ValidateToken(raw)
			if err != nil {
				response.Error(w, r, log, apperror.NewUnauthorizedError("Token inválido ou expirado."))
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth anexa as claims quando há um token válido e segue adiante
// sem erro caso contrário. Usado nas rotas abertas a visitantes.
func OptionalAuth(tokenSvc TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw, ok := bearerToken(r); ok {
				if claims, err := tokenSvc.ValidateToken(raw); err == nil {
					r = r.WithContext(withClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withClaims(ctx context.Context, claims *token.CustomClaims) context.Context {
	return context.WithValue(ctx, UserClaimsKey, UserClaims{
		UserID: claims.UserID,
		Role:   domain.UserRole(claims.Role),
	})
}

// GetUserClaimsFromContext é uma função utilitária para extrair as claims no handler.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// RequireRole libera o acesso apenas aos papéis informados. Deve vir depois de Authenticate.
func RequireRole(log logger.Logger, requiredRoles ...domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, r, log, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			for _, role := range requiredRoles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Warn("Acesso negado por papel.", map[string]interface{}{"user_id": claims.UserID, "role": claims.Role, "path": r.URL.Path})
			response.Error(w, r, log, apperror.NewForbiddenError("Você não tem a permissão necessária."))
		})
	}
}
