package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"vitrine/internal/domain"
)

// GuestSessionHeader carrega o identificador de sessão de visitantes.
// Quando ausente, um novo ID é gerado e devolvido no mesmo header.
const GuestSessionHeader = "X-Guest-Session"

const maxGuestIDLen = 64

// Session identifica a quem pertencem carrinho e favoritos.
type Session struct {
	Scope  string
	UserID string // vazio para visitantes
}

// Guest informa se a sessão é de um visitante.
func (s Session) Guest() bool {
	return s.UserID == ""
}

// ResolveSession define o escopo da requisição: o usuário autenticado (via
// OptionalAuth/Authenticate) ou a sessão de visitante.
func ResolveSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var s Session
			if claims, ok := GetUserClaimsFromContext(r.Context()); ok {
				s = Session{Scope: domain.UserScope(claims.UserID), UserID: claims.UserID}
			} else {
				guestID := strings.TrimSpace(r.Header.Get(GuestSessionHeader))
				if guestID == "" || len(guestID) > maxGuestIDLen {
					guestID = uuid.NewString()
				}
				w.Header().Set(GuestSessionHeader, guestID)
				s = Session{Scope: domain.GuestScope(guestID)}
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), SessionKey, s)))
		})
	}
}

// SessionFromContext retorna a sessão resolvida por ResolveSession.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(SessionKey).(Session)
	return s, ok
}
