package domain

import "strings"

// Escopos de sessão: carrinho e favoritos são separados por usuário
// autenticado e por visitante.
const (
	userScopePrefix  = "user:"
	guestScopePrefix = "guest:"
)

// UserScope retorna o escopo de sessão de um usuário autenticado.
func UserScope(userID string) string {
	return userScopePrefix + userID
}

// GuestScope retorna o escopo de sessão de um visitante.
func GuestScope(sessionID string) string {
	return guestScopePrefix + sessionID
}

// IsGuestScope informa se o escopo pertence a um visitante.
func IsGuestScope(scope string) bool {
	return strings.HasPrefix(scope, guestScopePrefix)
}
