package checkoutservice

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
)

const (
	minCustomerNameLen = 3
	minPhoneDigits     = 10
	maxPhoneDigits     = 13
	zipCodeDigits      = 8
)

// normalizeCustomer valida os dados de contato e entrega, devolvendo-os
// normalizados (telefone e CEP só com dígitos, UF em maiúsculas).
func normalizeCustomer(c domain.Customer) (domain.Customer, error) {
	out := domain.Customer{
		Name:  collapse(c.Name),
		Phone: domain.OnlyDigits(c.Phone),
		Address: domain.Address{
			ZipCode:      domain.OnlyDigits(c.Address.ZipCode),
			Street:       collapse(c.Address.Street),
			Number:       strings.TrimSpace(c.Address.Number),
			Complement:   collapse(c.Address.Complement),
			Neighborhood: collapse(c.Address.Neighborhood),
			City:         collapse(c.Address.City),
			State:        strings.ToUpper(strings.TrimSpace(c.Address.State)),
		},
	}

	if utf8.RuneCountInString(out.Name) < minCustomerNameLen {
		return out, apperror.NewValidationError("Informe o nome completo.")
	}
	if n := len(out.Phone); n < minPhoneDigits || n > maxPhoneDigits {
		return out, apperror.NewValidationError("Informe um telefone válido com DDD.")
	}
	if email := strings.TrimSpace(c.Email); email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil {
			return out, apperror.NewValidationError("E-mail inválido.")
		}
		out.Email = addr.Address
	}
	if len(out.Address.ZipCode) != zipCodeDigits {
		return out, apperror.NewValidationError("O CEP deve ter 8 dígitos.")
	}
	if out.Address.Street == "" || out.Address.Number == "" {
		return out, apperror.NewValidationError("Informe rua e número do endereço de entrega.")
	}
	if out.Address.City == "" {
		return out, apperror.NewValidationError("Informe a cidade.")
	}
	if !isStateCode(out.Address.State) {
		return out, apperror.NewValidationError("A UF deve ter 2 letras.")
	}
	return out, nil
}

func isStateCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
