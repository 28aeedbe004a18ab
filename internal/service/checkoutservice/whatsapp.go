package checkoutservice

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"vitrine/internal/domain"
)

var paymentLabels = map[domain.PaymentMethod]string{
	domain.PaymentPix:    "Pix",
	domain.PaymentCredit: "Cartão de crédito",
	domain.PaymentDebit:  "Cartão de débito",
}

// WhatsAppURL monta o link wa.me com o resumo do pedido. Retorna vazio se a
// loja não tiver número configurado.
func WhatsAppURL(settings domain.StoreSettings, order domain.Order) string {
	number := domain.OnlyDigits(settings.WhatsAppNumber)
	if number == "" {
		return ""
	}
	// QueryEscape codifica espaço como "+", que o wa.me não converte de volta.
	text := strings.ReplaceAll(url.QueryEscape(OrderMessage(settings, order)), "+", "%20")
	return "https://wa.me/" + number + "?text=" + text
}

// OrderMessage é o texto enviado à loja pelo WhatsApp.
func OrderMessage(settings domain.StoreSettings, order domain.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Olá, %s! Acabei de fazer o pedido #%s.\n\n", settings.StoreName, shortID(order.ID))
	for _, it := range order.Items {
		name := it.Name
		if it.Size != "" {
			name = fmt.Sprintf("%s (%s)", it.Name, it.Size)
		}
		fmt.Fprintf(&b, "%dx %s - %s\n", it.Quantity, name, FormatBRL(it.LineTotal))
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", FormatBRL(order.Subtotal))
	if order.Shipping.IsZero() {
		b.WriteString("Frete: grátis\n")
	} else {
		fmt.Fprintf(&b, "Frete: %s\n", FormatBRL(order.Shipping))
	}
	fmt.Fprintf(&b, "Total: %s\n", FormatBRL(order.Total))
	fmt.Fprintf(&b, "Pagamento: %s\n\n", paymentLabels[order.PaymentMethod])

	c := order.Customer
	fmt.Fprintf(&b, "Nome: %s\n", c.Name)
	address := fmt.Sprintf("%s, %s", c.Address.Street, c.Address.Number)
	if c.Address.Complement != "" {
		address += " - " + c.Address.Complement
	}
	fmt.Fprintf(&b, "Endereço: %s, %s/%s, CEP %s", address, c.Address.City, c.Address.State, c.Address.ZipCode)
	return b.String()
}

// FormatBRL formata um valor como moeda brasileira: R$ 1.234,56.
func FormatBRL(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	fixed := v.StringFixed(2)
	intPart, frac := fixed[:len(fixed)-3], fixed[len(fixed)-2:]

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, grouped.String(), frac)
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}
