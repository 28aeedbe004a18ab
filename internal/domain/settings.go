package domain

import "github.com/shopspring/decimal"

// StoreSettings são as configurações da loja editáveis pelo admin.
type StoreSettings struct {
	StoreName        string          `json:"store_name"`
	WhatsAppNumber   string          `json:"whatsapp_number"` // apenas dígitos, com DDI (ex: 5511999998888)
	ContactEmail     string          `json:"contact_email,omitempty"`
	ShippingFee      decimal.Decimal `json:"shipping_fee"`
	FreeShippingFrom decimal.Decimal `json:"free_shipping_from"` // zero desliga o frete grátis
}

// ShippingFor calcula o frete para o subtotal informado.
func (s StoreSettings) ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if s.FreeShippingFrom.IsPositive() && subtotal.GreaterThanOrEqual(s.FreeShippingFrom) {
		return decimal.Zero
	}
	return s.ShippingFee
}
