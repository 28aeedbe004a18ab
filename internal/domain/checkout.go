package domain

// CheckoutRequest é o payload de finalização de compra.
type CheckoutRequest struct {
	PaymentMethod PaymentMethod `json:"payment_method"`
	Customer      Customer      `json:"customer"`
}

// CheckoutResult traz o pedido criado e o link de atendimento via WhatsApp.
type CheckoutResult struct {
	Order       Order  `json:"order"`
	WhatsAppURL string `json:"whatsapp_url,omitempty"`
}
