package cartservice

import (
	"github.com/shopspring/decimal"

	"vitrine/internal/domain"
)

// As funções deste arquivo são o redutor do carrinho: recebem o estado atual
// e devolvem um novo estado, sem alterar o recebido. O total é sempre
// recalculado a partir das linhas.

// AddItem incrementa a linha (produto, tamanho) ou acrescenta uma nova linha
// com quantidade 1, capturando nome, preço e imagem atuais do produto.
func AddItem(c domain.Cart, p domain.Product, size string) domain.Cart {
	items := copyItems(c.Items)
	key := domain.CartKey{ProductID: p.ID, Size: size}

	for i := range items {
		if items[i].Key() == key {
			items[i].Quantity++
			return withTotal(items)
		}
	}

	items = append(items, domain.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Size:      size,
		Quantity:  1,
	})
	return withTotal(items)
}

// UpdateQuantity define a quantidade da linha como max(0, quantity).
// Quantidade zero remove a linha.
func UpdateQuantity(c domain.Cart, key domain.CartKey, quantity int) domain.Cart {
	if quantity <= 0 {
		return RemoveItem(c, key)
	}
	items := copyItems(c.Items)
	for i := range items {
		if items[i].Key() == key {
			items[i].Quantity = quantity
		}
	}
	return withTotal(items)
}

// RemoveItem remove a linha independentemente da quantidade.
func RemoveItem(c domain.Cart, key domain.CartKey) domain.Cart {
	items := make([]domain.CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		if it.Key() != key {
			items = append(items, it)
		}
	}
	return withTotal(items)
}

// Merge junta dois carrinhos: as linhas de first vêm antes, e uma linha de
// second com a mesma chave soma sua quantidade à de first.
func Merge(first, second domain.Cart) domain.Cart {
	items := make([]domain.CartItem, 0, len(first.Items)+len(second.Items))
	items = append(items, first.Items...)
	for _, it := range second.Items {
		merged := false
		for i := range items {
			if items[i].Key() == it.Key() {
				items[i].Quantity += it.Quantity
				merged = true
				break
			}
		}
		if !merged {
			items = append(items, it)
		}
	}
	return withTotal(items)
}

// Empty retorna um carrinho vazio com total zero.
func Empty() domain.Cart {
	return domain.Cart{Items: []domain.CartItem{}, Total: decimal.Zero}
}

func withTotal(items []domain.CartItem) domain.Cart {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return domain.Cart{Items: items, Total: total}
}

func copyItems(in []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(in), len(in)+1)
	copy(out, in)
	return out
}
