// Package cartview projects cart state into a surface-independent view and
// binds user controls back to cart mutations.
package cartview

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront/internal/domain/cart"
)

// DefaultCurrencySymbol is used when no symbol is configured
const DefaultCurrencySymbol = "€"

// EmptyMessage is the placeholder shown instead of the item list
const EmptyMessage = "Your cart is empty"

// View is everything a surface needs to draw the cart
type View struct {
	Count int        `json:"count"`
	Empty bool       `json:"empty"`
	Items []ItemView `json:"items"`
	Total string     `json:"total"`
}

// ItemView is one drawn line with its controls
type ItemView struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Image    string    `json:"image"`
	Price    string    `json:"price"`
	Quantity int       `json:"quantity"`
	Controls []Control `json:"controls"`
}

// Control describes one interactive element of a line
type Control struct {
	Action Action `json:"action"`
	ItemID string `json:"item_id"`
	Label  string `json:"label"`
}

// Project builds the view for items. It has no side effects.
func Project(items []cart.LineItem, symbol string) View {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}

	view := View{
		Count: cart.CountItems(items),
		Empty: len(items) == 0,
		Items: make([]ItemView, 0, len(items)),
		Total: FormatPrice(cart.CalculateTotal(items), symbol),
	}

	for _, item := range items {
		view.Items = append(view.Items, ItemView{
			ID:       item.ID,
			Name:     item.Name,
			Image:    item.Image,
			Price:    FormatPrice(item.Price, symbol),
			Quantity: item.Quantity,
			Controls: []Control{
				{Action: ActionDecrement, ItemID: item.ID, Label: "-"},
				{Action: ActionSetQuantity, ItemID: item.ID, Label: "qty"},
				{Action: ActionIncrement, ItemID: item.ID, Label: "+"},
				{Action: ActionRemove, ItemID: item.ID, Label: "×"},
			},
		})
	}

	return view
}

// FormatPrice renders an amount with two decimals and the currency symbol
func FormatPrice(amount decimal.Decimal, symbol string) string {
	return symbol + amount.StringFixed(2)
}
