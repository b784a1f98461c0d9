package cart

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the session-scoped shopping cart. It stores quantities keyed by
// product id and nothing else; prices are always resolved against the live
// catalog so a stale session can never check out at an old price.
type Cart struct {
	Items map[uuid.UUID]decimal.Decimal `json:"items"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{Items: map[uuid.UUID]decimal.Decimal{}}
}

// Decode rebuilds a cart from its session blob. A corrupt blob yields an
// empty cart rather than an error so a bad session never locks a customer
// out of the storefront.
func Decode(blob []byte) *Cart {
	cart := NewCart()
	if len(blob) == 0 {
		return cart
	}
	if err := json.Unmarshal(blob, cart); err != nil || cart.Items == nil {
		return NewCart()
	}
	return cart
}

// Encode serializes the cart for session storage.
func (c *Cart) Encode() ([]byte, error) {
	return json.Marshal(c)
}

// Add accumulates quantity for the product, or replaces it when override is
// set. A resulting quantity of zero or less removes the line.
func (c *Cart) Add(productID uuid.UUID, qty decimal.Decimal, override bool) {
	current, ok := c.Items[productID]
	next := qty
	if ok && !override {
		next = current.Add(qty)
	}
	if next.Sign() <= 0 {
		delete(c.Items, productID)
		return
	}
	c.Items[productID] = next.Round(2)
}

// Remove drops the product line entirely.
func (c *Cart) Remove(productID uuid.UUID) {
	delete(c.Items, productID)
}

// Clear empties the cart in place.
func (c *Cart) Clear() {
	c.Items = map[uuid.UUID]decimal.Decimal{}
}

// Len is the number of distinct product lines.
func (c *Cart) Len() int {
	return len(c.Items)
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// QuantityTotal sums the quantities across all lines.
func (c *Cart) QuantityTotal() decimal.Decimal {
	total := decimal.Zero
	for _, qty := range c.Items {
		total = total.Add(qty)
	}
	return total
}

// ProductIDs lists the product ids currently in the cart.
func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Items))
	for id := range c.Items {
		ids = append(ids, id)
	}
	return ids
}
