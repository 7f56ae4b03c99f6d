package cart

import (
	"github.com/ariefcatur/go-shop/internal/apperr"
	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/shopspring/decimal"
)

type Item struct {
	ID          int64           `json:"cartItemId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Cart keeps Total in step with Items on every mutation; it is never recomputed.
// Total == sum(UnitPrice * Quantity).
type Cart struct {
	ID         int64           `json:"cartId"`
	CustomerID int64           `json:"customerId"`
	Items      []Item          `json:"cartItems"`
	Total      decimal.Decimal `json:"cartTotal"`
}

func (c *Cart) Empty() bool { return len(c.Items) == 0 }

func (c *Cart) find(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts one unit of p into the cart at the price the line was opened with.
func (c *Cart) Add(p *catalog.Product) {
	if i := c.find(p.ID); i >= 0 {
		c.Items[i].Quantity++
		c.Total = c.Total.Add(c.Items[i].UnitPrice)
		return
	}
	c.Items = append(c.Items, Item{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.Price,
		Quantity:    1,
	})
	c.Total = c.Total.Add(p.Price)
}

// Remove takes one unit of the product out; the line goes away at zero.
func (c *Cart) Remove(productID int64) error {
	if c.Empty() {
		return apperr.ErrCartEmpty
	}
	i := c.find(productID)
	if i < 0 {
		return apperr.Newf(apperr.KindItemNotFound, "product %d is not in the cart", productID)
	}
	c.Total = c.Total.Sub(c.Items[i].UnitPrice)
	c.Items[i].Quantity--
	if c.Items[i].Quantity == 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	return nil
}

// Drop removes the whole line for the product and its share of the total.
func (c *Cart) Drop(productID int64) bool {
	i := c.find(productID)
	if i < 0 {
		return false
	}
	it := c.Items[i]
	c.Total = c.Total.Sub(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.Items = []Item{}
	c.Total = decimal.Zero
}

func (c *Cart) Lines() []catalog.Line {
	out := make([]catalog.Line, 0, len(c.Items))
	for _, it := range c.Items {
		out = append(out, catalog.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}
