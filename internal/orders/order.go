package orders

import (
	"time"

	"github.com/ariefcatur/go-shop/internal/account"
	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/shopspring/decimal"
)

// Item is a snapshot of a cart line at checkout time.
type Item struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
}

type Order struct {
	ID          int64           `json:"orderId"`
	CustomerID  int64           `json:"customerId"`
	Items       []Item          `json:"orderItems"`
	Total       decimal.Decimal `json:"total"`
	Status      Status          `json:"orderStatus"`
	AddressType string          `json:"addressType"`
	Date        time.Time       `json:"orderDate"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (o *Order) Lines() []catalog.Line {
	out := make([]catalog.Line, 0, len(o.Items))
	for _, it := range o.Items {
		out = append(out, catalog.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

func (o *Order) ProductIDs() []int64 {
	out := make([]int64, 0, len(o.Items))
	for _, it := range o.Items {
		out = append(out, it.ProductID)
	}
	return out
}

type PlaceRequest struct {
	Card        account.CreditCard `json:"creditCard"`
	AddressType string             `json:"addressType"`
}
