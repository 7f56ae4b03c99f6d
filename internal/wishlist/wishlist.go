package wishlist

import (
	"time"

	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/shopspring/decimal"
)

type Item struct {
	ID          int64           `json:"wishlistItemId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Status      catalog.Status  `json:"status"`
	AddedAt     time.Time       `json:"addedAt"`
}
