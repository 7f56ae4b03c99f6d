package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusAvailable  Status = "AVAILABLE"
	StatusOutOfStock Status = "OUTOFSTOCK"
)

func (s Status) Valid() bool { return s == StatusAvailable || s == StatusOutOfStock }

// StatusFor: AVAILABLE iff quantity > 0.
func StatusFor(quantity int) Status {
	if quantity > 0 {
		return StatusAvailable
	}
	return StatusOutOfStock
}

type Category string

const (
	CategoryElectronics Category = "ELECTRONICS"
	CategoryFashion     Category = "FASHION"
	CategoryFurniture   Category = "FURNITURE"
	CategoryBooks       Category = "BOOKS"
	CategoryGroceries   Category = "GROCERIES"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryFashion, CategoryFurniture, CategoryBooks, CategoryGroceries:
		return true
	}
	return false
}

type Product struct {
	ID            int64           `json:"productId"`
	Name          string          `json:"productName"`
	Price         decimal.Decimal `json:"price"`
	Description   string          `json:"description"`
	Manufacturer  string          `json:"manufacturer"`
	Quantity      int             `json:"quantity"`
	Status        Status          `json:"status"`
	Category      Category        `json:"category"`
	SellerID      int64           `json:"sellerId"`
	AverageRating float64         `json:"averageRating"`
	ReviewCount   int64           `json:"reviewCount"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Orderable reports whether the product can be put into a cart right now.
func (p *Product) Orderable() bool {
	return p.Status != StatusOutOfStock && p.Quantity > 0
}

// Line is a (product, quantity) pair moved in or out of stock.
type Line struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type NewProduct struct {
	Name         string          `json:"productName" validate:"required,min=3,max=100"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description" validate:"max=1000"`
	Manufacturer string          `json:"manufacturer" validate:"required"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
	Category     Category        `json:"category" validate:"required"`
}

type ProductUpdate struct {
	Name         *string          `json:"productName" validate:"omitempty,min=3,max=100"`
	Price        *decimal.Decimal `json:"price"`
	Description  *string          `json:"description" validate:"omitempty,max=1000"`
	Manufacturer *string          `json:"manufacturer"`
	Category     *Category        `json:"category"`
}
