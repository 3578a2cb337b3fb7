package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product entry within an order. Name and Price are copied from
// the catalog at the moment the line is assembled; later catalog changes never
// touch an existing line.
type Line struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Amount returns price * quantity without any rounding.
func (l Line) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is the aggregate root. Total is derived from Lines and recomputed on
// every mutation, never edited independently.
type Order struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name,omitempty"`
	OrderNumber    string          `json:"orderNumber"`
	UserID         uuid.UUID       `json:"userId"`
	CreatedBy      string          `json:"createdBy"`
	Lines          []Line          `json:"items"`
	Total          decimal.Decimal `json:"total"`
	CreatedAt      time.Time       `json:"createdAt"`
	LastModifiedBy string          `json:"lastModifiedBy,omitempty"`
	LastModifiedAt *time.Time      `json:"lastModifiedAt,omitempty"`
}

// TotalOf sums price*quantity over the given lines exactly.
func TotalOf(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount())
	}

	return total
}

// Recompute refreshes Total from the current line set.
func (o *Order) Recompute() {
	o.Total = TotalOf(o.Lines)
}

// SetLineQuantity applies cart-edit semantics to a line set and returns the
// result. A quantity of zero or below removes the product's line. A product
// not yet present is added using the supplied snapshot (current catalog name
// and price). An existing line keeps its original snapshot and only changes
// quantity. Callers recompute the total from the returned set.
func SetLineQuantity(lines []Line, snapshot Line, quantity int) []Line {
	for i := range lines {
		if lines[i].ProductID != snapshot.ProductID {
			continue
		}
		if quantity <= 0 {
			return append(lines[:i], lines[i+1:]...)
		}
		lines[i].Quantity = quantity

		return lines
	}

	if quantity <= 0 {
		return lines
	}
	snapshot.Quantity = quantity

	return append(lines, snapshot)
}
