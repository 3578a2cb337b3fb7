package product

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshfold/orderdesk/internal/service/models/apperr"
)

// Product is a catalog entry. Orders never reference it live: price and name
// are snapshotted into order lines at assembly time.
type Product struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	NameEs    string          `json:"nameEs"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Validate checks the admin-supplied fields before a create or update.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Validationf("product name is required")
	}
	if strings.TrimSpace(p.NameEs) == "" {
		return apperr.Validationf("product localized name is required")
	}
	if p.Price.IsNegative() {
		return apperr.Validationf("product price must not be negative")
	}
	if strings.TrimSpace(p.Category) == "" {
		return apperr.Validationf("product category is required")
	}

	return nil
}
