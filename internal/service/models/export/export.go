package export

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshfold/orderdesk/internal/service/models/order"
)

// CategoryUnknown is used for lines whose product no longer exists in the
// catalog at export time.
const CategoryUnknown = "uncategorized"

// Group holds an order's lines that share a product category.
type Group struct {
	Category string       `json:"category"`
	Lines    []order.Line `json:"items"`
}

// Document is the export shape handed to the renderer: order header data plus
// lines grouped by category in stable order.
type Document struct {
	OrderNumber string          `json:"orderNumber"`
	OrderName   string          `json:"orderName"`
	CreatedBy   string          `json:"createdBy"`
	Total       decimal.Decimal `json:"total"`
	Groups      []Group         `json:"groups"`
}

// Build groups the order's lines by product category. Categories come out
// sorted alphabetically; within a group, lines keep their insertion order.
func Build(o order.Order, categories map[uuid.UUID]string) Document {
	byCategory := make(map[string][]order.Line)
	for _, line := range o.Lines {
		category, ok := categories[line.ProductID]
		if !ok || category == "" {
			category = CategoryUnknown
		}
		byCategory[category] = append(byCategory[category], line)
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]Group, 0, len(names))
	for _, name := range names {
		groups = append(groups, Group{Category: name, Lines: byCategory[name]})
	}

	return Document{
		OrderNumber: o.OrderNumber,
		OrderName:   o.Name,
		CreatedBy:   o.CreatedBy,
		Total:       o.Total,
		Groups:      groups,
	}
}
