package converters

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshfold/orderdesk/internal/service/models/export"
	"github.com/freshfold/orderdesk/internal/service/models/order"
)

func TestOrderToResponse(t *testing.T) {
	o := order.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD1",
		UserID:      uuid.New(),
		CreatedBy:   "carla",
		Lines: []order.Line{
			{ProductID: uuid.New(), Name: "Towel", Price: decimal.RequireFromString("10.5"), Quantity: 2},
		},
		Total: decimal.RequireFromString("21"),
	}

	resp := OrderToResponse(o)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "10.50", resp.Items[0].Price)
	assert.Equal(t, "21.00", resp.Items[0].Amount)
	assert.Equal(t, "21.00", resp.Total)
}

func TestExportToRows(t *testing.T) {
	doc := export.Document{
		OrderNumber: "ORD1",
		OrderName:   "suite 12",
		CreatedBy:   "carla",
		Total:       decimal.RequireFromString("24.00"),
		Groups: []export.Group{
			{Category: "bath", Lines: []order.Line{
				{Name: "Towel", Price: decimal.RequireFromString("10.00"), Quantity: 2},
			}},
			{Category: "bed", Lines: []order.Line{
				{Name: "Sheet", Price: decimal.RequireFromString("4.00"), Quantity: 1},
			}},
		},
	}

	rows := ExportToRows(doc)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"Order Number", "Order Name", "Created By", "Category",
		"Product Name", "Quantity", "Price", "Total Price",
	}, rows[0])

	assert.Equal(t, []string{"ORD1", "suite 12", "carla", "bath", "Towel", "2", "10.00", "24.00"}, rows[1])

	// Order header cells repeat only on the first data row.
	assert.Equal(t, []string{"", "", "", "bed", "Sheet", "1", "4.00", ""}, rows[2])
}

func TestExportToRowsDefaultsOrderName(t *testing.T) {
	doc := export.Document{
		OrderNumber: "ORD2",
		CreatedBy:   "carla",
		Total:       decimal.Zero,
		Groups: []export.Group{
			{Category: "bath", Lines: []order.Line{
				{Name: "Towel", Price: decimal.Zero, Quantity: 1},
			}},
		},
	}

	rows := ExportToRows(doc)
	require.Len(t, rows, 2)
	assert.Equal(t, "N/A", rows[1][1])
}
