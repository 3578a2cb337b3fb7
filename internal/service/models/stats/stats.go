package stats

import (
	"github.com/shopspring/decimal"

	"github.com/freshfold/orderdesk/internal/service/models/order"
)

// Stats are the dashboard aggregates derived from the order collection.
type Stats struct {
	TotalOrders       int64           `json:"totalOrders"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	TotalUsers        int64           `json:"totalUsers"`
	IsAdmin           bool            `json:"isAdmin"`
}

// Dashboard bundles the aggregates with the most recent orders.
type Dashboard struct {
	Stats        Stats         `json:"stats"`
	RecentOrders []order.Order `json:"recentOrders"`
}
