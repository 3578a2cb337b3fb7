// Package converters maps domain models to response shapes. Monetary values
// are rendered with two decimal places here, at the presentation boundary;
// the domain keeps them exact.
package converters

import (
	"strconv"
	"time"

	"github.com/freshfold/orderdesk/internal/service/models/export"
	"github.com/freshfold/orderdesk/internal/service/models/order"
	"github.com/freshfold/orderdesk/internal/service/models/product"
	"github.com/freshfold/orderdesk/internal/service/models/stats"
	"github.com/freshfold/orderdesk/internal/service/models/user"
)

type LineResponse struct {
	ProductID string `json:"product"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Amount    string `json:"amount"`
}

type OrderResponse struct {
	ID             string         `json:"id"`
	Name           string         `json:"name,omitempty"`
	OrderNumber    string         `json:"orderNumber"`
	UserID         string         `json:"userId"`
	CreatedBy      string         `json:"createdBy"`
	Items          []LineResponse `json:"items"`
	Total          string         `json:"total"`
	CreatedAt      time.Time      `json:"createdAt"`
	LastModifiedBy string         `json:"lastModifiedBy,omitempty"`
	LastModifiedAt *time.Time     `json:"lastModifiedAt,omitempty"`
}

// OrderToResponse converts an internal Order to its response shape.
func OrderToResponse(o order.Order) OrderResponse {
	items := make([]LineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, LineResponse{
			ProductID: l.ProductID.String(),
			Name:      l.Name,
			Price:     l.Price.StringFixed(2),
			Quantity:  l.Quantity,
			Amount:    l.Amount().StringFixed(2),
		})
	}

	return OrderResponse{
		ID:             o.ID.String(),
		Name:           o.Name,
		OrderNumber:    o.OrderNumber,
		UserID:         o.UserID.String(),
		CreatedBy:      o.CreatedBy,
		Items:          items,
		Total:          o.Total.StringFixed(2),
		CreatedAt:      o.CreatedAt,
		LastModifiedBy: o.LastModifiedBy,
		LastModifiedAt: o.LastModifiedAt,
	}
}

// OrdersToResponse converts a slice of orders.
func OrdersToResponse(orders []order.Order) []OrderResponse {
	result := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, OrderToResponse(o))
	}

	return result
}

type PaginationResponse struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	HasMore bool  `json:"hasMore"`
}

type PageResponse struct {
	Orders     []OrderResponse    `json:"orders"`
	Pagination PaginationResponse `json:"pagination"`
}

// PageToResponse converts a listing page with its pagination envelope.
func PageToResponse(p order.PageResult) PageResponse {
	return PageResponse{
		Orders: OrdersToResponse(p.Orders),
		Pagination: PaginationResponse{
			Total:   p.Total,
			Page:    p.Page,
			Pages:   p.Pages,
			HasMore: p.HasMore,
		},
	}
}

type ProductResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NameEs    string    `json:"nameEs"`
	Price     string    `json:"price"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductToResponse converts a catalog product.
func ProductToResponse(p product.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		NameEs:    p.NameEs,
		Price:     p.Price.StringFixed(2),
		Category:  p.Category,
		CreatedAt: p.CreatedAt,
	}
}

// ProductsToResponse converts a slice of products.
func ProductsToResponse(products []product.Product) []ProductResponse {
	result := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		result = append(result, ProductToResponse(p))
	}

	return result
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserToResponse converts an account, never exposing the credential.
func UserToResponse(u user.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Username:  u.Username,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// UsersToResponse converts a slice of accounts.
func UsersToResponse(users []user.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, UserToResponse(u))
	}

	return result
}

type StatsResponse struct {
	TotalOrders       int64  `json:"totalOrders"`
	TotalRevenue      string `json:"totalRevenue"`
	AverageOrderValue string `json:"averageOrderValue"`
	TotalUsers        int64  `json:"totalUsers"`
	IsAdmin           bool   `json:"isAdmin"`
}

type DashboardResponse struct {
	Stats        StatsResponse   `json:"stats"`
	RecentOrders []OrderResponse `json:"recentOrders"`
}

// DashboardToResponse converts the dashboard aggregates.
func DashboardToResponse(d stats.Dashboard) DashboardResponse {
	return DashboardResponse{
		Stats: StatsResponse{
			TotalOrders:       d.Stats.TotalOrders,
			TotalRevenue:      d.Stats.TotalRevenue.StringFixed(2),
			AverageOrderValue: d.Stats.AverageOrderValue.StringFixed(2),
			TotalUsers:        d.Stats.TotalUsers,
			IsAdmin:           d.Stats.IsAdmin,
		},
		RecentOrders: OrdersToResponse(d.RecentOrders),
	}
}

// ExportToRows flattens an export document into CSV rows, header included.
// Repeated header cells are only written on the first row, the way the
// rendered sheet displays them.
func ExportToRows(doc export.Document) [][]string {
	rows := [][]string{{
		"Order Number",
		"Order Name",
		"Created By",
		"Category",
		"Product Name",
		"Quantity",
		"Price",
		"Total Price",
	}}

	first := true
	for _, group := range doc.Groups {
		for _, line := range group.Lines {
			row := []string{"", "", "", group.Category, line.Name, strconv.Itoa(line.Quantity), line.Price.StringFixed(2), ""}
			if first {
				row[0] = doc.OrderNumber
				row[1] = orDefault(doc.OrderName, "N/A")
				row[2] = doc.CreatedBy
				row[7] = doc.Total.StringFixed(2)
				first = false
			}
			rows = append(rows, row)
		}
	}

	return rows
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}
