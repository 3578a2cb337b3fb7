package statssvc

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/freshfold/orderdesk/internal/dal/interfaces/iorderrepo"
	"github.com/freshfold/orderdesk/internal/dal/interfaces/iuserrepo"
	"github.com/freshfold/orderdesk/internal/service/models/actor"
	"github.com/freshfold/orderdesk/internal/service/models/order"
	"github.com/freshfold/orderdesk/internal/service/models/stats"
)

const defaultRecentOrders = 5

// StatsService derives the dashboard aggregates. It is a pure read-side fold
// over the order collection; nothing here mutates.
type StatsService struct {
	orderRepo iorderrepo.IOrderRepository
	userRepo  iuserrepo.IUserRepository
}

type option func(*StatsService)

// MustNewStatsService creates a new StatsService.
func MustNewStatsService(opts ...option) *StatsService {
	s := &StatsService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.orderRepo == nil || s.userRepo == nil {
		panic("statssvc: repositories not configured")
	}

	return s
}

// WithOrderRepository sets the order repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *StatsService) {
		s.orderRepo = repo
	}
}

// WithUserRepository sets the user repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUserRepository(repo iuserrepo.IUserRepository) option {
	return func(s *StatsService) {
		s.userRepo = repo
	}
}

// Dashboard computes the aggregate statistics plus the most recent orders.
// The average is zero when there are no orders, never a division error. The
// registered user count is only revealed to admins.
func (s *StatsService) Dashboard(ctx context.Context, act actor.Actor) (stats.Dashboard, error) {
	count, revenue, err := s.orderRepo.Totals(ctx)
	if err != nil {
		return stats.Dashboard{}, err
	}

	average := decimal.Zero
	if count > 0 {
		average = revenue.Div(decimal.NewFromInt(count))
	}

	recentLimit := viper.GetInt("dashboard.recent_orders")
	if recentLimit == 0 {
		recentLimit = defaultRecentOrders
	}

	recent, err := s.orderRepo.Query(ctx, &order.Query{Page: 1, PageSize: recentLimit})
	if err != nil {
		return stats.Dashboard{}, err
	}

	var totalUsers int64
	if act.IsAdmin() {
		totalUsers, err = s.userRepo.Count(ctx)
		if err != nil {
			return stats.Dashboard{}, err
		}
	}

	return stats.Dashboard{
		Stats: stats.Stats{
			TotalOrders:       count,
			TotalRevenue:      revenue,
			AverageOrderValue: average,
			TotalUsers:        totalUsers,
			IsAdmin:           act.IsAdmin(),
		},
		RecentOrders: recent,
	}, nil
}
