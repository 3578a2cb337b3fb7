package statssvc

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshfold/orderdesk/internal/service/models/actor"
	"github.com/freshfold/orderdesk/internal/service/models/order"
	"github.com/freshfold/orderdesk/internal/service/models/user"
)

type fakeOrderRepo struct {
	count     int64
	revenue   decimal.Decimal
	recent    []order.Order
	lastQuery *order.Query
}

func (r *fakeOrderRepo) Insert(_ context.Context, o order.Order) (order.Order, error) { return o, nil }
func (r *fakeOrderRepo) Update(_ context.Context, o order.Order) (order.Order, error) { return o, nil }
func (r *fakeOrderRepo) Delete(_ context.Context, _ uuid.UUID) error                  { return nil }

func (r *fakeOrderRepo) GetByID(_ context.Context, _ uuid.UUID) (order.Order, error) {
	return order.Order{}, nil
}

func (r *fakeOrderRepo) Query(_ context.Context, filter *order.Query) ([]order.Order, error) {
	r.lastQuery = filter
	return r.recent, nil
}

func (r *fakeOrderRepo) Count(_ context.Context, _ *order.Query) (int64, error) {
	return r.count, nil
}

func (r *fakeOrderRepo) Totals(_ context.Context) (int64, decimal.Decimal, error) {
	return r.count, r.revenue, nil
}

type fakeUserRepo struct {
	count   int64
	counted bool
}

func (r *fakeUserRepo) Insert(_ context.Context, u user.User) (user.User, error) { return u, nil }
func (r *fakeUserRepo) Delete(_ context.Context, _ uuid.UUID) error              { return nil }

func (r *fakeUserRepo) GetByID(_ context.Context, _ uuid.UUID) (user.User, error) {
	return user.User{}, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, _ string) (user.User, error) {
	return user.User{}, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]user.User, error) { return nil, nil }

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.counted = true
	return r.count, nil
}

func newService(orders *fakeOrderRepo, users *fakeUserRepo) *StatsService {
	return MustNewStatsService(
		WithOrderRepository(orders),
		WithUserRepository(users),
	)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	adminAct := actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}
	memberAct := actor.Actor{ID: uuid.New(), Role: actor.RoleMember}

	t.Run("empty collection yields zero average", func(t *testing.T) {
		svc := newService(&fakeOrderRepo{revenue: decimal.Zero}, &fakeUserRepo{})

		d, err := svc.Dashboard(ctx, memberAct)
		require.NoError(t, err)
		assert.Zero(t, d.Stats.TotalOrders)
		assert.True(t, d.Stats.TotalRevenue.IsZero())
		assert.True(t, d.Stats.AverageOrderValue.IsZero())
	})

	t.Run("average is revenue over count", func(t *testing.T) {
		orders := &fakeOrderRepo{
			count:   4,
			revenue: decimal.RequireFromString("100.00"),
			recent:  []order.Order{{ID: uuid.New()}, {ID: uuid.New()}},
		}
		svc := newService(orders, &fakeUserRepo{})

		d, err := svc.Dashboard(ctx, memberAct)
		require.NoError(t, err)
		assert.EqualValues(t, 4, d.Stats.TotalOrders)
		assert.True(t, decimal.RequireFromString("25").Equal(d.Stats.AverageOrderValue))
		assert.Len(t, d.RecentOrders, 2)
	})

	t.Run("recent orders come from the first page", func(t *testing.T) {
		orders := &fakeOrderRepo{revenue: decimal.Zero}
		svc := newService(orders, &fakeUserRepo{})

		_, err := svc.Dashboard(ctx, memberAct)
		require.NoError(t, err)
		require.NotNil(t, orders.lastQuery)
		assert.Equal(t, 1, orders.lastQuery.Page)
		assert.Equal(t, defaultRecentOrders, orders.lastQuery.PageSize)
		assert.Nil(t, orders.lastQuery.UserID)
	})

	t.Run("user count is admin only", func(t *testing.T) {
		users := &fakeUserRepo{count: 7}
		svc := newService(&fakeOrderRepo{revenue: decimal.Zero}, users)

		d, err := svc.Dashboard(ctx, memberAct)
		require.NoError(t, err)
		assert.False(t, users.counted)
		assert.Zero(t, d.Stats.TotalUsers)
		assert.False(t, d.Stats.IsAdmin)

		d, err = svc.Dashboard(ctx, adminAct)
		require.NoError(t, err)
		assert.True(t, users.counted)
		assert.EqualValues(t, 7, d.Stats.TotalUsers)
		assert.True(t, d.Stats.IsAdmin)
	})
}
