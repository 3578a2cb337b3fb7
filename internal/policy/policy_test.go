package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/freshfold/orderdesk/internal/service/models/actor"
	"github.com/freshfold/orderdesk/internal/service/models/order"
)

func TestAccessRules(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	cases := []struct {
		name    string
		act     actor.Actor
		ownerID uuid.UUID
		want    bool
	}{
		{"admin on foreign order", actor.Actor{ID: stranger, Role: actor.RoleAdmin}, owner, true},
		{"admin on own order", actor.Actor{ID: owner, Role: actor.RoleAdmin}, owner, true},
		{"member on own order", actor.Actor{ID: owner, Role: actor.RoleMember}, owner, true},
		{"member on foreign order", actor.Actor{ID: stranger, Role: actor.RoleMember}, owner, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := order.Order{UserID: tc.ownerID}

			assert.Equal(t, tc.want, CanView(tc.act, o))
			assert.Equal(t, tc.want, CanEdit(tc.act, o))
			assert.Equal(t, tc.want, CanDelete(tc.act, o))
			assert.Equal(t, tc.want, CanExport(tc.act, o))
		})
	}
}

// The decision must equal (admin || ownership) for every combination.
func TestAccessRuleProperty(t *testing.T) {
	actors := make([]actor.Actor, 0, 20)
	orders := make([]order.Order, 0, 10)
	for i := 0; i < 10; i++ {
		id := uuid.New()
		actors = append(actors,
			actor.Actor{ID: id, Role: actor.RoleMember},
			actor.Actor{ID: id, Role: actor.RoleAdmin},
		)
		orders = append(orders, order.Order{ID: uuid.New(), UserID: id})
	}

	for _, a := range actors {
		for _, o := range orders {
			want := a.Role == actor.RoleAdmin || a.ID == o.UserID
			assert.Equal(t, want, CanEdit(a, o))
		}
	}
}

func TestListScope(t *testing.T) {
	memberID := uuid.New()
	otherID := uuid.New()
	member := actor.Actor{ID: memberID, Role: actor.RoleMember}
	admin := actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}

	t.Run("member default is own orders", func(t *testing.T) {
		scope := ListScope(member, nil)
		assert.NotNil(t, scope)
		assert.Equal(t, memberID, *scope)
	})

	t.Run("member asking for another owner is narrowed", func(t *testing.T) {
		scope := ListScope(member, &otherID)
		assert.NotNil(t, scope)
		assert.Equal(t, memberID, *scope)
	})

	t.Run("admin default is all orders", func(t *testing.T) {
		assert.Nil(t, ListScope(admin, nil))
	})

	t.Run("admin owner filter is honored", func(t *testing.T) {
		scope := ListScope(admin, &otherID)
		assert.NotNil(t, scope)
		assert.Equal(t, otherID, *scope)
	})
}
