package postgresrepo

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshfold/orderdesk/internal/service/models/actor"
)

func TestErrorClassification(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "users_username_ci_idx"}
	foreignKey := &pgconn.PgError{Code: "23503", ConstraintName: "orders_user_id_fkey"}

	t.Run("unique violation", func(t *testing.T) {
		assert.True(t, isUniqueViolation(unique))
		assert.True(t, isUniqueViolation(fmt.Errorf("exec: %w", unique)))
		assert.False(t, isUniqueViolation(foreignKey))
	})

	t.Run("foreign key violation", func(t *testing.T) {
		assert.True(t, isForeignKeyViolation(foreignKey))
		assert.True(t, isForeignKeyViolation(fmt.Errorf("exec: %w", foreignKey)))
		assert.False(t, isForeignKeyViolation(unique))
	})

	t.Run("driver errors match neither", func(t *testing.T) {
		err := fmt.Errorf("connection refused")
		assert.False(t, isUniqueViolation(err))
		assert.False(t, isForeignKeyViolation(err))
	})
}

func TestUserDalToModel(t *testing.T) {
	dal := UserDal{
		Id:           uuid.New(),
		Email:        "carla@example.com",
		Username:     "carla",
		PasswordHash: "hash",
		Role:         "admin",
		CreatedAt:    time.Now(),
	}

	u, err := dal.ToModel()
	require.NoError(t, err)
	assert.Equal(t, actor.RoleAdmin, u.Role)

	dal.Role = "owner"
	_, err = dal.ToModel()
	assert.Error(t, err)
}
