package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/freshfold/orderdesk/internal/service/models/actor"
)

// User is a registered account. PasswordHash is opaque to the domain; only
// the user service touches it.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         actor.Role `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Actor returns the authorization context this user acts under.
func (u User) Actor() actor.Actor {
	return actor.Actor{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
