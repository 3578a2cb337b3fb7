package users

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/freshfold/orderdesk/internal/service/models/actor"
	"github.com/freshfold/orderdesk/internal/service/models/apperr"
	"github.com/freshfold/orderdesk/internal/service/models/user"
	"github.com/freshfold/orderdesk/internal/service/services/usersvc"
	"github.com/freshfold/orderdesk/internal/transport/http/converters"
	"github.com/freshfold/orderdesk/internal/transport/http/middleware/auth"
	"github.com/freshfold/orderdesk/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	Login(ctx context.Context, username, password string) (string, user.User, error)
	Register(ctx context.Context, act actor.Actor, req usersvc.RegisterRequest) (user.User, error)
	Users(ctx context.Context, act actor.Actor) ([]user.User, error)
	DeleteUser(ctx context.Context, act actor.Actor, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string                  `json:"token"`
	User  converters.UserResponse `json:"user"`
}

// Login verifies credentials and returns a signed token.
func Login(w http.ResponseWriter, r *http.Request, svc service) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validationf("invalid request body"))

		return
	}

	token, u, err := svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  converters.UserToResponse(u),
	})
}

// Register creates a new account, admin only.
func Register(w http.ResponseWriter, r *http.Request, svc service) {
	act, ok := auth.MustActor(w, r)
	if !ok {
		return
	}

	var req usersvc.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validationf("invalid request body"))

		return
	}

	u, err := svc.Register(r.Context(), act, req)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusCreated, converters.UserToResponse(u))
}

// List returns all accounts, admin only.
func List(w http.ResponseWriter, r *http.Request, svc service) {
	act, ok := auth.MustActor(w, r)
	if !ok {
		return
	}

	list, err := svc.Users(r.Context(), act)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, converters.UsersToResponse(list))
}

// Delete removes an account, admin only.
func Delete(w http.ResponseWriter, r *http.Request, svc service) {
	act, ok := auth.MustActor(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validationf("invalid user id"))

		return
	}

	if err := svc.DeleteUser(r.Context(), act, id); err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}

// Verify confirms the presented token and echoes the account it belongs to.
func Verify(w http.ResponseWriter, r *http.Request, svc service) {
	act, ok := auth.MustActor(w, r)
	if !ok {
		return
	}

	u, err := svc.GetByID(r.Context(), act.ID)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, converters.UserToResponse(u))
}
