package usersvc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/freshfold/orderdesk/internal/dal/interfaces/iuserrepo"
	"github.com/freshfold/orderdesk/internal/service/models/actor"
	"github.com/freshfold/orderdesk/internal/service/models/apperr"
	"github.com/freshfold/orderdesk/internal/service/models/user"
)

const bcryptCost = 12

// UserService handles accounts, credentials and token issue. Registration
// and user management are admin only.
type UserService struct {
	userRepo  iuserrepo.IUserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

type option func(*UserService)

// MustNewUserService creates a new UserService.
func MustNewUserService(opts ...option) *UserService {
	s := &UserService{
		tokenTTL: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.userRepo == nil {
		panic("usersvc: no user repository configured")
	}
	if len(s.jwtSecret) == 0 {
		s.jwtSecret = []byte(os.Getenv("ORDERDESK_JWT_SECRET"))
	}
	if len(s.jwtSecret) == 0 {
		panic("usersvc: no JWT secret configured")
	}

	return s
}

// WithUserRepository sets the user repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUserRepository(repo iuserrepo.IUserRepository) option {
	return func(s *UserService) {
		s.userRepo = repo
	}
}

// WithJWTSecret sets the token signing secret.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithJWTSecret(secret []byte) option {
	return func(s *UserService) {
		s.jwtSecret = secret
	}
}

// WithTokenTTL sets the issued token lifetime.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTokenTTL(ttl time.Duration) option {
	return func(s *UserService) {
		s.tokenTTL = ttl
	}
}

// RegisterRequest carries the fields for an admin-created account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login verifies credentials and returns a signed token plus the account.
// Unknown username and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (string, user.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", user.User{}, apperr.Validationf("invalid credentials")
		}

		return "", user.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", user.User{}, apperr.Validationf("invalid credentials")
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return "", user.User{}, err
	}

	return token, u, nil
}

// Register creates a new account. Only admins may register users.
func (s *UserService) Register(ctx context.Context, act actor.Actor, req RegisterRequest) (user.User, error) {
	if !act.IsAdmin() {
		return user.User{}, apperr.ErrForbidden
	}

	return s.createUser(ctx, req)
}

// Users lists all accounts, admin only.
func (s *UserService) Users(ctx context.Context, act actor.Actor) ([]user.User, error) {
	if !act.IsAdmin() {
		return nil, apperr.ErrForbidden
	}

	return s.userRepo.List(ctx)
}

// DeleteUser removes an account, admin only.
func (s *UserService) DeleteUser(ctx context.Context, act actor.Actor, id uuid.UUID) error {
	if !act.IsAdmin() {
		return apperr.ErrForbidden
	}

	return s.userRepo.Delete(ctx, id)
}

// GetByID loads an account, used by the auth middleware to resolve actors.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// EnsureInitialAdmin creates the bootstrap admin account when the user table
// is empty. No-op otherwise.
func (s *UserService) EnsureInitialAdmin(ctx context.Context, email, username, password string) error {
	if email == "" || username == "" || password == "" {
		return nil
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = s.createUser(ctx, RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
		Role:     string(actor.RoleAdmin),
	})

	return err
}

// IssueToken signs a token identifying the user.
func (s *UserService) IssueToken(u user.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": u.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ParseToken validates a token and returns the user id it identifies.
func (s *UserService) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid token subject")
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid token subject")
	}

	return id, nil
}

func (s *UserService) createUser(ctx context.Context, req RegisterRequest) (user.User, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)

	if email == "" {
		return user.User{}, apperr.Validationf("email is required")
	}
	if username == "" {
		return user.User{}, apperr.Validationf("username is required")
	}
	if req.Password == "" {
		return user.User{}, apperr.Validationf("password is required")
	}

	role := actor.RoleMember
	if req.Role != "" {
		parsed, ok := actor.ParseRole(req.Role)
		if !ok {
			return user.User{}, apperr.Validationf("unknown role %q", req.Role)
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.Insert(ctx, user.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	})
}
