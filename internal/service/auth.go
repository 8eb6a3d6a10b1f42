package service

import (
	"context"
	"errors"
	"strings"

	"socks_stock/internal/domain"
	"socks_stock/internal/errs"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer mints bearer tokens for a username.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

func newAuthResponse(token string) AuthResponse {
	return AuthResponse{Token: token, Type: "Bearer"}
}

// AuthService handles login, registration and admin seeding.
type AuthService struct {
	users  domain.UserRepository
	tokens TokenIssuer
	cost   int
}

// NewAuthService creates an AuthService hashing with bcrypt.DefaultCost.
func NewAuthService(users domain.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

// Login checks credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (AuthResponse, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, errs.ErrNotFound) {
		return AuthResponse{}, errs.New(errs.KindUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return AuthResponse{}, errs.Wrap(errs.KindInternal, "Login failed", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return AuthResponse{}, errs.New(errs.KindUnauthorized, "Invalid credentials")
	}
	return s.issue(user.Username)
}

// Register creates a user with the given role and issues a token for it.
func (s *AuthService) Register(ctx context.Context, username, password string, role domain.Role) (AuthResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return AuthResponse{}, errs.New(errs.KindValidation, "Username is required and cannot be empty.")
	}
	if password == "" {
		return AuthResponse{}, errs.New(errs.KindValidation, "Password is required and cannot be empty.")
	}
	if !role.IsValid() {
		return AuthResponse{}, errs.Newf(errs.KindValidation, "Unknown role: %s", role)
	}

	if _, err := s.create(ctx, username, password, role); err != nil {
		return AuthResponse{}, err
	}
	logrus.WithFields(logrus.Fields{
		"username": username,
		"role":     role,
	}).Info("User registered")
	return s.issue(username)
}

// EnsureAdmin creates the admin account unless the username already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if _, err := s.create(ctx, username, password, domain.RoleAdmin); err != nil {
		if errs.KindOf(err) == errs.KindConflict {
			return false, nil
		}
		return false, err
	}
	logrus.WithField("username", username).Info("Admin user created")
	return true, nil
}

func (s *AuthService) create(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "Registration failed", err)
	}
	if exists {
		return nil, errs.New(errs.KindConflict, "Username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "Failed to hash password", err)
	}
	user := &domain.User{Username: username, Password: string(hash), Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same name
		if errors.Is(err, errs.ErrDuplicate) {
			return nil, errs.New(errs.KindConflict, "Username is already taken")
		}
		return nil, errs.Wrap(errs.KindInternal, "Registration failed", err)
	}
	return user, nil
}

func (s *AuthService) issue(username string) (AuthResponse, error) {
	token, err := s.tokens.Issue(username)
	if err != nil {
		return AuthResponse{}, errs.Wrap(errs.KindInternal, "Failed to generate token", err)
	}
	return newAuthResponse(token), nil
}
