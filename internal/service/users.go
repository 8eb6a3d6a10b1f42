package service

import (
	"context"
	"errors"

	"socks_stock/internal/domain"
	"socks_stock/internal/errs"

	"github.com/sirupsen/logrus"
)

// UserService is admin-facing CRUD over the credential store.
type UserService struct {
	users domain.UserRepository
}

// NewUserService creates a UserService over the given store.
func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns every user ordered by id.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "Failed to list users", err)
	}
	return users, nil
}

// FindByID returns one user, UserNotFound when the id is unknown.
func (s *UserService) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, userErr(err, errs.Newf(errs.KindUserNotFound, "User not found with id: %d", id))
	}
	return user, nil
}

// FindByUsername returns one user, UserNotFound when the name is unknown.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, userErr(err, errs.Newf(errs.KindUserNotFound, "User not found: %s", username))
	}
	return user, nil
}

// UpdateRole changes the role of an existing user.
func (s *UserService) UpdateRole(ctx context.Context, id uint, role domain.Role) (*domain.User, error) {
	if !role.IsValid() {
		return nil, errs.Newf(errs.KindValidation, "Unknown role: %s", role)
	}
	user, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, userErr(err, errs.Newf(errs.KindUserNotFound, "User not found with id: %d", id))
	}
	logrus.WithFields(logrus.Fields{
		"user_id": id,
		"role":    role,
	}).Info("User role updated")
	return user, nil
}

// Delete removes a user, UserNotFound when the id is unknown.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return userErr(err, errs.Newf(errs.KindUserNotFound, "User not found with id: %d", id))
	}
	logrus.WithField("user_id", id).Info("User deleted")
	return nil
}

// Exists reports whether a username is taken.
func (s *UserService) Exists(ctx context.Context, username string) (bool, error) {
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return false, errs.Wrap(errs.KindInternal, "Failed to check user", err)
	}
	return exists, nil
}

// ListByRole returns the users holding role.
func (s *UserService) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	users, err := s.users.FindByRole(ctx, role)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "Failed to list users", err)
	}
	return users, nil
}

// userErr returns notFound for a missing row and an internal error otherwise.
func userErr(err error, notFound *errs.Error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return notFound
	}
	return errs.Wrap(errs.KindInternal, "User lookup failed", err)
}
