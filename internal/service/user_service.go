package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/olegsm/cinema-tickets/internal/model"
	"github.com/olegsm/cinema-tickets/internal/repository"
	"github.com/olegsm/cinema-tickets/internal/utils"
)

// UserStore is the slice of the user repository the service depends on.
// *repository.UserRepo satisfies it; tests substitute an in-memory fake.
type UserStore interface {
	FindAll(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id uint64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByPhone(ctx context.Context, phone string) (model.User, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	DeleteByID(ctx context.Context, id uint64) error
}

// UserService enforces the account business rules: unique email/phone,
// password confirmation at registration, credential verification at login.
type UserService struct {
	users      UserStore
	bcryptCost int
}

// NewUserService constructs a UserService.
func NewUserService(users UserStore, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// FindAll returns all users.
func (s *UserService) FindAll(ctx context.Context) ([]model.User, error) {
	return s.users.FindAll(ctx)
}

// FindByID returns the user with the given id or ErrNotFound.
func (s *UserService) FindByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, fmt.Errorf("user id %d: %w", id, ErrNotFound)
	}
	return u, err
}

// FindByEmail returns the user with the given email or ErrNotFound.
func (s *UserService) FindByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, fmt.Errorf("user email %s: %w", email, ErrNotFound)
	}
	return u, err
}

// FindByPhone returns the user with the given phone or ErrNotFound.
func (s *UserService) FindByPhone(ctx context.Context, phone string) (model.User, error) {
	u, err := s.users.FindByPhone(ctx, phone)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, fmt.Errorf("user phone %s: %w", phone, ErrNotFound)
	}
	return u, err
}

// Register validates and stores a new account. The outcome is an explicit
// variant the registration handler maps to a redirect:
//
//	ErrPasswordMismatch  – password and repassword differ
//	ErrDuplicateAccount  – email or phone already belongs to another user
//	nil                  – user stored, generated ID populated
//
// The duplicate pre-check below is advisory only; two concurrent
// registrations can both pass it, and the loser is caught by the unique
// constraint at insert time (repository.ErrDuplicate).
func (s *UserService) Register(ctx context.Context, username, email, phone, password, repassword string) (model.User, error) {
	if password != repassword {
		return model.User{}, ErrPasswordMismatch
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return model.User{}, ErrDuplicateAccount
	} else if !errors.Is(err, repository.ErrNotFound) {
		return model.User{}, err
	}
	if _, err := s.users.FindByPhone(ctx, phone); err == nil {
		return model.User{}, ErrDuplicateAccount
	} else if !errors.Is(err, repository.ErrNotFound) {
		return model.User{}, err
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := model.User{
		Username:     strings.TrimSpace(username),
		Email:        email,
		Phone:        strings.TrimSpace(phone),
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, ErrDuplicateAccount
		}
		return model.User{}, err
	}
	return u, nil
}

// Login verifies the submitted credentials and returns the stored user.
// Unknown email and wrong password both yield ErrBadCredentials so the
// login page cannot be used to probe which emails are registered.
func (s *UserService) Login(ctx context.Context, email, password string) (model.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrBadCredentials
		}
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrBadCredentials
	}
	return u, nil
}

// Update rewrites a user's mutable fields. A taken email or phone yields
// ErrDuplicateAccount, a missing row ErrNotFound.
func (s *UserService) Update(ctx context.Context, u *model.User) error {
	err := s.users.Update(ctx, u)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicateAccount
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("user id %d: %w", u.ID, ErrNotFound)
	}
	return err
}

// DeleteByID removes a user. Returns ErrNotFound when no such user exists.
func (s *UserService) DeleteByID(ctx context.Context, id uint64) error {
	err := s.users.DeleteByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("user id %d: %w", id, ErrNotFound)
	}
	return err
}
