package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/tokenauth/internal/auth/domain"
	"github.com/aussiebroadwan/tokenauth/internal/auth/store"
	"github.com/aussiebroadwan/tokenauth/pkg/cryptox"
	"github.com/aussiebroadwan/tokenauth/pkg/idx"
	validation "github.com/go-ozzo/ozzo-validation"
)

var ErrEmailTaken = errors.New("email_taken")

type UserService struct {
	Store store.Store
	Now   func() time.Time
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

type CreateUserRequest struct {
	Email          string
	Password       string
	AccessLevel    int
	EmailConfirmed bool
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), validation.Match(emailPattern)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 0)),
		validation.Field(&r.AccessLevel, validation.Min(0)),
	)
}

// CreateUser hashes the password and stores a new user. Users are only
// created by operators; the session endpoints never write them.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (domain.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ts := now().UTC().Truncate(time.Second)

	u := domain.User{
		ID:             idx.NewAt(ts).String(),
		Email:          req.Email,
		PasswordHash:   hash,
		AccessLevel:    req.AccessLevel,
		EmailConfirmed: req.EmailConfirmed,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	return u, nil
}
