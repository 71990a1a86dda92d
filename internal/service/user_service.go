package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/smartquiz/smartquiz-backend/internal/model"
	"github.com/smartquiz/smartquiz-backend/internal/repository"
)

// ErrUserNotFound is returned for operations on unknown accounts.
var ErrUserNotFound = errors.New("user not found")

// UserService handles admin account management and approval of pending
// registrations.
type UserService struct {
	userRepo *repository.UserRepository
	auth     *AuthService
	log      zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository, auth *AuthService, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		auth:     auth,
		log:      log.With().Str("component", "user_service").Logger(),
	}
}

// Get fetches a single account.
func (s *UserService) Get(ctx context.Context, id int) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// List returns accounts with pagination and optional role filter.
func (s *UserService) List(ctx context.Context, role *string, page, perPage int) ([]model.User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.userRepo.ListPaginated(ctx, role, perPage, (page-1)*perPage)
}

// Create makes an account with an explicit role, bypassing approval.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Int("user_id", user.ID).Str("role", user.Role).Msg("account created by admin")
	return user, nil
}

// UpdateRole changes an account's role. Approving a pending registration
// is an UpdateRole from pending to student or lecturer.
func (s *UserService) UpdateRole(ctx context.Context, id int, role string) error {
	ok, err := s.userRepo.UpdateRole(ctx, id, role)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}

	s.log.Info().Int("user_id", id).Str("role", role).Msg("role updated")
	return nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id int) error {
	ok, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}
