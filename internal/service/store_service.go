package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/grattalab/scratch-win-system/internal/auth"
	"github.com/grattalab/scratch-win-system/internal/model"
)

// UserRepositoryInterface defines the interface for account data access.
type UserRepositoryInterface interface {
	GetStoreUserByEmail(ctx context.Context, email string) (*model.StoreUser, error)
	GetAdminByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

// TokenSigner issues tokens for authenticated principals.
type TokenSigner interface {
	Sign(userID, email, name, role, storeID string) (string, error)
}

// StoreService provides store management and account login.
type StoreService struct {
	storeRepo StoreRepositoryInterface
	userRepo  UserRepositoryInterface
	tokens    TokenSigner
	now       func() time.Time
}

// NewStoreService creates a StoreService with the given collaborators.
func NewStoreService(storeRepo StoreRepositoryInterface, userRepo UserRepositoryInterface, tokens TokenSigner) *StoreService {
	return &StoreService{storeRepo: storeRepo, userRepo: userRepo, tokens: tokens, now: time.Now}
}

// NewStoreServiceWithClock creates a StoreService with an injected clock.
// Primarily used for testing.
func NewStoreServiceWithClock(storeRepo StoreRepositoryInterface, userRepo UserRepositoryInterface, tokens TokenSigner, now func() time.Time) *StoreService {
	return &StoreService{storeRepo: storeRepo, userRepo: userRepo, tokens: tokens, now: now}
}

// Create creates a new store.
// Returns ErrStoreExists when the slug is already taken.
func (s *StoreService) Create(ctx context.Context, req *model.CreateStoreRequest) (*model.Store, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	store := &model.Store{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Slug:      req.Slug,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Logo:      req.Logo,
		Active:    active,
		CreatedAt: s.now(),
	}
	if err := s.storeRepo.Insert(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// List retrieves all stores.
func (s *StoreService) List(ctx context.Context) ([]model.Store, error) {
	stores, err := s.storeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return stores, nil
}

// Login authenticates a store user or a platform admin by email and
// password, in that order, and issues a token. Failed lookups and bad
// passwords are indistinguishable to the caller: both are
// ErrInvalidCredentials.
func (s *StoreService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	user, err := s.userRepo.GetStoreUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("get store user: %w", err)
	}
	if user != nil {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			return nil, ErrInvalidCredentials
		}
		token, err := s.tokens.Sign(user.ID, user.Email, user.Name, user.Role, user.StoreID)
		if err != nil {
			return nil, fmt.Errorf("sign token: %w", err)
		}
		if err := s.userRepo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
			return nil, fmt.Errorf("touch last login: %w", err)
		}
		return &model.LoginResponse{
			Token: token,
			User: model.LoginUser{
				ID: user.ID, Email: user.Email, Name: user.Name,
				Role: user.Role, StoreID: user.StoreID,
			},
		}, nil
	}

	admin, err := s.userRepo.GetAdminByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Sign(admin.ID, admin.Email, admin.Name, auth.RoleSuperadmin, "")
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &model.LoginResponse{
		Token: token,
		User: model.LoginUser{
			ID: admin.ID, Email: admin.Email, Name: admin.Name,
			Role: auth.RoleSuperadmin,
		},
	}, nil
}
