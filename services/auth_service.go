package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"trendora/models"
	"trendora/repositories"
	"trendora/utils"
)

type AuthService struct {
	users         repositories.UserStore
	carts         repositories.CartStore
	subscriptions repositories.SubscriptionStore
}

func NewAuthService(users repositories.UserStore, carts repositories.CartStore, subscriptions repositories.SubscriptionStore) *AuthService {
	return &AuthService{users: users, carts: carts, subscriptions: subscriptions}
}

// Register creates the account and its cart. Every user owns exactly one
// cart from signup on; cart endpoints never have to handle a missing row.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      "customer",
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, err
	}

	if err := s.carts.CreateCart(ctx, user.ID); err != nil {
		// The cart is provisioned lazily on first AddItem if this failed.
		log.Printf("Failed to create cart for user %d: %v", user.ID, err)
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, User: *user}, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrForbidden)
		}
		return nil, err
	}

	valid, err := utils.VerifyPassword(user.Password, req.Password)
	if err != nil || !valid {
		return nil, fmt.Errorf("%w: invalid email or password", ErrForbidden)
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, User: *user}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return user, nil
}

// GetProfileDetails is the profile header payload: names, email and
// whether the user currently holds an active subscription.
func (s *AuthService) GetProfileDetails(ctx context.Context, userID int) (*models.ProfileDetails, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	active, err := s.subscriptions.HasActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.ProfileDetails{
		FirstName:             user.FirstName,
		LastName:              user.LastName,
		Email:                 user.Email,
		HasActiveSubscription: active,
	}, nil
}
