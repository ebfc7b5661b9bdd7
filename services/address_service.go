package services

import (
	"context"
	"errors"
	"fmt"

	"trendora/models"
	"trendora/repositories"
)

// AddressService manages delivery addresses. The first address a user saves
// becomes the default automatically because checkout requires one.
type AddressService struct {
	addresses repositories.AddressStore
}

func NewAddressService(addresses repositories.AddressStore) *AddressService {
	return &AddressService{addresses: addresses}
}

func (s *AddressService) CreateAddress(ctx context.Context, userID int, req models.CreateAddressRequest) (*models.UserAddress, error) {
	hasDefault, err := s.addresses.HasDefault(ctx, userID)
	if err != nil {
		return nil, err
	}

	addressType := req.AddressType
	if addressType == "" {
		addressType = "home"
	}

	address := &models.UserAddress{
		UserID:      userID,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		AddressType: addressType,
		IsDefault:   req.IsDefault || !hasDefault,
	}
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *AddressService) ListAddresses(ctx context.Context, userID int) ([]models.UserAddress, error) {
	return s.addresses.ListByUser(ctx, userID)
}

func (s *AddressService) SetDefault(ctx context.Context, userID, addressID int) error {
	address, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: address %d", ErrNotFound, addressID)
		}
		return err
	}
	if address.UserID != userID {
		return fmt.Errorf("%w: address belongs to another user", ErrForbidden)
	}
	return s.addresses.SetDefault(ctx, userID, addressID)
}

func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID int) error {
	address, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: address %d", ErrNotFound, addressID)
		}
		return err
	}
	if address.UserID != userID {
		return fmt.Errorf("%w: address belongs to another user", ErrForbidden)
	}
	return s.addresses.Delete(ctx, addressID)
}
