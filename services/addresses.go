package services

import (
	"errors"
	"fmt"

	"storefront/core"
	"storefront/pkg/crypto"
)

type AddressService struct {
	db     core.AddressStorage
	nanoid *crypto.NanoIDGenerator
}

func NewAddressService(db core.AddressStorage) *AddressService {
	return &AddressService{db: db, nanoid: crypto.MustNanoID()}
}

// Submit registers a new address for the actor. Identical content already
// saved by the same member is a conflict. New addresses are never created
// as the default; the member re-designates explicitly.
func (s *AddressService) Submit(actor *core.Actor, content string) (*core.Address, error) {
	if actor == nil || actor.Member == nil {
		return nil, core.ErrUnauthenticated
	}
	if content == "" {
		return nil, core.ErrBlankAddress
	}

	existing, err := s.db.GetAddressByMemberAndContent(actor.Member.ID, content)
	if err != nil && !errors.Is(err, core.ErrAddressNotFound) {
		return nil, fmt.Errorf("failed to check existing address: %w", err)
	}
	if existing != nil {
		return nil, core.ErrAddressExists
	}

	id, err := s.nanoid.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}

	address := &core.Address{
		ID:        id,
		MemberID:  actor.Member.ID,
		Content:   content,
		IsDefault: false,
	}

	if err := s.db.CreateAddress(address); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	return address, nil
}

// List returns the actor's addresses in registration order.
func (s *AddressService) List(actor *core.Actor) ([]*core.Address, error) {
	if actor == nil || actor.Member == nil {
		return nil, core.ErrUnauthenticated
	}
	return s.db.ListAddressesByMember(actor.Member.ID)
}

// Update overwrites an address's content. Ownership is required and blank
// content is rejected.
func (s *AddressService) Update(actor *core.Actor, addressID, content string) (*core.Address, error) {
	if content == "" {
		return nil, core.ErrBlankAddress
	}

	address, err := s.owned(actor, addressID)
	if err != nil {
		return nil, err
	}

	address.Content = content
	if err := s.db.UpdateAddress(address); err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	return address, nil
}

// Delete removes an address. If it was the default, no replacement default
// is selected; the member re-designates explicitly.
func (s *AddressService) Delete(actor *core.Actor, addressID string) error {
	if _, err := s.owned(actor, addressID); err != nil {
		return err
	}
	return s.db.DeleteAddress(addressID)
}

// SetDefault designates the address as the member's single default. The
// storage adapter clears every other default and sets the target in one
// transaction, so concurrent calls for the same member settle with exactly
// one default.
func (s *AddressService) SetDefault(actor *core.Actor, addressID string) (*core.Address, error) {
	if _, err := s.owned(actor, addressID); err != nil {
		return nil, err
	}
	return s.db.SetDefaultAddress(actor.Member.ID, addressID)
}

func (s *AddressService) owned(actor *core.Actor, addressID string) (*core.Address, error) {
	if actor == nil || actor.Member == nil {
		return nil, core.ErrUnauthenticated
	}

	address, err := s.db.GetAddressByID(addressID)
	if err != nil {
		return nil, err
	}
	if address.MemberID != actor.Member.ID {
		return nil, core.ErrForbidden
	}

	return address, nil
}
