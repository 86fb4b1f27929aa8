package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"storefront/core"
	"storefront/pkg/crypto"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 20
)

// JoinInput contains the data needed to register a new member
type JoinInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginInput contains the credentials for authentication
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult contains the authenticated member and both credentials: the
// long-lived API key and a fresh short-lived access token.
type LoginResult struct {
	Member      *core.Member `json:"member"`
	APIKey      string       `json:"apiKey"`
	AccessToken string       `json:"accessToken"`
}

// UpdateInput carries a profile update. Blank fields are left unchanged.
type UpdateInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type MemberService struct {
	db        core.MemberStorage
	addresses core.AddressStorage
	passwords core.PasswordHandler
	resolver  *AuthResolver
	cache     core.Cache // optional, invalidated on member mutation
	nanoid    *crypto.NanoIDGenerator
}

func NewMemberService(db core.MemberStorage, addresses core.AddressStorage, passwords core.PasswordHandler, resolver *AuthResolver, cache core.Cache) *MemberService {
	return &MemberService{
		db:        db,
		addresses: addresses,
		passwords: passwords,
		resolver:  resolver,
		cache:     cache,
		nanoid:    crypto.MustNanoID(),
	}
}

// Join registers a new customer account. The API key is minted here and
// stays stable for the life of the account.
func (s *MemberService) Join(input JoinInput) (*core.Member, error) {
	return s.join(input, false)
}

// JoinAdmin registers an administrator account.
func (s *MemberService) JoinAdmin(input JoinInput) (*core.Member, error) {
	return s.join(input, true)
}

func (s *MemberService) join(input JoinInput, isAdmin bool) (*core.Member, error) {
	if err := validateJoinInput(input); err != nil {
		return nil, err
	}

	// Step 1: Check if the email is already registered
	existing, err := s.db.GetMemberByEmail(input.Email)
	if err != nil && !errors.Is(err, core.ErrMemberNotFound) {
		return nil, fmt.Errorf("failed to check existing member: %w", err)
	}
	if existing != nil {
		return nil, core.ErrEmailExists
	}

	// Step 2: Hash the password
	hashed, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 3: Create the member with a freshly minted API key
	id, err := s.nanoid.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}

	member := &core.Member{
		ID:       id,
		Email:    input.Email,
		Name:     input.Name,
		Password: hashed,
		APIKey:   uuid.NewString(),
		IsAdmin:  isAdmin,
	}

	if err := s.db.CreateMember(member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	return member, nil
}

// Login authenticates a member with email and password and issues a fresh
// access token.
func (s *MemberService) Login(input LoginInput) (*LoginResult, error) {
	// Step 1: Find the member by email
	member, err := s.db.GetMemberByEmail(input.Email)
	if err != nil {
		if errors.Is(err, core.ErrMemberNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	// Step 2: Verify the password
	valid, err := s.passwords.Verify(input.Password, member.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, core.ErrInvalidCredentials
	}

	// Step 3: Issue an access token
	accessToken, err := s.resolver.IssueToken(member)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &LoginResult{
		Member:      member,
		APIKey:      member.APIKey,
		AccessToken: accessToken,
	}, nil
}

// Get loads a member from the credential store. Handlers that must not
// trust claims-derived actors re-read through here.
func (s *MemberService) Get(id string) (*core.Member, error) {
	return s.db.GetMemberByID(id)
}

// Update applies a profile update, skipping blank fields. A new password is
// re-hashed. The principal cache entry is invalidated so the next API-key
// resolution sees the fresh record.
func (s *MemberService) Update(member *core.Member, input UpdateInput) (*core.Member, error) {
	if input.Email != "" {
		member.Email = input.Email
	}
	if input.Name != "" {
		member.Name = input.Name
	}
	if input.Password != "" {
		if len(input.Password) < minPasswordLength {
			return nil, core.ErrPasswordTooShort
		}
		if len(input.Password) > maxPasswordLength {
			return nil, core.ErrPasswordTooLong
		}
		hashed, err := s.passwords.Hash(input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		member.Password = hashed
	}

	if err := s.db.UpdateMember(member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(member.APIKey)
	}

	return member, nil
}

// Withdraw destroys the member account and every address it owns.
// Administrators cannot withdraw.
func (s *MemberService) Withdraw(actor *core.Actor) error {
	if actor == nil || actor.Member == nil {
		return core.ErrUnauthenticated
	}

	// Authoritative read: withdrawal must not act on claims-derived data.
	member, err := s.db.GetMemberByID(actor.Member.ID)
	if err != nil {
		return err
	}

	if member.IsAdmin {
		return core.ErrAdminWithdrawal
	}

	if _, err := s.addresses.DeleteMemberAddresses(member.ID); err != nil {
		return fmt.Errorf("failed to delete member addresses: %w", err)
	}

	if err := s.db.DeleteMember(member.ID); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(member.APIKey)
	}

	return nil
}

// Count returns the number of registered members.
func (s *MemberService) Count() (int64, error) {
	return s.db.CountMembers()
}

func validateJoinInput(input JoinInput) error {
	if input.Email == "" {
		return core.ErrEmailRequired
	}
	if input.Password == "" {
		return core.ErrPasswordRequired
	}
	if len(input.Password) < minPasswordLength {
		return core.ErrPasswordTooShort
	}
	if len(input.Password) > maxPasswordLength {
		return core.ErrPasswordTooLong
	}
	if input.Name == "" {
		return core.ErrNameRequired
	}
	return nil
}
