package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"storefront/core"
	"storefront/pkg/cache"
	"storefront/pkg/token"
)

func newMemberService(storage *FakeStorage, memberCache core.Cache) *MemberService {
	codec := token.NewCodec(testSecret)
	resolver := NewAuthResolver(storage, codec, memberCache, 30*time.Minute)
	return NewMemberService(storage, storage, core.NewArgon2(), resolver, memberCache)
}

// Requirement: Join registers a member with a hashed password and a freshly
// minted API key; input validation rejects blank fields and out-of-range
// passwords, and a registered email cannot be reused.
func TestMemberService_Join(t *testing.T) {
	tests := []struct {
		name    string
		input   JoinInput
		setup   func(*testing.T, *MemberService)
		wantErr error
	}{
		{
			name:  "registers member for valid input",
			input: JoinInput{Email: "alice@example.com", Password: "SecurePass1", Name: "Alice"},
		},
		{
			name:    "rejects blank email",
			input:   JoinInput{Email: "", Password: "SecurePass1", Name: "Alice"},
			wantErr: core.ErrEmailRequired,
		},
		{
			name:    "rejects blank password",
			input:   JoinInput{Email: "alice@example.com", Password: "", Name: "Alice"},
			wantErr: core.ErrPasswordRequired,
		},
		{
			name:    "rejects short password",
			input:   JoinInput{Email: "alice@example.com", Password: "short1", Name: "Alice"},
			wantErr: core.ErrPasswordTooShort,
		},
		{
			name:    "rejects overlong password",
			input:   JoinInput{Email: "alice@example.com", Password: strings.Repeat("x", 21), Name: "Alice"},
			wantErr: core.ErrPasswordTooLong,
		},
		{
			name:    "rejects blank name",
			input:   JoinInput{Email: "alice@example.com", Password: "SecurePass1", Name: ""},
			wantErr: core.ErrNameRequired,
		},
		{
			name:  "rejects duplicate email",
			input: JoinInput{Email: "alice@example.com", Password: "SecurePass1", Name: "Alice"},
			setup: func(t *testing.T, service *MemberService) {
				if _, err := service.Join(JoinInput{Email: "alice@example.com", Password: "SecurePass1", Name: "First"}); err != nil {
					t.Fatalf("Join() setup error = %v", err)
				}
			},
			wantErr: core.ErrEmailExists,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			storage := NewFakeStorage()
			service := newMemberService(storage, nil)
			if test.setup != nil {
				test.setup(t, service)
			}

			// Act
			member, err := service.Join(test.input)

			// Assert
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("Join() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Join() error = %v", err)
			}
			if member.ID == "" || member.APIKey == "" {
				t.Errorf("Join() member = %+v, want id and api key", member)
			}
			if member.Password == test.input.Password {
				t.Error("Join() stored the plaintext password")
			}
			if member.IsAdmin {
				t.Error("Join() created an administrator")
			}
		})
	}
}

// Requirement: Login authenticates by email and password, returning the
// stable API key plus a fresh access token. Wrong password and unknown
// email collapse to the same credential error.
func TestMemberService_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "logs in with valid credentials",
			email:    "alice@example.com",
			password: "SecurePass1",
		},
		{
			name:     "rejects wrong password",
			email:    "alice@example.com",
			password: "WrongPass99",
			wantErr:  core.ErrInvalidCredentials,
		},
		{
			name:     "rejects unknown email",
			email:    "ghost@example.com",
			password: "SecurePass1",
			wantErr:  core.ErrInvalidCredentials,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			storage := NewFakeStorage()
			service := newMemberService(storage, nil)
			joined, err := service.Join(JoinInput{Email: "alice@example.com", Password: "SecurePass1", Name: "Alice"})
			if err != nil {
				t.Fatalf("Join() error = %v", err)
			}

			// Act
			result, err := service.Login(LoginInput{Email: test.email, Password: test.password})

			// Assert
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("Login() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if result.APIKey != joined.APIKey {
				t.Errorf("Login() api key = %q, want the key minted at join", result.APIKey)
			}
			if result.AccessToken == "" {
				t.Error("Login() should return an access token")
			}
		})
	}
}

// Requirement: Update skips blank fields, re-hashes a new password, and
// invalidates the member's cache entry so the next API-key resolution sees
// the fresh record.
func TestMemberService_Update(t *testing.T) {
	// Arrange
	storage := NewFakeStorage()
	memberCache := cache.NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 10})
	service := newMemberService(storage, memberCache)

	member, err := service.Join(JoinInput{Email: "alice@example.com", Password: "SecurePass1", Name: "Alice"})
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if err := memberCache.Set(member.APIKey, member); err != nil {
		t.Fatalf("cache Set() error = %v", err)
	}
	oldHash := member.Password

	// Act
	updated, err := service.Update(member, UpdateInput{Name: "Alice B.", Password: "NewSecret22"})

	// Assert
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Alice B." {
		t.Errorf("Update() name = %q", updated.Name)
	}
	if updated.Email != "alice@example.com" {
		t.Errorf("Update() changed blank email field: %q", updated.Email)
	}
	if updated.Password == oldHash || updated.Password == "NewSecret22" {
		t.Error("Update() did not re-hash the new password")
	}
	if cached, err := memberCache.Get(member.APIKey); err == nil && cached != nil {
		t.Error("Update() left a stale cache entry")
	}
}

// Requirement: Update enforces password length bounds on the replacement
// password.
func TestMemberService_UpdatePasswordBounds(t *testing.T) {
	storage := NewFakeStorage()
	service := newMemberService(storage, nil)
	member, err := service.Join(JoinInput{Email: "alice@example.com", Password: "SecurePass1", Name: "Alice"})
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}

	if _, err := service.Update(member, UpdateInput{Password: "short"}); !errors.Is(err, core.ErrPasswordTooShort) {
		t.Errorf("Update() error = %v, want %v", err, core.ErrPasswordTooShort)
	}
	if _, err := service.Update(member, UpdateInput{Password: strings.Repeat("x", 21)}); !errors.Is(err, core.ErrPasswordTooLong) {
		t.Errorf("Update() error = %v, want %v", err, core.ErrPasswordTooLong)
	}
}

// Requirement: Withdraw destroys the account and every address it owns.
// Administrators cannot withdraw, and the authoritative check reads the
// store rather than trusting claims-derived data.
func TestMemberService_Withdraw(t *testing.T) {
	tests := []struct {
		name    string
		asAdmin bool
		actor   bool
		wantErr error
	}{
		{
			name:  "withdraws customer and removes addresses",
			actor: true,
		},
		{
			name:    "refuses administrator withdrawal",
			actor:   true,
			asAdmin: true,
			wantErr: core.ErrAdminWithdrawal,
		},
		{
			name:    "rejects unauthenticated caller",
			actor:   false,
			wantErr: core.ErrUnauthenticated,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			storage := NewFakeStorage()
			service := newMemberService(storage, nil)
			addresses := NewAddressService(storage)

			var member *core.Member
			var err error
			if test.asAdmin {
				member, err = service.JoinAdmin(JoinInput{Email: "root@example.com", Password: "SecurePass1", Name: "Root"})
			} else {
				member, err = service.Join(JoinInput{Email: "alice@example.com", Password: "SecurePass1", Name: "Alice"})
			}
			if err != nil {
				t.Fatalf("Join() error = %v", err)
			}
			if _, err := addresses.Submit(actorFor(member), "12 Gangnam-daero, Seoul"); err != nil {
				t.Fatalf("Submit() error = %v", err)
			}

			var actor *core.Actor
			if test.actor {
				actor = actorFor(member)
			}

			// Act
			err = service.Withdraw(actor)

			// Assert
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("Withdraw() error = %v, want %v", err, test.wantErr)
				}
				if _, err := storage.GetMemberByID(member.ID); err != nil {
					t.Error("Withdraw() removed the member despite failing")
				}
				return
			}
			if err != nil {
				t.Fatalf("Withdraw() error = %v", err)
			}
			if _, err := storage.GetMemberByID(member.ID); !errors.Is(err, core.ErrMemberNotFound) {
				t.Errorf("member survived Withdraw(): error = %v", err)
			}
			remaining, err := storage.ListAddressesByMember(member.ID)
			if err != nil {
				t.Fatalf("ListAddressesByMember() error = %v", err)
			}
			if len(remaining) != 0 {
				t.Errorf("Withdraw() left %d addresses", len(remaining))
			}
		})
	}
}

// Requirement: a claims-derived actor whose admin flag was stripped in the
// store is still refused withdrawal; the store record decides.
func TestMemberService_WithdrawUsesStoreRecord(t *testing.T) {
	// Arrange
	storage := NewFakeStorage()
	service := newMemberService(storage, nil)
	admin, err := service.JoinAdmin(JoinInput{Email: "root@example.com", Password: "SecurePass1", Name: "Root"})
	if err != nil {
		t.Fatalf("JoinAdmin() error = %v", err)
	}

	// Forge a claims view that hides the admin flag.
	forged := &core.Actor{
		Member: &core.Member{ID: admin.ID, Email: admin.Email, Name: admin.Name, IsAdmin: false},
		Source: core.FromClaims,
	}

	// Act
	err = service.Withdraw(forged)

	// Assert
	if !errors.Is(err, core.ErrAdminWithdrawal) {
		t.Fatalf("Withdraw() error = %v, want %v", err, core.ErrAdminWithdrawal)
	}
}
