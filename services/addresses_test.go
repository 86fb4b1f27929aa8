package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"storefront/core"
)

// Requirement: Submit registers an address for the actor. The same content
// saved twice by one member is a conflict; other members may save identical
// content. New addresses are never the default.
func TestAddressService_Submit(t *testing.T) {
	tests := []struct {
		name    string
		actor   bool
		content string
		setup   func(*testing.T, *AddressService, *FakeStorage)
		wantErr error
	}{
		{
			name:    "registers a new address",
			actor:   true,
			content: "12 Gangnam-daero, Seoul",
		},
		{
			name:    "rejects unauthenticated caller",
			actor:   false,
			content: "12 Gangnam-daero, Seoul",
			wantErr: core.ErrUnauthenticated,
		},
		{
			name:    "rejects blank content",
			actor:   true,
			content: "",
			wantErr: core.ErrBlankAddress,
		},
		{
			name:    "rejects duplicate content for the same member",
			actor:   true,
			content: "12 Gangnam-daero, Seoul",
			setup: func(t *testing.T, service *AddressService, storage *FakeStorage) {
				member, _ := storage.GetMemberByID("m-alice")
				if _, err := service.Submit(actorFor(member), "12 Gangnam-daero, Seoul"); err != nil {
					t.Fatalf("Submit() setup error = %v", err)
				}
			},
			wantErr: core.ErrAddressExists,
		},
		{
			name:    "allows identical content owned by another member",
			actor:   true,
			content: "12 Gangnam-daero, Seoul",
			setup: func(t *testing.T, service *AddressService, storage *FakeStorage) {
				other := seedMember(t, storage, "m-bob", "bob@example.com", "key-bob", false)
				if _, err := service.Submit(actorFor(other), "12 Gangnam-daero, Seoul"); err != nil {
					t.Fatalf("Submit() setup error = %v", err)
				}
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			storage := NewFakeStorage()
			member := seedMember(t, storage, "m-alice", "alice@example.com", "key-alice", false)
			service := NewAddressService(storage)
			if test.setup != nil {
				test.setup(t, service, storage)
			}

			var actor *core.Actor
			if test.actor {
				actor = actorFor(member)
			}

			// Act
			address, err := service.Submit(actor, test.content)

			// Assert
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("Submit() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if address.Content != test.content {
				t.Errorf("Submit() content = %q, want %q", address.Content, test.content)
			}
			if address.IsDefault {
				t.Error("Submit() created address as default")
			}
		})
	}
}

// Requirement: Update and Delete act only on addresses the actor owns;
// unknown addresses are not found, foreign addresses are forbidden.
func TestAddressService_Ownership(t *testing.T) {
	// Arrange
	storage := NewFakeStorage()
	alice := seedMember(t, storage, "m-alice", "alice@example.com", "key-alice", false)
	bob := seedMember(t, storage, "m-bob", "bob@example.com", "key-bob", false)
	service := NewAddressService(storage)

	address, err := service.Submit(actorFor(alice), "12 Gangnam-daero, Seoul")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// Act / Assert
	if _, err := service.Update(actorFor(bob), address.ID, "changed"); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("Update() by stranger error = %v, want %v", err, core.ErrForbidden)
	}
	if err := service.Delete(actorFor(bob), address.ID); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("Delete() by stranger error = %v, want %v", err, core.ErrForbidden)
	}
	if _, err := service.Update(actorFor(alice), "a-missing", "changed"); !errors.Is(err, core.ErrAddressNotFound) {
		t.Errorf("Update() missing error = %v, want %v", err, core.ErrAddressNotFound)
	}
	if _, err := service.Update(actorFor(alice), address.ID, ""); !errors.Is(err, core.ErrBlankAddress) {
		t.Errorf("Update() blank error = %v, want %v", err, core.ErrBlankAddress)
	}

	updated, err := service.Update(actorFor(alice), address.ID, "34 Mapo-daero, Seoul")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Content != "34 Mapo-daero, Seoul" {
		t.Errorf("Update() content = %q", updated.Content)
	}

	if err := service.Delete(actorFor(alice), address.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := storage.GetAddressByID(address.ID); !errors.Is(err, core.ErrAddressNotFound) {
		t.Errorf("address survived Delete(): error = %v", err)
	}
}

// Requirement: SetDefault designates exactly one default per member; an
// earlier default is cleared by the promotion.
func TestAddressService_SetDefault(t *testing.T) {
	// Arrange
	storage := NewFakeStorage()
	alice := seedMember(t, storage, "m-alice", "alice@example.com", "key-alice", false)
	service := NewAddressService(storage)

	first, err := service.Submit(actorFor(alice), "12 Gangnam-daero, Seoul")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	second, err := service.Submit(actorFor(alice), "34 Mapo-daero, Seoul")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// Act
	if _, err := service.SetDefault(actorFor(alice), first.ID); err != nil {
		t.Fatalf("SetDefault() error = %v", err)
	}
	if _, err := service.SetDefault(actorFor(alice), second.ID); err != nil {
		t.Fatalf("SetDefault() error = %v", err)
	}

	// Assert
	addresses, err := service.List(actorFor(alice))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	defaults := 0
	for _, a := range addresses {
		if a.IsDefault {
			defaults++
			if a.ID != second.ID {
				t.Errorf("default = %q, want %q", a.ID, second.ID)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("defaults = %d, want 1", defaults)
	}
}

// Requirement: concurrent default promotions for one member settle with
// exactly one default address.
func TestAddressService_ConcurrentSetDefault(t *testing.T) {
	// Arrange
	storage := NewFakeStorage()
	alice := seedMember(t, storage, "m-alice", "alice@example.com", "key-alice", false)
	service := NewAddressService(storage)

	const count = 8
	ids := make([]string, count)
	for i := 0; i < count; i++ {
		address, err := service.Submit(actorFor(alice), fmt.Sprintf("%d Test-ro, Seoul", i))
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		ids[i] = address.ID
	}

	// Act
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := service.SetDefault(actorFor(alice), id); err != nil {
				t.Errorf("SetDefault() error = %v", err)
			}
		}(id)
	}
	wg.Wait()

	// Assert
	addresses, err := service.List(actorFor(alice))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	defaults := 0
	for _, a := range addresses {
		if a.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Errorf("defaults = %d, want 1", defaults)
	}
}

// Requirement: deleting the default address leaves the member with no
// default; nothing is promoted implicitly.
func TestAddressService_DeleteDefaultLeavesNoDefault(t *testing.T) {
	// Arrange
	storage := NewFakeStorage()
	alice := seedMember(t, storage, "m-alice", "alice@example.com", "key-alice", false)
	service := NewAddressService(storage)

	first, _ := service.Submit(actorFor(alice), "12 Gangnam-daero, Seoul")
	second, _ := service.Submit(actorFor(alice), "34 Mapo-daero, Seoul")
	if _, err := service.SetDefault(actorFor(alice), first.ID); err != nil {
		t.Fatalf("SetDefault() error = %v", err)
	}

	// Act
	if err := service.Delete(actorFor(alice), first.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Assert
	remaining, err := storage.GetAddressByID(second.ID)
	if err != nil {
		t.Fatalf("GetAddressByID() error = %v", err)
	}
	if remaining.IsDefault {
		t.Error("surviving address was promoted to default implicitly")
	}
}
