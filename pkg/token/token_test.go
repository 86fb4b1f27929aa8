package token

import (
	"errors"
	"testing"
	"time"

	"storefront/core"
)

const testSecret = "secretshouldbeatleast32charslong"

func testMember() *core.Member {
	return &core.Member{
		ID:      "m-alice",
		Email:   "alice@example.com",
		Name:    "Alice",
		IsAdmin: true,
	}
}

// Requirement: Issue and Decode round-trip the member's public fields.
func TestCodec_RoundTrip(t *testing.T) {
	// Arrange
	codec := NewCodec(testSecret)
	member := testMember()

	// Act
	signed, err := codec.Issue(member, 30*time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	claims, err := codec.Decode(signed)

	// Assert
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if claims.MemberID != member.ID || claims.Email != member.Email || claims.Name != member.Name {
		t.Errorf("Decode() claims = %+v, want fields of %+v", claims, member)
	}
	if !claims.IsAdmin {
		t.Error("Decode() dropped the admin flag")
	}

	view := claims.Member()
	if view.ID != member.ID || view.IsAdmin != member.IsAdmin {
		t.Errorf("Member() = %+v, want view of %+v", view, member)
	}
	if view.Password == "" {
		t.Error("Member() should fill the password slot with a placeholder")
	}
}

// Requirement: every decode failure collapses to ErrInvalidToken so callers
// can fall back to the API-key path.
func TestCodec_Decode_Invalid(t *testing.T) {
	codec := NewCodec(testSecret)
	member := testMember()

	valid, err := codec.Issue(member, 30*time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	otherCodec := NewCodec("differentsecretthatisalso32chars")
	foreign, err := otherCodec.Issue(member, 30*time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	expired, err := codec.Issue(member, -time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Flip one byte of the signature.
	tampered := []byte(valid)
	tampered[len(tampered)-1] ^= 0x01

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "signed with a different secret", token: foreign},
		{name: "expired", token: expired},
		{name: "tampered signature", token: string(tampered)},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			claims, err := codec.Decode(test.token)
			if !errors.Is(err, core.ErrInvalidToken) {
				t.Fatalf("Decode() error = %v, want %v", err, core.ErrInvalidToken)
			}
			if claims != nil {
				t.Errorf("Decode() claims = %+v, want nil", claims)
			}
		})
	}
}

// Requirement: a token whose identity claims are empty is rejected even when
// the signature verifies.
func TestCodec_Decode_EmptyClaims(t *testing.T) {
	codec := NewCodec(testSecret)

	signed, err := codec.Issue(&core.Member{}, 30*time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := codec.Decode(signed); !errors.Is(err, core.ErrInvalidToken) {
		t.Fatalf("Decode() error = %v, want %v", err, core.ErrInvalidToken)
	}
}
