package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	p := NewTokenParser("secret", "freelink")
	token, err := p.NewToken(domain.Actor{
		UserID: "u1",
		Email:  "u1@example.com",
		Roles:  []domain.Role{domain.RoleClient, "admin"},
	}, time.Minute)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	actor, err := p.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if actor.UserID != "u1" || actor.Email != "u1@example.com" {
		t.Fatalf("unexpected actor: %+v", actor)
	}
	if len(actor.Roles) != 1 || !actor.HasRole(domain.RoleClient) {
		t.Fatalf("unknown roles must be dropped: %+v", actor.Roles)
	}
}

func TestParseRejects(t *testing.T) {
	p := NewTokenParser("secret", "freelink")
	expired, _ := p.NewToken(domain.Actor{UserID: "u1"}, -time.Minute)
	foreign, _ := NewTokenParser("other", "freelink").NewToken(domain.Actor{UserID: "u1"}, time.Minute)
	wrongIssuer, _ := NewTokenParser("secret", "elsewhere").NewToken(domain.Actor{UserID: "u1"}, time.Minute)

	for name, token := range map[string]string{
		"expired":      expired,
		"foreign":      foreign,
		"wrong issuer": wrongIssuer,
		"garbage":      "abc.def.ghi",
	} {
		if _, err := p.Parse(token); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}

func TestExtractBearer(t *testing.T) {
	if got := ExtractBearer("Bearer abc"); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := ExtractBearer("bearer abc"); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if ExtractBearer("Token abc") != "" || ExtractBearer("") != "" || ExtractBearer("Bearer") != "" {
		t.Fatal("malformed header accepted")
	}
}
