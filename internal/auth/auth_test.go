package auth

import (
	"testing"
	"time"
)

func TestManagerIssueAndValidate(t *testing.T) {
	m := NewManager(time.Hour)

	session, err := m.IssueRoom("101")
	if err != nil {
		t.Fatalf("issue room session: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected a token to be generated")
	}
	if session.Admin {
		t.Fatalf("room session must not be admin")
	}

	validated, ok := m.Validate(session.Token)
	if !ok {
		t.Fatalf("expected token to validate")
	}
	if validated.Room != "101" {
		t.Fatalf("unexpected room on session: %s", validated.Room)
	}
}

func TestManagerAdminSession(t *testing.T) {
	m := NewManager(time.Hour)
	session, err := m.IssueAdmin()
	if err != nil {
		t.Fatalf("issue admin session: %v", err)
	}
	if !session.Admin {
		t.Fatalf("expected admin flag set")
	}
	if session.Room != "" {
		t.Fatalf("admin session must not carry a room")
	}
}

func TestManagerRevoke(t *testing.T) {
	m := NewManager(time.Hour)
	session, err := m.IssueRoom("101")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	m.Revoke(session.Token)
	if _, ok := m.Validate(session.Token); ok {
		t.Fatalf("revoked token must not validate")
	}
}

func TestManagerExpiry(t *testing.T) {
	m := NewManager(time.Millisecond)
	session, err := m.IssueRoom("101")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok := m.Validate(session.Token); ok {
		t.Fatalf("expired token must not validate")
	}
}

func TestManagerUnknownToken(t *testing.T) {
	m := NewManager(time.Hour)
	if _, ok := m.Validate("no-such-token"); ok {
		t.Fatalf("unknown token must not validate")
	}
}

func TestManagerTokensAreUnique(t *testing.T) {
	m := NewManager(time.Hour)
	a, err := m.IssueRoom("101")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	b, err := m.IssueRoom("101")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	if a.Token == b.Token {
		t.Fatalf("two sessions shared one token")
	}
}
