package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueVerify(t *testing.T) {
	a := NewAuthenticator("secret")

	token, err := a.Issue("alice", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	user, err := a.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if user != "alice" {
		t.Errorf("user = %q, want alice", user)
	}

	if _, err := a.Issue("  ", time.Hour); err == nil {
		t.Error("empty user id should be rejected")
	}
}

func TestVerify_Rejects(t *testing.T) {
	a := NewAuthenticator("secret")
	good, _ := a.Issue("alice", time.Hour)

	other := NewAuthenticator("another-secret")
	forged, _ := other.Issue("alice", time.Hour)

	past := NewAuthenticator("secret")
	past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := past.Issue("alice", time.Hour)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{"wrong secret", forged, ErrInvalidToken},
		{"expired", expired, ErrInvalidToken},
		{"tampered", good[:len(good)-4] + "AAAA", ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Verify(tt.token); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"", ""},
		{"Bearer", ""},
	}
	for _, tt := range tests {
		if got := BearerToken(tt.header); got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
