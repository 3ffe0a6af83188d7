package service

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
)

func unsignedToken(t *testing.T, claims string) string {
	t.Helper()
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload := enc.EncodeToString([]byte(claims))
	return header + "." + payload + "."
}

func TestLogin_InstallsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accessToken": "tok-123"}`))
	}))
	defer server.Close()

	client := testClient(server)

	token, err := client.Login(context.Background(), "user@example.com", "hunter22")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("unexpected token: %s", token)
	}
	if client.Token() != "tok-123" {
		t.Fatalf("token not installed on client: %s", client.Token())
	}
}

func TestLogin_RequiresCredentials(t *testing.T) {
	client := NewClient("", nil)
	if _, err := client.Login(context.Background(), "", "pw"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := client.Login(context.Background(), "user@example.com", ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestLogin_EmptyTokenIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := testClient(server)

	if _, err := client.Login(context.Background(), "user@example.com", "pw"); err == nil {
		t.Fatal("expected error")
	}
	if client.Token() != "" {
		t.Fatal("token should stay empty on failed login")
	}
}

func TestRoleFromToken(t *testing.T) {
	tests := []struct {
		name   string
		claims string
		want   Role
	}{
		{"admin", `{"role":"ADMIN"}`, RoleAdmin},
		{"user", `{"role":"USER"}`, RoleUser},
		{"missing role", `{"sub":"client-1"}`, RoleUser},
		{"unknown role", `{"role":"SUPERVISOR"}`, RoleUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RoleFromToken(unsignedToken(t, tt.claims))
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRoleFromToken_Malformed(t *testing.T) {
	if _, err := RoleFromToken("not-a-token"); err == nil {
		t.Fatal("expected error")
	}
}
