package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	domain := "contoso.sharepoint.com"
	if store.HasValidSession(domain) {
		t.Error("Expected no session before saving")
	}

	if err := store.SaveSession(domain, map[string]string{"url": "https://contoso.sharepoint.com/doc"}); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	// Metadata alone is not enough without cookie state.
	if store.HasValidSession(domain) {
		t.Error("Expected session without cookies to be invalid")
	}

	cookies := []Cookie{{Name: "FedAuth", Value: "abc", Domain: domain, Path: "/"}}
	if err := store.SaveCookies(domain, cookies); err != nil {
		t.Fatalf("SaveCookies failed: %v", err)
	}
	if !store.HasValidSession(domain) {
		t.Error("Expected valid session after saving metadata and cookies")
	}

	loaded, err := store.LoadCookies(domain)
	if err != nil {
		t.Fatalf("LoadCookies failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "FedAuth" {
		t.Errorf("Expected FedAuth cookie, got %+v", loaded)
	}
}

func TestStoreExpiry(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, time.Hour)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	domain := "contoso.sharepoint.com"
	if err := store.SaveSession(domain, nil); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if err := store.SaveCookies(domain, []Cookie{{Name: "x", Value: "y"}}); err != nil {
		t.Fatalf("SaveCookies failed: %v", err)
	}
	if !store.HasValidSession(domain) {
		t.Fatal("Expected fresh session to be valid")
	}

	// Age the session past the window.
	stale := Session{
		Domain:    domain,
		CreatedAt: time.Now().Add(-2 * time.Hour).Format(time.RFC3339),
	}
	data, _ := json.Marshal(stale)
	path := filepath.Join(dir, "contoso_sharepoint_com_session.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to age session: %v", err)
	}

	if store.HasValidSession(domain) {
		t.Error("Expected aged session to be invalid")
	}
}

func TestStoreCorruptSession(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, 0)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	domain := "contoso.sharepoint.com"
	if err := store.SaveCookies(domain, []Cookie{{Name: "x"}}); err != nil {
		t.Fatalf("SaveCookies failed: %v", err)
	}
	path := filepath.Join(dir, "contoso_sharepoint_com_session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("Failed to write corrupt session: %v", err)
	}

	if store.HasValidSession(domain) {
		t.Error("Expected corrupt session to be invalid")
	}
}

func TestStoreClearSession(t *testing.T) {
	store, err := NewStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	domain := "contoso.sharepoint.com"
	other := "fabrikam.sharepoint.com"
	for _, d := range []string{domain, other} {
		if err := store.SaveSession(d, nil); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}
		if err := store.SaveCookies(d, []Cookie{{Name: "x"}}); err != nil {
			t.Fatalf("SaveCookies failed: %v", err)
		}
	}

	if err := store.ClearSession(domain); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}
	if store.HasValidSession(domain) {
		t.Error("Expected cleared session to be invalid")
	}
	if !store.HasValidSession(other) {
		t.Error("Expected other domain to survive")
	}

	if err := store.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	if store.HasValidSession(other) {
		t.Error("Expected all sessions cleared")
	}
	if sessions := store.ListSessions(); len(sessions) != 0 {
		t.Errorf("Expected no sessions, got %d", len(sessions))
	}
}

func TestDomainOf(t *testing.T) {
	cases := []struct {
		url      string
		expected string
		wantErr  bool
	}{
		{"https://contoso.sharepoint.com/sites/Finance/doc.xlsx", "contoso.sharepoint.com", false},
		{"https://contoso-my.sharepoint.com/personal/user/Documents/x.xlsm", "contoso-my.sharepoint.com", false},
		{"not a url", "", true},
		{"/local/path.xlsx", "", true},
	}
	for _, c := range cases {
		got, err := DomainOf(c.url)
		if c.wantErr {
			if err == nil {
				t.Errorf("DomainOf(%q): expected error, got %q", c.url, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("DomainOf(%q) failed: %v", c.url, err)
			continue
		}
		if got != c.expected {
			t.Errorf("DomainOf(%q): expected %q, got %q", c.url, c.expected, got)
		}
	}
}

func TestIsLoginURL(t *testing.T) {
	cases := []struct {
		url      string
		expected bool
	}{
		{"https://login.microsoftonline.com/common/oauth2/authorize", true},
		{"https://login.live.com/login.srf", true},
		{"https://adfs.contoso.com/adfs/ls/", true},
		{"https://sts.contoso.com/federation/saml", true},
		{"https://contoso.sharepoint.com/sites/Finance", false},
	}
	for _, c := range cases {
		if got := isLoginURL(c.url); got != c.expected {
			t.Errorf("isLoginURL(%q): expected %v, got %v", c.url, c.expected, got)
		}
	}
}
