package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	"empregol-backend/internal/model"
)

// mockOAuth2Server is a fake authorization server issuing one code per user
type mockOAuth2Server struct {
	*httptest.Server
	Config           *oauth2.Config
	MockInfoEndpoint string

	mu        sync.Mutex
	users     map[string]model.GoogleUserInfo
	exchanged map[string]bool
	// legacyIDField serves the v2 payload ("id" instead of "sub")
	legacyIDField bool
}

func newMockOAuth2Server(users []model.GoogleUserInfo) *mockOAuth2Server {
	m := &mockOAuth2Server{
		users:     make(map[string]model.GoogleUserInfo),
		exchanged: make(map[string]bool),
	}
	for _, u := range users {
		m.users[u.GID] = u
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", m.handleToken)
	mux.HandleFunc("/userinfo", m.handleUserInfo)
	m.Server = httptest.NewServer(mux)

	m.MockInfoEndpoint = m.URL + "/userinfo"
	m.Config = &oauth2.Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:   m.URL + "/auth",
			TokenURL:  m.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: "http://localhost/callback",
	}
	return m
}

func (m *mockOAuth2Server) getAuthCode(gid string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[gid]; !ok {
		return "", fmt.Errorf("unknown user %s", gid)
	}
	return "code-" + gid, nil
}

func (m *mockOAuth2Server) isUserTokenExchanged(gid string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exchanged[gid]
}

func (m *mockOAuth2Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	gid := strings.TrimPrefix(r.Form.Get("code"), "code-")

	m.mu.Lock()
	_, ok := m.users[gid]
	if ok {
		m.exchanged[gid] = true
	}
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": "token-" + gid,
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func (m *mockOAuth2Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	gid := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer token-")

	m.mu.Lock()
	u, ok := m.users[gid]
	legacy := m.legacyIDField
	m.mu.Unlock()

	if !ok {
		http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
		return
	}

	payload := map[string]string{
		"email":       u.Email,
		"given_name":  u.FirstName,
		"family_name": u.LastName,
		"picture":     u.ProfilePicture,
	}
	if legacy {
		payload["id"] = u.GID
	} else {
		payload["sub"] = u.GID
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
