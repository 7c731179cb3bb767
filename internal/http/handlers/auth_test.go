package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"townboard/backend/internal/models"
)

// TestRegisterValidatesPayload verifies field validation before any storage work.
func TestRegisterValidatesPayload(t *testing.T) {
	h := testHandler()

	cases := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"missing email", `{"name":"A","password":"longenough1"}`},
		{"bad email", `{"email":"not-an-email","name":"A","password":"longenough1"}`},
		{"short password", `{"email":"a@example.com","name":"A","password":"short"}`},
		{"missing name", `{"email":"a@example.com","password":"longenough1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tc.body))
			resp := httptest.NewRecorder()
			h.Register(resp, req)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
			}
		})
	}
}

// TestRegisterLoginMe verifies the full account flow against the database.
func TestRegisterLoginMe(t *testing.T) {
	env := newTestEnv(t, nil)

	email := fmt.Sprintf("account_%d@example.com", time.Now().UnixNano())
	token, userID := env.register(t, email)
	if token == "" || userID == 0 {
		t.Fatalf("expected token and user id from register")
	}

	resp := env.do(t, http.MethodPost, "/auth/register",
		"", fmt.Sprintf(`{"email":%q,"name":"Dup","password":"secret-pass-1"}`, email))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", resp.Code)
	}

	resp = env.do(t, http.MethodPost, "/auth/login",
		"", fmt.Sprintf(`{"email":%q,"password":"wrong-pass-1"}`, email))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", resp.Code)
	}

	resp = env.do(t, http.MethodPost, "/auth/login",
		"", fmt.Sprintf(`{"email":%q,"password":"secret-pass-1"}`, email))
	if resp.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", resp.Code, resp.Body.String())
	}
	var login struct {
		AccessToken string      `json:"accessToken"`
		User        models.User `json:"user"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if login.AccessToken == "" || login.User.ID != userID {
		t.Fatalf("unexpected login response %+v", login)
	}
	if strings.Contains(resp.Body.String(), "password") {
		t.Fatalf("password material leaked in response: %s", resp.Body.String())
	}

	resp = env.do(t, http.MethodGet, "/me", login.AccessToken, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("me failed: %d %s", resp.Code, resp.Body.String())
	}
	var me models.User
	if err := json.Unmarshal(resp.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me response: %v", err)
	}
	if me.ID != userID || me.Email != email {
		t.Fatalf("unexpected me response %+v", me)
	}
}
