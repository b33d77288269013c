package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/user"
)

func Test_userApi_connect(t *testing.T) {
	ta := newTestApp(t)

	body := marshallObj(t, user.NewUser{ChatID: "12345", Username: "asha", FirstName: "Asha", LastName: "Juma"})

	// no bot API key
	req, rec := newRequest(http.MethodPost, "/v1/users/connect", body)
	ta.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("code = %v; want %v", rec.Code, http.StatusForbidden)
	}

	// wrong bot API key
	req, rec = newRequest(http.MethodPost, "/v1/users/connect", body)
	req.Header.Set("X-Bot-Api-Key", "nope")
	ta.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("code = %v; want %v", rec.Code, http.StatusForbidden)
	}

	// first contact creates a student account
	req, rec = newRequest(http.MethodPost, "/v1/users/connect", body)
	req.Header.Set("X-Bot-Api-Key", ta.conf.Server.BotAPIKey)
	ta.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if resp.Token == "" {
		t.Error("connect returned an empty token")
	}
	if resp.User.Role != user.RoleStudent {
		t.Errorf("role = %q; want %q", resp.User.Role, user.RoleStudent)
	}

	// reconnecting returns the same account
	req, rec = newRequest(http.MethodPost, "/v1/users/connect", body)
	req.Header.Set("X-Bot-Api-Key", ta.conf.Server.BotAPIKey)
	ta.app.ServeHTTP(rec, req)
	var resp2 struct {
		User user.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp2); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if resp2.User.ID != resp.User.ID {
		t.Errorf("user ID = %d; want %d", resp2.User.ID, resp.User.ID)
	}

	// the token authenticates against the API
	req, rec = newAuthRequest(http.MethodGet, "/v1/users/me", resp.Token)
	ta.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func Test_userApi_me(t *testing.T) {
	ta := newTestApp(t)
	usr := ta.createUser(t, "100", "asha", user.RoleStudent)

	tests := []httpTest{
		{name: "anonymous", method: http.MethodGet, path: "/v1/users/me",
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "authed", method: http.MethodGet, path: "/v1/users/me", token: ta.getToken(t, usr),
			wantCode: http.StatusOK, wantData: marshallObj(t, usr)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_setRole(t *testing.T) {
	ta := newTestApp(t)
	usr := ta.createUser(t, "100", "asha", user.RoleStudent)
	token := ta.getToken(t, usr)

	tests := []httpTest{
		{name: "anonymous", method: http.MethodPut, path: "/v1/users/me/role",
			body: marshallObj(t, user.UpdateRole{Role: user.RoleTeacher}),
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "unknown role", method: http.MethodPut, path: "/v1/users/me/role", token: token,
			body:     marshallObj(t, user.UpdateRole{Role: "admin"}),
			wantCode: http.StatusBadRequest},
		{name: "promote to teacher", method: http.MethodPut, path: "/v1/users/me/role", token: token,
			body:     marshallObj(t, user.UpdateRole{Role: user.RoleTeacher}),
			wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	promoted, err := ta.usrSvc.GetByID(context.Background(), usr.ID)
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}
	if !promoted.IsTeacher() {
		t.Errorf("role = %q; want %q", promoted.Role, user.RoleTeacher)
	}
}
