package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dgrijalva/jwt-go"

	echoapi "github.com/trezcool/tathmini/apps/api/echo"
	"github.com/trezcool/tathmini/core"
	"github.com/trezcool/tathmini/core/admin"
	"github.com/trezcool/tathmini/tests"
)

func Test_authApi_login(t *testing.T) {
	app := setup(t)

	adm := testutil.CreateAdmin(t, admRepo, "Admin", "admin@test.cd", "s3cret", true)
	sleeper := testutil.CreateAdmin(t, admRepo, "Sleeper", "sleeper@test.cd", "s3cret", false)
	_ = sleeper

	authFailed := marchallObj(t, httpErr{Error: "authentication failed"})

	tests := []httpTest{
		{
			name:     "empty body fails validation",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "this field is required", "password": "this field is required"}),
		},
		{
			name:     "malformed email",
			body:     []byte(`{"email": "lol", "password": "s3cret"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name:     "unknown email",
			body:     []byte(`{"email": "nobody@test.cd", "password": "s3cret"}`),
			wantCode: http.StatusBadRequest,
			wantData: authFailed,
		},
		{
			name:     "wrong password",
			body:     []byte(`{"email": "admin@test.cd", "password": "nope"}`),
			wantCode: http.StatusBadRequest,
			wantData: authFailed,
		},
		{
			name:     "deactivated account",
			body:     []byte(`{"email": "sleeper@test.cd", "password": "s3cret"}`),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name:     "email is case-insensitive",
			body:     []byte(`{"email": "ADMIN@test.cd", "password": "s3cret"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "success",
			body:     []byte(`{"email": "admin@test.cd", "password": "s3cret"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var res struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				claims := new(echoapi.Claims)
				_, err := jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) {
					return core.Conf.SecretKey, nil
				})
				if err != nil {
					t.Fatalf("parsing token: %v", err)
				}
				if claims.Subject != adm.ID || claims.Email != adm.Email {
					t.Errorf("claims = %+v, want subject %q email %q", claims, adm.ID, adm.Email)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_authApi_login_setsLastLogin(t *testing.T) {
	app := setup(t)

	adm := testutil.CreateAdmin(t, admRepo, "Admin", "admin2@test.cd", "s3cret", true)
	if !adm.LastLogin.IsZero() {
		t.Fatalf("fresh admin already has LastLogin: %v", adm.LastLogin)
	}

	req, rec := newRequest(http.MethodPost, "/v1/auth/login", []byte(`{"email": "admin2@test.cd", "password": "s3cret"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %v %s", rec.Code, rec.Body.String())
	}

	refreshed, err := admRepo.GetAdmin(req.Context(), admin.GetFilter{ID: adm.ID})
	if err != nil {
		t.Fatalf("GetAdmin(): %v", err)
	}
	if refreshed.LastLogin.IsZero() {
		t.Error("LastLogin not set after login")
	}
}

func Test_authApi_refreshToken(t *testing.T) {
	app := setup(t)

	adm := testutil.CreateAdmin(t, admRepo, "Admin", "admin@test.cd", "s3cret", true)
	token := getToken(t, adm)

	tests := []httpTest{
		{
			name:     "no token",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "valid token",
			token:    token,
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/auth/token-refresh", tt.token)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var res struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if res.Token == "" {
					t.Error("no token in response")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_authApi_me(t *testing.T) {
	app := setup(t)

	adm := testutil.CreateAdmin(t, admRepo, "Admin", "admin@test.cd", "s3cret", true)
	token := getToken(t, adm)

	tests := []httpTest{
		{
			name:     "no token",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "valid token",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, adm),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/auth/me", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
