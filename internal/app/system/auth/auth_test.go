package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSignedInBlocksAnonymous(t *testing.T) {
	var called bool
	h := RequireSignedIn(okHandler(&called))

	req := httptest.NewRequest("GET", "/sessions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if called {
		t.Error("handler ran for anonymous request")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireSignedInRedirectsHTML(t *testing.T) {
	var called bool
	h := RequireSignedIn(okHandler(&called))

	req := httptest.NewRequest("GET", "/sessions?x=1", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if loc != "/login?return=%2Fsessions%3Fx%3D1" {
		t.Errorf("redirect = %q", loc)
	}
}

func TestRequireSignedInPassesAuthenticated(t *testing.T) {
	var called bool
	h := RequireSignedIn(okHandler(&called))

	req := WithTestUser(httptest.NewRequest("GET", "/sessions", nil),
		&SessionUser{ID: "1", Name: "Ada", Role: "mentor"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !called {
		t.Error("handler did not run for signed-in user")
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		user     *SessionUser
		wantCode int
		wantRun  bool
	}{
		{"admin allowed", &SessionUser{ID: "1", Role: "admin"}, http.StatusOK, true},
		{"case-insensitive role", &SessionUser{ID: "1", Role: "Admin"}, http.StatusOK, true},
		{"mentee forbidden", &SessionUser{ID: "2", Role: "mentee"}, http.StatusForbidden, false},
		{"anonymous unauthorized", nil, http.StatusUnauthorized, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var called bool
			h := RequireRole("admin")(okHandler(&called))

			req := httptest.NewRequest("GET", "/admin", nil)
			if tc.user != nil {
				req = WithTestUser(req, tc.user)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if called != tc.wantRun {
				t.Errorf("handler ran = %v, want %v", called, tc.wantRun)
			}
			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantCode)
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := CurrentUser(req); ok {
		t.Error("CurrentUser found a user on a bare request")
	}

	req = WithTestUser(req, &SessionUser{ID: "1", Name: "Ada"})
	u, ok := CurrentUser(req)
	if !ok || u.Name != "Ada" {
		t.Errorf("CurrentUser = %+v, %v", u, ok)
	}
}
