package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/sistercircle/sistercircle/internal/app/system/auth"
	"github.com/sistercircle/sistercircle/internal/domain/models"
)

// NewAuthenticatedRequest builds a request with the given user injected into
// the context, bypassing the session cookie machinery.
func NewAuthenticatedRequest(method, target string, body io.Reader, u models.User) *http.Request {
	r := httptest.NewRequest(method, target, body)
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	})
}
