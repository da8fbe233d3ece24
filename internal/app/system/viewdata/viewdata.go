// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/sistercircle/sistercircle/internal/app/system/auth"
)

// SiteName is the platform display name used across all pages.
const SiteName = "SisterCircle"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string

	// Page context
	Title       string
	CurrentPath string
}

// NewBaseVM creates a populated BaseVM for a page.
func NewBaseVM(r *http.Request, title string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		CurrentPath: r.URL.Path,
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.Role = u.Role
		vm.UserName = u.Name
	}
	return vm
}
