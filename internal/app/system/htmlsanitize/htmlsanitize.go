// Package htmlsanitize wraps bluemonday policies for user-generated content.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize cleans user-generated HTML (forum post bodies) with the UGC
// policy: common formatting survives, scripts and event handlers do not.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// Strip removes all HTML, leaving plain text. Used for bios and other
// fields that should never carry markup.
func Strip(s string) string {
	return strict.Sanitize(s)
}
