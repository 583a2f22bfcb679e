// Package sanitize strips unsafe HTML from user-supplied text before it
// is persisted. Chat messages and report reasons are stored as plain
// text; anything that survives bluemonday's strict policy is safe to
// echo back into templates.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
