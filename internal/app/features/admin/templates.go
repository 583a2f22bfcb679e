// internal/app/features/admin/templates.go
package admin

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "admin",
		FS:       templateFS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
