// internal/app/features/chat/templates.go
package chat

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "chat",
		FS:       templateFS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
