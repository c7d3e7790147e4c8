// Package web embeds the HTML templates and static assets served by the
// quiz server.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var files embed.FS

// Templates holds templates/layouts, templates/pages and templates/partials.
var Templates fs.FS = files

// Static returns the stylesheet directory rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
