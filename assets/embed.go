// Package assets embeds the browser board: the page template and its script.
package assets

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed board.html static
var FS embed.FS

// BoardPage parses the board page template.
func BoardPage() (*template.Template, error) {
	return template.ParseFS(FS, "board.html")
}

// Static returns the files served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		// static is embedded above, so Sub cannot fail.
		panic(err)
	}
	return sub
}
