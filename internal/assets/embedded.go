package assets

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Embedded returns the bundled assets rooted so that paths start with
// "markitup/", matching the URLs the widgets emit.
func Embedded() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
