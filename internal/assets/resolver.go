package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Resolver serves the bundled assets, letting files in an optional override
// directory shadow them.
type Resolver struct {
	custom   fs.FS
	embedded fs.FS
}

var _ fs.FS = (*Resolver)(nil)

// NewResolver builds a Resolver. An empty overrideDir serves only the bundled
// files; otherwise overrideDir must be a readable directory.
func NewResolver(overrideDir string) (*Resolver, error) {
	resolver := &Resolver{embedded: Embedded()}
	if strings.TrimSpace(overrideDir) == "" {
		return resolver, nil
	}

	abs, err := filepath.Abs(overrideDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, abs)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}
	resolver.custom = os.DirFS(abs)
	return resolver, nil
}

// Open satisfies fs.FS. The override directory wins when it holds the file.
func (r *Resolver) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: ErrPathTraversal}
	}
	if r.custom != nil {
		file, err := r.custom.Open(name)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return r.embedded.Open(name)
}

// ReadFile reads a single asset.
func (r *Resolver) ReadFile(name string) ([]byte, error) {
	// openOnly hides this method so fs.ReadFile goes through Open.
	return fs.ReadFile(openOnly{r}, strings.TrimPrefix(path.Clean("/"+name), "/"))
}

type openOnly struct{ fs.FS }

// Handler serves the assets over HTTP. Mount it with http.StripPrefix so
// request paths start with "markitup/".
func (r *Resolver) Handler() http.Handler {
	return http.FileServer(http.FS(r))
}
