// Package static resolves request paths against a built web UI directory
// with traversal protection and single-page-app fallback.
package static

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

const indexFile = "index.html"

// Resolver maps request paths to files inside an absolute web root.
type Resolver struct {
	root string
}

// NewResolver creates a resolver rooted at webRoot. The root is made
// absolute once so later prefix checks compare like with like.
func NewResolver(webRoot string) (*Resolver, error) {
	root, err := filepath.Abs(webRoot)
	if err != nil {
		return nil, err
	}
	return &Resolver{root: root}, nil
}

// Root returns the absolute web root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve maps a request path to an absolute file path to serve. The second
// return is false when nothing may be served: a traversal attempt, a missing
// asset-like path, or a missing page with no index fallback.
func (r *Resolver) Resolve(requestPath string) (string, bool) {
	// Any parent-directory segment fails closed, before normalization can
	// collapse it away.
	for _, segment := range strings.Split(requestPath, "/") {
		if segment == ".." {
			return "", false
		}
	}

	cleaned := path.Clean("/" + requestPath)
	if cleaned == "/" {
		cleaned = "/" + indexFile
	}

	candidate := filepath.Join(r.root, filepath.FromSlash(cleaned))
	if !r.inRoot(candidate) {
		return "", false
	}

	if isRegularFile(candidate) {
		return candidate, true
	}

	// Asset-like paths (with an extension) never fall back to the SPA
	// index; a stale hashed bundle name must 404, not load the shell.
	if path.Ext(cleaned) != "" {
		return "", false
	}

	index := filepath.Join(r.root, indexFile)
	if isRegularFile(index) {
		return index, true
	}
	return "", false
}

func (r *Resolver) inRoot(candidate string) bool {
	return candidate == r.root || strings.HasPrefix(candidate, r.root+string(filepath.Separator))
}

func isRegularFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
