// Package static serves the embedded, minified web assets.
package static

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

// FS exposes web static assets for HTTP serving.
//
//go:embed *.css *.js
var FS embed.FS

var mediaTypes = map[string]string{
	".css": "text/css",
	".js":  "application/javascript",
}

type asset struct {
	body        []byte
	contentType string
}

// Assets holds minified copies of the embedded files.
type Assets struct {
	files    map[string]asset
	modified time.Time
}

// Load minifies every embedded asset.
func Load() (*Assets, error) {
	return LoadFS(FS)
}

// LoadFS minifies every .css and .js file at the root of fsys.
func LoadFS(fsys fs.FS) (*Assets, error) {
	m := minify.New()
	m.AddFunc(mediaTypes[".css"], css.Minify)
	m.AddFunc(mediaTypes[".js"], js.Minify)

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read static assets: %w", err)
	}
	assets := &Assets{files: map[string]asset{}, modified: time.Now()}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		mediaType, ok := mediaTypes[path.Ext(entry.Name())]
		if !ok {
			continue
		}
		source, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		minified, err := m.Bytes(mediaType, source)
		if err != nil {
			return nil, fmt.Errorf("minify %s: %w", entry.Name(), err)
		}
		assets.files[entry.Name()] = asset{body: minified, contentType: mediaType + "; charset=utf-8"}
	}
	return assets, nil
}

// Names returns the served asset names.
func (a *Assets) Names() []string {
	names := make([]string, 0, len(a.files))
	for name := range a.files {
		names = append(names, name)
	}
	return names
}

// ServeHTTP serves one asset by its base name. The caller strips the
// route prefix.
func (a *Assets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	file, ok := a.files[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", file.contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, name, a.modified, bytes.NewReader(file.body))
}
