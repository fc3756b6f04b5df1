package mapper

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.lsp.dev/uri"
)

func uriFromPath(path string) uri.URI {
	return uri.File(filepath.Clean(path))
}

// PathToURI maps an absolute file path to a file URI.
func PathToURI(path string) uri.URI {
	return uriFromPath(path)
}

// URIToPath maps a file URI to its file system path.
func URIToPath(u uri.URI) (string, error) {
	if !strings.HasPrefix(string(u), uri.FileScheme+"://") {
		return "", fmt.Errorf("unsupported uri %q: only %s uris are supported", u, uri.FileScheme)
	}
	return u.Filename(), nil
}

// WorkspaceFolderToPath maps the uri of a workspace folder to its file system path.
func WorkspaceFolderToPath(folderURI string) (string, error) {
	return URIToPath(uri.URI(folderURI))
}
