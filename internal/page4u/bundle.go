package page4u

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
)

// RootDocumentName is the fixed archive entry for the page's primary
// HTML document. Relative references inside it resolve against sibling
// entries, so assets must keep the paths the document links to.
const RootDocumentName = "index.html"

// Asset is one auxiliary file shipped alongside the primary document.
// Path is the archive entry name, relative to the document.
type Asset struct {
	Path    string
	Content []byte
}

// isSafeAssetPath rejects entry names that are absolute or could escape
// the archive root (zip-slip on the receiving side).
func isSafeAssetPath(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "..") {
		return false
	}
	cleaned := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	return cleaned != "." && cleaned != "/"
}

// BuildArchive packages the primary document plus assets into a zip.
// The document is stored at RootDocumentName; each asset at its given
// path unchanged. Duplicate or unsafe paths are a caller error and are
// rejected rather than silently resolved.
func BuildArchive(primary []byte, assets []Asset) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	seen := map[string]struct{}{RootDocumentName: {}}

	entry, err := w.Create(RootDocumentName)
	if err != nil {
		return nil, fmt.Errorf("create %s entry: %w", RootDocumentName, err)
	}
	if _, err := entry.Write(primary); err != nil {
		return nil, fmt.Errorf("write %s entry: %w", RootDocumentName, err)
	}

	for _, asset := range assets {
		if !isSafeAssetPath(asset.Path) {
			return nil, fmt.Errorf("invalid asset path %q", asset.Path)
		}
		if _, dup := seen[asset.Path]; dup {
			return nil, fmt.Errorf("duplicate asset path %q", asset.Path)
		}
		seen[asset.Path] = struct{}{}

		entry, err := w.Create(asset.Path)
		if err != nil {
			return nil, fmt.Errorf("create entry %q: %w", asset.Path, err)
		}
		if _, err := entry.Write(asset.Content); err != nil {
			return nil, fmt.Errorf("write entry %q: %w", asset.Path, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
