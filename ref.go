package libris

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// AssetRef describes one remote object: the category segment that namespaces
// it, its base name, its format suffix, and its kind. The encode/decode pair
// below is the only place the mapping between a durable reference URL and a
// remote object key lives; keep the two directions inverse of each other.
type AssetRef struct {
	Category string
	Name     string
	Format   string
	Kind     AssetKind
}

// Validate checks that the ref can be encoded unambiguously.
func (a AssetRef) Validate() error {
	if !isValidSegment(a.Category) {
		return fmt.Errorf("asset ref: %w: invalid category %q", ErrValidation, a.Category)
	}
	if !isValidSegment(a.Name) || strings.Contains(a.Name, ".") {
		return fmt.Errorf("asset ref: %w: invalid name %q", ErrValidation, a.Name)
	}
	if !a.Kind.IsValid() {
		return fmt.Errorf("asset ref: %w: invalid kind %q", ErrValidation, a.Kind)
	}
	if a.Format != "" && !isValidSegment(a.Format) {
		return fmt.Errorf("asset ref: %w: invalid format %q", ErrValidation, a.Format)
	}
	return nil
}

// ObjectKey is the identifier the remote store addresses the object by.
// Image-kind objects are keyed without their format suffix so the delivery
// layer can transcode them; raw objects keep the suffix.
func (a AssetRef) ObjectKey() string {
	if a.Kind == KindImage || a.Format == "" {
		return a.Category + "/" + a.Name
	}
	return a.Category + "/" + a.Name + "." + a.Format
}

// URL renders the durable reference handed to clients and persisted on the
// Book record.
func (a AssetRef) URL(base string) string {
	ref := strings.TrimSuffix(base, "/") + "/" + a.Category + "/" + a.Name
	if a.Format != "" {
		ref += "." + a.Format
	}
	return ref
}

// ParseRef derives the remote object key from a reference URL: the last two
// path segments, with the format suffix stripped for image-kind assets and
// retained for raw-kind assets. For any reference produced by AssetRef.URL
// the result equals AssetRef.ObjectKey.
func ParseRef(ref string, kind AssetKind) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse asset ref %q: %w", ref, err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 {
		return "", fmt.Errorf("parse asset ref %q: need at least category and name segments", ref)
	}

	category := segments[len(segments)-2]
	name := segments[len(segments)-1]
	if kind == KindImage {
		name = strings.TrimSuffix(name, path.Ext(name))
	}

	if category == "" || name == "" {
		return "", fmt.Errorf("parse asset ref %q: empty segment", ref)
	}

	return category + "/" + name, nil
}

// isValidSegment reports whether s is safe to embed in an object key: UTF-8,
// no separators, no traversal, no control characters or whitespace.
func isValidSegment(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}

	if strings.ContainsAny(s, `/\?#~`) {
		return false
	}

	if !utf8.ValidString(s) {
		return false
	}

	for _, r := range s {
		if r == 0 || r < 0x20 || r == 0x7f || unicode.IsSpace(r) {
			return false
		}
	}

	return true
}
