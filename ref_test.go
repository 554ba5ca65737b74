package libris_test

import (
	"testing"

	"github.com/libris-io/libris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetRef_ObjectKey(t *testing.T) {
	tests := []struct {
		name string
		ref  libris.AssetRef
		want string
	}{
		{
			name: "image drops format suffix",
			ref:  libris.AssetRef{Category: "book-covers", Name: "c1d2", Format: "png", Kind: libris.KindImage},
			want: "book-covers/c1d2",
		},
		{
			name: "raw keeps format suffix",
			ref:  libris.AssetRef{Category: "book-pdfs", Name: "f9e8", Format: "pdf", Kind: libris.KindRaw},
			want: "book-pdfs/f9e8.pdf",
		},
		{
			name: "raw without format",
			ref:  libris.AssetRef{Category: "book-pdfs", Name: "f9e8", Kind: libris.KindRaw},
			want: "book-pdfs/f9e8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.ObjectKey())
		})
	}
}

func TestAssetRef_URL(t *testing.T) {
	ref := libris.AssetRef{Category: "book-covers", Name: "c1d2", Format: "png", Kind: libris.KindImage}

	assert.Equal(t, "https://assets.example.com/libris/book-covers/c1d2.png",
		ref.URL("https://assets.example.com/libris"))
	assert.Equal(t, "https://assets.example.com/libris/book-covers/c1d2.png",
		ref.URL("https://assets.example.com/libris/"), "trailing slash on base")
}

// Deriving an object key from a reference must target exactly the object
// the upload created.
func TestParseRef_RoundTrip(t *testing.T) {
	base := "https://assets.example.com/libris"

	refs := []libris.AssetRef{
		{Category: "book-covers", Name: "0b5c9a", Format: "png", Kind: libris.KindImage},
		{Category: "book-covers", Name: "0b5c9a", Format: "jpeg", Kind: libris.KindImage},
		{Category: "book-pdfs", Name: "77aa0f", Format: "pdf", Kind: libris.KindRaw},
		{Category: "book-pdfs", Name: "77aa0f", Kind: libris.KindRaw},
	}

	for _, ref := range refs {
		t.Run(ref.ObjectKey(), func(t *testing.T) {
			url := ref.URL(base)

			key, err := libris.ParseRef(url, ref.Kind)
			require.NoError(t, err)
			assert.Equal(t, ref.ObjectKey(), key)
		})
	}
}

func TestParseRef_Errors(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		kind libris.AssetKind
	}{
		{"single segment", "https://assets.example.com/onlyname.png", libris.KindImage},
		{"empty path", "https://assets.example.com", libris.KindRaw},
		{"root path", "https://assets.example.com/", libris.KindRaw},
		{"image named only by extension", "https://assets.example.com/book-covers/.png", libris.KindImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := libris.ParseRef(tt.ref, tt.kind)
			assert.Error(t, err)
		})
	}
}

func TestParseRef_UsesLastTwoSegments(t *testing.T) {
	key, err := libris.ParseRef("https://cdn.example.com/tenant-7/assets/book-covers/c1d2.png", libris.KindImage)
	require.NoError(t, err)
	assert.Equal(t, "book-covers/c1d2", key)
}

func TestAssetRef_Validate(t *testing.T) {
	valid := libris.AssetRef{Category: "book-covers", Name: "c1d2", Format: "png", Kind: libris.KindImage}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		ref  libris.AssetRef
	}{
		{"empty category", libris.AssetRef{Name: "c1d2", Kind: libris.KindImage}},
		{"category with slash", libris.AssetRef{Category: "a/b", Name: "c1d2", Kind: libris.KindImage}},
		{"name with dot", libris.AssetRef{Category: "book-covers", Name: "c1.d2", Kind: libris.KindImage}},
		{"name with traversal", libris.AssetRef{Category: "book-covers", Name: "..", Kind: libris.KindRaw}},
		{"name with whitespace", libris.AssetRef{Category: "book-covers", Name: "c1 d2", Kind: libris.KindRaw}},
		{"invalid kind", libris.AssetRef{Category: "book-covers", Name: "c1d2", Kind: libris.AssetKind("video")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.Validate()
			assert.ErrorIs(t, err, libris.ErrValidation)
		})
	}
}
