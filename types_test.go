package libris_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/libris-io/libris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTables_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tables  libris.Tables
		wantErr bool
	}{
		{"valid", libris.Tables{Books: "libris_books", Users: "libris_users"}, false},
		{"empty books", libris.Tables{Users: "libris_users"}, true},
		{"empty users", libris.Tables{Books: "libris_books"}, true},
		{"uppercase", libris.Tables{Books: "Books", Users: "libris_users"}, true},
		{"leading digit", libris.Tables{Books: "1books", Users: "libris_users"}, true},
		{"sql injection attempt", libris.Tables{Books: "books; DROP TABLE users", Users: "libris_users"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tables.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsValidTableName(t *testing.T) {
	assert.True(t, libris.IsValidTableName("libris_books"))
	assert.True(t, libris.IsValidTableName("_books"))
	assert.False(t, libris.IsValidTableName(""))
	assert.False(t, libris.IsValidTableName("books-2"))
}

func TestBookPatch_IsEmpty(t *testing.T) {
	assert.True(t, libris.BookPatch{}.IsEmpty())

	title := "Dune"
	assert.False(t, libris.BookPatch{Title: &title}.IsEmpty())
}

func TestStagedFile_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staged")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))

	f := libris.StagedFile{Path: path}
	require.NoError(t, f.Remove())

	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Error(t, f.Remove(), "second remove reports the missing file")
}

func TestAssets_Discard(t *testing.T) {
	dir := t.TempDir()

	coverPath := filepath.Join(dir, "cover")
	docPath := filepath.Join(dir, "doc")
	require.NoError(t, os.WriteFile(coverPath, []byte("img"), 0o600))
	require.NoError(t, os.WriteFile(docPath, []byte("pdf"), 0o600))

	assets := libris.Assets{
		Cover:    &libris.StagedFile{Path: coverPath},
		Document: &libris.StagedFile{Path: docPath},
	}

	assets.Discard()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Discard after consumption and with missing entries is a no-op.
	assets.Discard()
	libris.Assets{}.Discard()
}
