package clientcli_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libris-io/libris/clientcli"
)

// writeTempFile creates a file with the given content and returns its path.
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestClient(t *testing.T, handler http.Handler, token string) (*clientcli.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := clientcli.New(&clientcli.Config{Endpoint: srv.URL, Token: token})
	require.NoError(t, err)
	return client, srv
}

func TestNew_NilConfig(t *testing.T) {
	_, err := clientcli.New(nil)
	assert.ErrorIs(t, err, clientcli.ErrConfigRequired)
}

func TestClient_Register(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/users", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ada", body["name"])
		assert.Equal(t, "ada@example.com", body["email"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "fresh-token"})
	})

	client, _ := newTestClient(t, handler, "")

	token, err := client.Register(context.Background(), "Ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
}

func TestClient_Login_BadCredentials(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":   "invalid_credentials",
			"message": "Invalid email or password",
		})
	})

	client, _ := newTestClient(t, handler, "")

	_, err := client.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_credentials")
}

func TestClient_CreateBook(t *testing.T) {
	bookID := uuid.New()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/books", r.URL.Path)
		assert.Equal(t, "Bearer saved-token", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, "Dune", r.FormValue("title"))
		assert.Equal(t, "scifi", r.FormValue("genre"))

		_, coverHeader, err := r.FormFile("coverImage")
		require.NoError(t, err)
		assert.Equal(t, "cover.png", coverHeader.Filename)

		_, fileHeader, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "dune.pdf", fileHeader.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": bookID.String()})
	})

	client, _ := newTestClient(t, handler, "saved-token")

	id, err := client.CreateBook(context.Background(), clientcli.UploadOptions{
		Title:     "Dune",
		Genre:     "scifi",
		CoverPath: writeTempFile(t, "cover.png", "png-bytes"),
		FilePath:  writeTempFile(t, "dune.pdf", "pdf-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, bookID, id)
}

func TestClient_CreateBook_NoToken(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler(), "")

	_, err := client.CreateBook(context.Background(), clientcli.UploadOptions{
		Title:     "Dune",
		Genre:     "scifi",
		CoverPath: writeTempFile(t, "cover.png", "x"),
		FilePath:  writeTempFile(t, "dune.pdf", "x"),
	})
	assert.ErrorIs(t, err, clientcli.ErrTokenRequired)
}

func TestClient_CreateBook_MissingLocalFile(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler(), "saved-token")

	_, err := client.CreateBook(context.Background(), clientcli.UploadOptions{
		Title:     "Dune",
		Genre:     "scifi",
		CoverPath: "/nonexistent/cover.png",
		FilePath:  writeTempFile(t, "dune.pdf", "x"),
	})
	assert.Error(t, err)
}

func TestClient_UpdateBook_SendsOnlySetFields(t *testing.T) {
	bookID := uuid.New()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PATCH", r.Method)
		assert.Equal(t, "/books/"+bookID.String(), r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, "New Title", r.FormValue("title"))

		_, hasGenre := r.MultipartForm.Value["genre"]
		assert.False(t, hasGenre, "unset fields must not be sent")

		_, _, err := r.FormFile("coverImage")
		assert.Error(t, err, "unset files must not be sent")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(clientcli.BookInfo{
			ID:        bookID,
			Title:     "New Title",
			Genre:     "scifi",
			UpdatedAt: time.Now(),
		})
	})

	client, _ := newTestClient(t, handler, "saved-token")

	book, err := client.UpdateBook(context.Background(), bookID, clientcli.UpdateOptions{Title: "New Title"})
	require.NoError(t, err)
	assert.Equal(t, "New Title", book.Title)
}

func TestClient_DeleteBook(t *testing.T) {
	bookID := uuid.New()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DELETE", r.Method)
		assert.Equal(t, "/books/"+bookID.String(), r.URL.Path)
		assert.Equal(t, "Bearer saved-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	client, _ := newTestClient(t, handler, "saved-token")

	require.NoError(t, client.DeleteBook(context.Background(), bookID))
}

func TestClient_GetBook_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found", "message": "Resource not found"})
	})

	client, _ := newTestClient(t, handler, "")

	_, err := client.GetBook(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_found")
}

func TestClient_ListBooks(t *testing.T) {
	books := []clientcli.BookInfo{
		{ID: uuid.New(), Title: "First", Genre: "fiction"},
		{ID: uuid.New(), Title: "Second", Genre: "fiction"},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/books", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(books)
	})

	client, _ := newTestClient(t, handler, "")

	got, err := client.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Title)
}
