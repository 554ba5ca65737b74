package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/libris-io/libris"
)

// Service is the book lifecycle surface the handlers drive.
type Service interface {
	CreateBook(ctx context.Context, p libris.Principal, draft libris.BookDraft, assets libris.Assets) (libris.Book, error)
	UpdateBook(ctx context.Context, p libris.Principal, id uuid.UUID, patch libris.BookPatch, assets libris.Assets) (libris.Book, error)
	DeleteBook(ctx context.Context, p libris.Principal, id uuid.UUID) error
	GetBook(ctx context.Context, id uuid.UUID) (libris.Book, error)
	ListBooks(ctx context.Context) ([]libris.Book, error)
}

// UsersService handles registration and login.
type UsersService interface {
	Register(ctx context.Context, nu libris.NewUser) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// UploadReceiver stages multipart file fields to local disk.
type UploadReceiver interface {
	Receive(r *http.Request, requireAll bool) (libris.Assets, error)
}

type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type HandlerConfig struct {
	Verifier TokenVerifier
	CORS     CORSConfig
}

// Handler provides HTTP handlers for the library API.
type Handler struct {
	config   HandlerConfig
	service  Service
	users    UsersService
	receiver UploadReceiver
}

// NewHandler creates a new Handler with the given configuration and services.
func NewHandler(config *HandlerConfig, service Service, users UsersService, receiver UploadReceiver) *Handler {
	return &Handler{
		config:   *config,
		service:  service,
		users:    users,
		receiver: receiver,
	}
}

// Router returns an http.Handler with the API routes configured. Reads are
// public; every mutation sits behind bearer-token auth.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Post("/users", h.handleRegister)
	r.Post("/users/login", h.handleLogin)

	r.Route("/books", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/{bookID}", h.handleGet)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.config.Verifier))
			r.Post("/", h.handleCreate)
			r.Patch("/{bookID}", h.handlePatch)
			r.Delete("/{bookID}", h.handleDelete)
		})
	})

	return r
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListBooks(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, books)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "bookID"))
	if err != nil {
		WriteError(w, http.StatusNotFound, "not_found", "Book not found")
		return
	}

	book, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, book)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	assets, err := h.receiver.Receive(r, true)
	if err != nil {
		HandleError(w, err)
		return
	}

	draft := libris.BookDraft{
		Title: r.FormValue("title"),
		Genre: r.FormValue("genre"),
	}

	book, err := h.service.CreateBook(r.Context(), p, draft, assets)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, map[string]any{"id": book.ID})
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "bookID"))
	if err != nil {
		WriteError(w, http.StatusNotFound, "not_found", "Book not found")
		return
	}

	assets, err := h.receiver.Receive(r, false)
	if err != nil {
		HandleError(w, err)
		return
	}

	var patch libris.BookPatch
	if r.MultipartForm != nil {
		if values, ok := r.MultipartForm.Value["title"]; ok && len(values) > 0 {
			patch.Title = &values[0]
		}
		if values, ok := r.MultipartForm.Value["genre"]; ok && len(values) > 0 {
			patch.Genre = &values[0]
		}
	}

	book, err := h.service.UpdateBook(r.Context(), p, id, patch, assets)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, book)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "bookID"))
	if err != nil {
		WriteError(w, http.StatusNotFound, "not_found", "Book not found")
		return
	}

	if err := h.service.DeleteBook(r.Context(), p, id); err != nil {
		HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
