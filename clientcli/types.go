package clientcli

import (
	"time"

	"github.com/google/uuid"
)

// BookInfo mirrors the JSON representation of a book record served by the API.
type BookInfo struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Genre      string    `json:"genre"`
	AuthorID   uuid.UUID `json:"author_id"`
	CoverImage string    `json:"cover_image"`
	File       string    `json:"file"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UploadOptions configures a book creation.
type UploadOptions struct {
	Title     string
	Genre     string
	CoverPath string
	FilePath  string
}

// UpdateOptions configures a partial book update. Empty strings mean
// "leave unchanged".
type UpdateOptions struct {
	Title     string
	Genre     string
	CoverPath string
	FilePath  string
}

// createResponse mirrors the JSON response from POST /books.
type createResponse struct {
	ID uuid.UUID `json:"id"`
}

// tokenResponse mirrors the JSON response from registration and login.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// serverError mirrors the JSON error body served by the API.
type serverError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
