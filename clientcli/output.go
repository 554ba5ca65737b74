package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats results for output.
type Formatter interface {
	FormatBook(w io.Writer, book *BookInfo) error
	FormatBookList(w io.Writer, books []BookInfo) error
	FormatCreated(w io.Writer, id string) error
	FormatDeleted(w io.Writer, id string) error
	FormatToken(w io.Writer, token string) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatBook formats a single record as human-readable text.
func (f *HumanFormatter) FormatBook(w io.Writer, book *BookInfo) error {
	_, _ = fmt.Fprintf(w, "ID:      %s\n", book.ID)
	_, _ = fmt.Fprintf(w, "Title:   %s\n", book.Title)
	_, _ = fmt.Fprintf(w, "Genre:   %s\n", book.Genre)
	_, _ = fmt.Fprintf(w, "Author:  %s\n", book.AuthorID)
	_, _ = fmt.Fprintf(w, "Cover:   %s\n", book.CoverImage)
	_, _ = fmt.Fprintf(w, "File:    %s\n", book.File)
	_, _ = fmt.Fprintf(w, "Updated: %s\n", book.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

// FormatBookList formats records as a table.
func (f *HumanFormatter) FormatBookList(w io.Writer, books []BookInfo) error {
	if len(books) == 0 {
		_, _ = fmt.Fprintln(w, "No books found")
		return nil
	}

	maxTitleLen := 5 // "TITLE"
	for i := range books {
		if len(books[i].Title) > maxTitleLen {
			maxTitleLen = len(books[i].Title)
		}
	}
	if maxTitleLen > 50 {
		maxTitleLen = 50
	}

	_, _ = fmt.Fprintf(w, "%-36s  %-*s  %-12s  %s\n", "ID", maxTitleLen, "TITLE", "GENRE", "UPDATED")
	_, _ = fmt.Fprintf(w, "%s  %s  %s  %s\n",
		strings.Repeat("-", 36), strings.Repeat("-", maxTitleLen), strings.Repeat("-", 12), strings.Repeat("-", 19))

	for i := range books {
		b := &books[i]
		title := b.Title
		if len(title) > maxTitleLen {
			title = title[:maxTitleLen-3] + "..."
		}
		_, _ = fmt.Fprintf(w, "%-36s  %-*s  %-12s  %s\n",
			b.ID,
			maxTitleLen, title,
			b.Genre,
			b.UpdatedAt.Format("2006-01-02 15:04:05"),
		)
	}

	_, _ = fmt.Fprintf(w, "\n%d book(s)\n", len(books))
	return nil
}

// FormatCreated reports a newly created record.
func (f *HumanFormatter) FormatCreated(w io.Writer, id string) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "Created: %s\n", id)
	}
	return nil
}

// FormatDeleted reports a deleted record.
func (f *HumanFormatter) FormatDeleted(w io.Writer, id string) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "Deleted: %s\n", id)
	}
	return nil
}

// FormatToken reports a freshly issued access token.
func (f *HumanFormatter) FormatToken(w io.Writer, token string) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, token)
		return nil
	}
	_, _ = fmt.Fprintf(w, "Access token: %s\n", token)
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	if len(profiles) == 0 {
		_, _ = fmt.Fprintln(w, "No profiles configured")
		return nil
	}

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s %-20s %s", marker, p.Name, p.Endpoint)
		if p.Email != "" {
			_, _ = fmt.Fprintf(w, " (%s)", p.Email)
		}
		_, _ = fmt.Fprintln(w)
	}
	return nil
}

// JSONFormatter outputs results as JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatBook formats a single record as JSON.
func (f *JSONFormatter) FormatBook(w io.Writer, book *BookInfo) error {
	return f.encode(w, book)
}

// FormatBookList formats records as JSON.
func (f *JSONFormatter) FormatBookList(w io.Writer, books []BookInfo) error {
	return f.encode(w, books)
}

// FormatCreated reports a newly created record as JSON.
func (f *JSONFormatter) FormatCreated(w io.Writer, id string) error {
	return f.encode(w, map[string]string{"id": id})
}

// FormatDeleted reports a deleted record as JSON.
func (f *JSONFormatter) FormatDeleted(w io.Writer, id string) error {
	return f.encode(w, map[string]any{"id": id, "deleted": true})
}

// FormatToken reports an access token as JSON.
func (f *JSONFormatter) FormatToken(w io.Writer, token string) error {
	return f.encode(w, map[string]string{"access_token": token})
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	return f.encode(w, map[string]string{"error": err.Error()})
}

// FormatProfileList formats profiles as JSON. Tokens are redacted.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	type profileView struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Email    string `json:"email,omitempty"`
		Default  bool   `json:"default"`
	}

	views := make([]profileView, len(profiles))
	for i := range profiles {
		views[i] = profileView{
			Name:     profiles[i].Name,
			Endpoint: profiles[i].Endpoint,
			Email:    profiles[i].Email,
			Default:  profiles[i].Name == defaultName,
		}
	}
	return f.encode(w, views)
}
