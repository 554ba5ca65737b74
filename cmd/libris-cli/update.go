package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/libris-io/libris/clientcli"
	"github.com/spf13/cobra"
)

var (
	updateTitle string
	updateGenre string
	updateCover string
	updateFile  string
)

var updateCmd = &cobra.Command{
	Use:   "update <book-id>",
	Short: "Update a book you own",
	Long: `Update fields or assets of a book you own.

Only the supplied flags are changed; everything else is left as is.
Replacing an asset uploads the new file and points the record at it.

Examples:
  libris-cli update 2f0c1f9e-8a43-4d5c-9f27-4f1f9f1a1b2c --title "Dune (revised)"
  libris-cli update 2f0c1f9e-8a43-4d5c-9f27-4f1f9f1a1b2c --cover new-cover.jpg --file v2.epub`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVarP(&updateTitle, "title", "T", "", "new title")
	updateCmd.Flags().StringVarP(&updateGenre, "genre", "g", "", "new genre")
	updateCmd.Flags().StringVarP(&updateCover, "cover", "C", "", "path to a replacement cover image")
	updateCmd.Flags().StringVarP(&updateFile, "file", "f", "", "path to a replacement document")
}

func runUpdate(_ *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid book id %q: %w", args[0], err)
	}

	opts := clientcli.UpdateOptions{
		Title:     updateTitle,
		Genre:     updateGenre,
		CoverPath: updateCover,
		FilePath:  updateFile,
	}
	if opts == (clientcli.UpdateOptions{}) {
		return errors.New("nothing to update: pass at least one of --title, --genre, --cover, --file")
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	book, err := client.UpdateBook(context.Background(), id, opts)
	if err != nil {
		formatter := getFormatter()
		_ = formatter.FormatError(os.Stderr, err)
		return &exitError{code: 1}
	}

	formatter := getFormatter()
	return formatter.FormatBook(os.Stdout, &book)
}
