package main

import (
	"context"
	"os"

	"github.com/libris-io/libris/clientcli"
	"github.com/spf13/cobra"
)

var (
	uploadTitle string
	uploadGenre string
	uploadCover string
	uploadFile  string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a new book",
	Long: `Upload a new book with its cover image and document.

Both assets are required; the server stores them and records the book
under your account.

Examples:
  libris-cli upload --title "Dune" --genre sci-fi --cover dune.jpg --file dune.epub
  libris-cli upload -T "The Hobbit" -g fantasy -C hobbit.png -f hobbit.pdf --json`,
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadTitle, "title", "T", "", "book title")
	uploadCmd.Flags().StringVarP(&uploadGenre, "genre", "g", "", "book genre")
	uploadCmd.Flags().StringVarP(&uploadCover, "cover", "C", "", "path to the cover image")
	uploadCmd.Flags().StringVarP(&uploadFile, "file", "f", "", "path to the book document")

	_ = uploadCmd.MarkFlagRequired("title")
	_ = uploadCmd.MarkFlagRequired("genre")
	_ = uploadCmd.MarkFlagRequired("cover")
	_ = uploadCmd.MarkFlagRequired("file")
}

func runUpload(_ *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.UploadOptions{
		Title:     uploadTitle,
		Genre:     uploadGenre,
		CoverPath: uploadCover,
		FilePath:  uploadFile,
	}

	id, err := client.CreateBook(context.Background(), opts)
	if err != nil {
		formatter := getFormatter()
		_ = formatter.FormatError(os.Stderr, err)
		return &exitError{code: 1}
	}

	formatter := getFormatter()
	return formatter.FormatCreated(os.Stdout, id.String())
}
