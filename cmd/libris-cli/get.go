package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <book-id>",
	Short: "Show a single book",
	Long: `Show the full record for a single book.

No credentials are required.

Examples:
  libris-cli get 2f0c1f9e-8a43-4d5c-9f27-4f1f9f1a1b2c
  libris-cli get 2f0c1f9e-8a43-4d5c-9f27-4f1f9f1a1b2c --json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(_ *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid book id %q: %w", args[0], err)
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	book, err := client.GetBook(context.Background(), id)
	if err != nil {
		formatter := getFormatter()
		_ = formatter.FormatError(os.Stderr, err)
		return &exitError{code: 1}
	}

	formatter := getFormatter()
	return formatter.FormatBook(os.Stdout, &book)
}
