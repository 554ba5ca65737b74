package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List books in the library",
	Long: `List all books in the library.

No credentials are required.

Examples:
  libris-cli list
  libris-cli list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(_ *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	books, err := client.ListBooks(context.Background())
	if err != nil {
		formatter := getFormatter()
		_ = formatter.FormatError(os.Stderr, err)
		return &exitError{code: 1}
	}

	formatter := getFormatter()
	return formatter.FormatBookList(os.Stdout, books)
}
