package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:     "delete <book-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a book you own",
	Long: `Delete a book you own, along with its stored assets.

Examples:
  libris-cli delete 2f0c1f9e-8a43-4d5c-9f27-4f1f9f1a1b2c
  libris-cli delete --force 2f0c1f9e-8a43-4d5c-9f27-4f1f9f1a1b2c`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "skip the confirmation prompt")
}

func runDelete(_ *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid book id %q: %w", args[0], err)
	}

	if !deleteForce && !quiet {
		fmt.Printf("Delete book %s and its assets? [y/N] ", id)
		var answer string
		_, _ = fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	if err := client.DeleteBook(context.Background(), id); err != nil {
		formatter := getFormatter()
		_ = formatter.FormatError(os.Stderr, err)
		return &exitError{code: 1}
	}

	formatter := getFormatter()
	return formatter.FormatDeleted(os.Stdout, id.String())
}
