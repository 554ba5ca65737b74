// Package clientcli provides a client library for interacting with Libris servers.
//
// It supports registration, login, book upload, update, delete, and list
// operations with JWT bearer-token authentication. The package includes
// profile-based configuration for managing connections to multiple servers.
//
// # Basic Usage
//
// Create a client and upload a book:
//
//	cfg := &clientcli.Config{
//		Endpoint: "http://localhost:3042",
//		Token:    "your-access-token",
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	id, err := client.CreateBook(ctx, clientcli.UploadOptions{
//		Title:     "Dune",
//		Genre:     "scifi",
//		CoverPath: "./cover.png",
//		FilePath:  "./dune.pdf",
//	})
//
// # Profile Configuration
//
// Use profiles to manage multiple server configurations:
//
//	configFile, err := clientcli.LoadConfigFile("~/.libris/config.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("production")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cfg := clientcli.ConfigFromProfile(profile)
//	client, err := clientcli.New(cfg)
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatBookList(os.Stdout, books)
package clientcli
