package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/libris-io/libris/clientcli"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	cfgFile     string
	server      string
	token       string
	profileName string
	jsonOutput  bool
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:     "libris-cli",
	Version: version,
	Short:   "Client for the Libris content server",
	Long: `Libris CLI - Client for the Libris library content server

Browsing commands (list, get) work without credentials. Mutating
commands (upload, update, delete) need a token obtained with 'login'
and stored in a profile, the LIBRIS_TOKEN environment variable, or
the --token flag.

Typical first run:
  libris-cli configure add prod
  libris-cli register
  libris-cli upload --title "Dune" --genre sci-fi --cover dune.jpg --file dune.epub`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.libris/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&server, "server", "s", "", "server URL (default: http://localhost:3042, env: LIBRIS_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "access token (env: LIBRIS_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name (env: LIBRIS_PROFILE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(1)
	}
}

// getConfigPath resolves the config file path from the flag, the
// environment, or the default location, in that order.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if envPath := clientcli.ConfigPathFromEnv(); envPath != "" {
		return envPath
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges config from the selected profile, env vars, and
// flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	name := profileName
	if name == "" {
		name = clientcli.ProfileFromEnv()
	}

	configPath := getConfigPath()
	if configPath != "" {
		fileCfg, err := clientcli.LoadConfigFile(configPath)
		switch {
		case err == nil:
			var p *clientcli.Profile
			if name != "" {
				p, err = fileCfg.GetProfile(name)
				if err != nil {
					return nil, err
				}
			} else {
				// No profile selected: use the default one if any
				// profiles exist at all.
				p, err = fileCfg.GetDefaultProfile()
				if err != nil && !errors.Is(err, clientcli.ErrNoProfiles) {
					return nil, err
				}
			}
			if p != nil {
				configs = append(configs, clientcli.ConfigFromProfile(p))
			}
		case name != "" || cfgFile != "":
			// Only error when the user explicitly asked for a profile
			// or a config file; a missing default file is fine.
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	configs = append(configs, clientcli.ConfigFromEnv())
	configs = append(configs, &clientcli.Config{
		Endpoint: server,
		Token:    token,
	})

	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	return clientcli.New(cfg)
}

// exitError is returned when we want to exit with a specific code
// without printing an extra error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
