package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/libris-io/libris/clientcli"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
	loginNoSave   bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store an access token",
	Long: `Log in to the server and store the access token.

The token is saved into the selected profile (--profile or the default
one). With --no-save the token is only printed, which is useful for
scripting:

  export LIBRIS_TOKEN=$(libris-cli login --no-save -q -e you@example.com -w secret)

Examples:
  libris-cli login
  libris-cli login -e you@example.com
  libris-cli --profile staging login`,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and store an access token",
	Long: `Create a new account on the server.

Registration logs you in immediately; the returned token is saved the
same way as with 'login'.

Examples:
  libris-cli register
  libris-cli register -e you@example.com --name "Jane Reader"`,
	RunE: runRegister,
}

var registerName string

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email (prompted if omitted)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "w", "", "account password (prompted if omitted)")
	loginCmd.Flags().BoolVar(&loginNoSave, "no-save", false, "print the token instead of saving it")

	registerCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email (prompted if omitted)")
	registerCmd.Flags().StringVarP(&loginPassword, "password", "w", "", "account password (prompted if omitted)")
	registerCmd.Flags().StringVar(&registerName, "name", "", "display name (prompted if omitted)")
	registerCmd.Flags().BoolVar(&loginNoSave, "no-save", false, "print the token instead of saving it")
}

func runLogin(_ *cobra.Command, _ []string) error {
	email, password, err := promptCredentials()
	if err != nil {
		return err
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	tok, err := client.Login(context.Background(), email, password)
	if err != nil {
		formatter := getFormatter()
		_ = formatter.FormatError(os.Stderr, err)
		return &exitError{code: 1}
	}

	return finishLogin(email, tok)
}

func runRegister(_ *cobra.Command, _ []string) error {
	name := registerName
	if name == "" {
		namePrompt := promptui.Prompt{
			Label: "Name",
			Validate: func(input string) error {
				if strings.TrimSpace(input) == "" {
					return errors.New("name is required")
				}
				return nil
			},
		}
		var err error
		name, err = namePrompt.Run()
		if err != nil {
			return handlePromptError(err)
		}
	}

	email, password, err := promptCredentials()
	if err != nil {
		return err
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	tok, err := client.Register(context.Background(), name, email, password)
	if err != nil {
		formatter := getFormatter()
		_ = formatter.FormatError(os.Stderr, err)
		return &exitError{code: 1}
	}

	return finishLogin(email, tok)
}

// promptCredentials fills in email and password from flags or
// interactive prompts.
func promptCredentials() (email, password string, err error) {
	email = loginEmail
	if email == "" {
		emailPrompt := promptui.Prompt{
			Label: "Email",
			Validate: func(input string) error {
				if !strings.Contains(input, "@") {
					return errors.New("enter a valid email address")
				}
				return nil
			},
		}
		email, err = emailPrompt.Run()
		if err != nil {
			return "", "", handlePromptError(err)
		}
	}

	password = loginPassword
	if password == "" {
		passwordPrompt := promptui.Prompt{
			Label: "Password",
			Mask:  '*',
			Validate: func(input string) error {
				if input == "" {
					return errors.New("password is required")
				}
				return nil
			},
		}
		password, err = passwordPrompt.Run()
		if err != nil {
			return "", "", handlePromptError(err)
		}
	}

	return email, password, nil
}

// finishLogin saves the token into the selected profile, or prints it
// when saving is disabled or no profile exists.
func finishLogin(email, tok string) error {
	formatter := getFormatter()

	if loginNoSave {
		return formatter.FormatToken(os.Stdout, tok)
	}

	if err := saveToken(email, tok); err != nil {
		if errors.Is(err, clientcli.ErrNoProfiles) || errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "No profile configured; token not saved.")
			fmt.Fprintln(os.Stderr, "Run 'libris-cli configure add <name>' to create one.")
			return formatter.FormatToken(os.Stdout, tok)
		}
		return err
	}

	if !quiet {
		fmt.Printf("Logged in as %s. Token saved.\n", email)
	}
	return nil
}

// saveToken writes the token into the selected (or default) profile.
func saveToken(email, tok string) error {
	configPath := getConfigPath()

	cfg, err := clientcli.LoadConfigFile(configPath)
	if err != nil {
		return err
	}

	name := profileName
	if name == "" {
		name = clientcli.ProfileFromEnv()
	}

	var p *clientcli.Profile
	if name != "" {
		p, err = cfg.GetProfile(name)
	} else {
		p, err = cfg.GetDefaultProfile()
	}
	if err != nil {
		return err
	}

	p.Email = email
	p.Token = tok
	if err := cfg.UpdateProfile(*p); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	return nil
}
