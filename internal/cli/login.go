package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/prflight-io/prflight/internal/hosting"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a hosting-service token",
	Long: `Prompts for a personal access token, verifies it against the hosting
service, and stores it in the user config directory. The token is not
echoed when running in a terminal.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	store, cfg, err := loadSettings()
	if err != nil {
		return err
	}

	token, err := readToken()
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("no token entered")
	}

	client := hosting.NewClient(token, hostingOptions(cfg)...)
	user, err := client.AuthenticatedUser(cmd.Context())
	if err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}

	if err := store.SetToken(token); err != nil {
		return err
	}
	fmt.Printf("%sLogged in as %s.%s\n", colorize("\033[32m"), user.Login, colorize("\033[0m"))
	return nil
}

func readToken() (string, error) {
	fmt.Print("Token: ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(scanner.Text()), nil
}
