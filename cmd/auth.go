package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bueltan/repharsely/internal/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored credentials",
	Long: `Store and manage the Slack user token and LLM provider API keys.

Credentials are stored in ~/.repharsely/credentials.json and used
as a fallback when environment variables are not set.`,
}

var authSlackCmd = &cobra.Command{
	Use:   "slack",
	Short: "Store a Slack user token",
	Long: `Store a Slack user token (xoxp-...) for posting messages as you.

Normally the token is obtained through the OAuth flow served at / while
the server is running; this command is for pasting one in directly.`,
	RunE: runAuthSlack,
}

var authXAICmd = &cobra.Command{
	Use:   "xai",
	Short: "Store xAI API key",
	Long: `Store your xAI API key for persistent use.

Get your API key at https://console.x.ai`,
	RunE: runAuthXAI,
}

var authOpenAICmd = &cobra.Command{
	Use:   "openai",
	Short: "Store OpenAI API key",
	Long: `Store your OpenAI API key for persistent use.

Get your API key at https://platform.openai.com/api-keys`,
	RunE: runAuthOpenAI,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which credentials are stored",
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout [credential]",
	Short: "Remove stored credentials",
	Long: `Remove a stored credential.

If no credential is specified, removes all stored credentials.
Valid credentials: slack, xai, openai`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthLogout,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSlackCmd)
	authCmd.AddCommand(authXAICmd)
	authCmd.AddCommand(authOpenAICmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
}

// promptSecret reads one line from stdin after printing the label.
func promptSecret(label string) (string, error) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s: ", label)
	input, _ := reader.ReadString('\n')
	value := strings.TrimSpace(input)
	if value == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	return value, nil
}

func storeCredential(name, label string) error {
	value, err := promptSecret(label)
	if err != nil {
		return err
	}

	store, err := auth.DefaultStore()
	if err != nil {
		return err
	}
	if err := store.Set(name, value); err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}

	fmt.Printf("%s stored successfully!\n", label)
	return nil
}

func runAuthSlack(cmd *cobra.Command, args []string) error {
	return storeCredential(auth.SlackUserToken, "Slack user token")
}

func runAuthXAI(cmd *cobra.Command, args []string) error {
	return storeCredential(auth.XAIAPIKey, "xAI API key")
}

func runAuthOpenAI(cmd *cobra.Command, args []string) error {
	return storeCredential(auth.OpenAIAPIKey, "OpenAI API key")
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	store, err := auth.DefaultStore()
	if err != nil {
		return err
	}
	names, err := store.Names()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No credentials stored.")
		return nil
	}
	fmt.Println("Stored credentials:")
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

// credentialNames maps the logout argument to the stored credential name.
var credentialNames = map[string]string{
	"slack":  auth.SlackUserToken,
	"xai":    auth.XAIAPIKey,
	"openai": auth.OpenAIAPIKey,
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	store, err := auth.DefaultStore()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		for _, name := range credentialNames {
			if err := store.Delete(name); err != nil {
				return err
			}
		}
		fmt.Println("All credentials removed.")
		return nil
	}

	name, ok := credentialNames[args[0]]
	if !ok {
		return fmt.Errorf("unknown credential %q (valid: slack, xai, openai)", args[0])
	}
	if err := store.Delete(name); err != nil {
		return err
	}
	fmt.Printf("Credential %s removed.\n", args[0])
	return nil
}
