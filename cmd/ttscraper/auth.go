package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"ttscraper/pkg/auth"
	"ttscraper/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored TikTok cookie",
	Long: `Manage the stored TikTok cookie securely.

The cookie is stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variable TTSCRAPER_COOKIE (read-only fallback)

A cookie is never required, but without one TikTok may serve login
walls instead of video pages in some regions.`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store a TikTok cookie securely",
	Long: `Store a TikTok cookie securely in the system keychain or encrypted file.

To get the cookie value:
1. Open tiktok.com in your browser and log in
2. Open Developer Tools (F12) > Network tab
3. Reload the page and select any request to tiktok.com
4. Copy the full value of the Cookie request header

The cookie is stored under the given name, or 'default' when omitted.
The default cookie is used automatically by 'ttscraper scrape'.`,
	Example: `  # Store the default cookie
  ttscraper auth login

  # Store a named cookie
  ttscraper auth login work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove a stored cookie",
	Long:  `Remove a stored TikTok cookie. Removes 'default' when no name is given.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runLogout,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a cookie is stored",
	Long:  `Show whether a usable cookie is available and where it comes from.`,
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	name := "default"
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Fprintln(os.Stderr, "Paste the full Cookie header value (input is hidden):")
	fmt.Fprint(os.Stderr, "Cookie: ")
	cookie, err := readSecret()
	if err != nil {
		ui.PrintError("Failed to read cookie", err.Error())
		os.Exit(1)
	}
	if len(cookie) < 20 {
		ui.PrintError("That doesn't look like a cookie", "expected the full Cookie header value")
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, "User Agent (press Enter to use default): ")
	userAgent, _ := reader.ReadString('\n')
	userAgent = strings.TrimSpace(userAgent)

	cred := &auth.Credential{
		Name:      name,
		Cookie:    cookie,
		UserAgent: userAgent,
	}
	if err := manager.Store(cred); err != nil {
		ui.PrintError("Failed to store cookie", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Cookie stored: " + name)
	fmt.Fprintln(os.Stderr, "\nIt will be used automatically:")
	fmt.Fprintln(os.Stderr, "  $ ttscraper scrape <video_url>")
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	name := "default"
	if len(args) > 0 {
		name = args[0]
	}

	if err := manager.Delete(name); err != nil {
		ui.PrintError("Failed to remove cookie", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Cookie removed: " + name)
}

func runStatus(cmd *cobra.Command, args []string) {
	if os.Getenv("TTSCRAPER_COOKIE") != "" {
		ui.PrintInfo("Cookie source", "TTSCRAPER_COOKIE environment variable")
		return
	}

	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	cred, err := manager.RetrieveDefault()
	if err != nil {
		ui.PrintInfo("No cookie stored", "use 'ttscraper auth login' to add one")
		return
	}

	ui.PrintInfo("Cookie", maskSecret(cred.Cookie))
	if cred.UserAgent != "" {
		ui.PrintInfo("User Agent", cred.UserAgent)
	}
	ui.PrintInfo("Last Modified", cred.LastModified.Format("2006-01-02 15:04:05"))
}

// maskSecret keeps just enough of the value to recognize it.
func maskSecret(s string) string {
	if len(s) <= 12 {
		return "***"
	}
	return s[:6] + "..." + s[len(s)-4:]
}

// readSecret reads a line from stdin without echoing
func readSecret() (string, error) {
	// Try to read without echo
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr) // New line after input
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
