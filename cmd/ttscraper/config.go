package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"ttscraper/pkg/config"
	"ttscraper/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage ttscraper configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (TTSCRAPER_*)
  - Configuration file (.ttscraper.yaml)
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.ttscraper.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration merged from all sources.

The cookie value is masked for security.`,
	Run: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".ttscraper.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		os.Exit(1)
	}

	exampleConfig := `# ttscraper configuration file
#
# All options can also be set via environment variables prefixed with
# TTSCRAPER_, for example TTSCRAPER_COOKIE or TTSCRAPER_LOG_LEVEL.

# TikTok request settings
tiktok:
  # Raw Cookie header value, attached verbatim to every request.
  # Optional: most public pages work without one, but TikTok may
  # serve login walls in some regions. Prefer 'ttscraper auth login'
  # over putting the cookie here in plain text.
  cookie: ""

  # Path to a file containing the cookie on a single line.
  cookie_file: ""

  # Override the browser User-Agent used for requests.
  user_agent: ""

  # Per-request timeout.
  fetch_timeout: 15s

# Rate limiting for batch runs
rate_limit:
  requests_per_minute: 60
  max_retries: 3
  retry_delay: 2s

# Discovery engine tuning
discovery:
  # Cap on search requests per discovery run.
  max_attempts: 50

  # A page yielding fewer new URLs than this counts as low-yield.
  low_yield_threshold: 1

  # Consecutive low-yield pages before moving to the next keyword.
  low_yield_pages: 2

# JSON output settings
output:
  pretty: true

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional). Logs always go to stderr as well.
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Mask the cookie for display
	displayCfg := *cfg
	if displayCfg.TikTok.Cookie != "" {
		displayCfg.TikTok.Cookie = maskSecret(displayCfg.TikTok.Cookie)
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))
}
