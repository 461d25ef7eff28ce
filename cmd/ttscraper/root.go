package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
	pretty     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ttscraper",
	Short: "Extract TikTok video engagement metadata as JSON",
	Long: `ttscraper extracts engagement metadata (views, likes, shares, comments,
caption, hashtags) from TikTok video pages without any API access.

Metadata is read from the JSON state embedded in each video page,
across the page formats TikTok serves. Results are printed to stdout
as JSON; logs and progress go to stderr, so output pipes cleanly into
jq or a file.

Video URLs can be given directly, resolved from a username's latest
post, or discovered in bulk via keyword search, intelligent
auto-search, hashtag search, or the trending feed.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Quiet mode suppresses everything below errors.
		if quiet {
			logLevel = "error"
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .ttscraper.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors and results")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "indent the JSON output")

	// Version template
	rootCmd.SetVersionTemplate(`ttscraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
