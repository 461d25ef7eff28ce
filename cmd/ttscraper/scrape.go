package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"ttscraper/pkg/auth"
	"ttscraper/pkg/config"
	"ttscraper/pkg/discover"
	"ttscraper/pkg/logger"
	"ttscraper/pkg/scraper"
	"ttscraper/pkg/tiktok"
	"ttscraper/pkg/ui"
)

var (
	// Scrape command flags
	cookieFlag    string
	cookieFile    string
	rateLimit     int
	latestFrom    string
	searchKeyword string
	searchCount   int
	autoSearch    int
	hashtagSearch int
	trendingCount int
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [url...]",
	Short: "Extract engagement metadata for one or more videos",
	Long: `Extract engagement metadata for TikTok videos.

Video URLs can come from several sources, combined freely:
  - URLs passed directly as arguments
  - The latest post of a username (--latest-from)
  - Keyword search (--search), auto-search (--auto-search),
    hashtag search (--hashtag-search), or trending (--trending)

A single result is printed as one JSON object; multiple results as a
JSON array. Failed URLs are skipped with a logged reason and never
abort the batch. The exit code is zero when at least one video was
extracted.

A cookie is optional but improves extraction odds in regions where
TikTok gates pages behind sessions. Store one with 'ttscraper auth
login', or pass it via --cookie, --cookie-file, or TTSCRAPER_COOKIE.`,
	Example: `  # Single video
  ttscraper scrape https://www.tiktok.com/@username/video/1234567890

  # Latest video of a user
  ttscraper scrape --latest-from username

  # 20 videos matching a keyword
  ttscraper scrape --search "cooking recipes" --search-count 20

  # 50 videos across trending keywords, piped to a file
  ttscraper scrape --auto-search 50 -q > videos.json

  # Popular hashtags
  ttscraper scrape --hashtag-search 15`,
	Args: cobra.ArbitraryArgs,
	Run:  runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&cookieFlag, "cookie", "", "raw Cookie header value for requests")
	scrapeCmd.Flags().StringVar(&cookieFile, "cookie-file", "", "file containing the raw Cookie header value")
	scrapeCmd.Flags().IntVar(&rateLimit, "rate-limit", 60, "requests per minute")
	scrapeCmd.Flags().StringVar(&latestFrom, "latest-from", "", "scrape the latest video of this username")
	scrapeCmd.Flags().StringVar(&searchKeyword, "search", "", "discover videos matching this keyword")
	scrapeCmd.Flags().IntVar(&searchCount, "search-count", 10, "number of videos to discover with --search")
	scrapeCmd.Flags().IntVar(&autoSearch, "auto-search", 0, "discover N videos across trending keyword tiers")
	scrapeCmd.Flags().IntVar(&hashtagSearch, "hashtag-search", 0, "discover N videos across popular hashtags")
	scrapeCmd.Flags().IntVar(&trendingCount, "trending", 0, "discover N videos from the trending feed")
}

func runScrape(cmd *cobra.Command, args []string) {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if cookieFlag != "" {
		flags["cookie"] = cookieFlag
	}
	if cookieFile != "" {
		flags["cookie-file"] = cookieFile
	}
	if rateLimit != 60 {
		flags["rate-limit"] = rateLimit
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	if rootCmd.PersistentFlags().Changed("pretty") {
		flags["pretty"] = pretty
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	logger.Initialize(&cfg.Logging)
	logger.WithField("version", version).Info("ttscraper starting")

	client := tiktok.NewClient(cfg.TikTok.FetchTimeout, logger.GetLogger())
	applyCookie(client, cfg)
	if cfg.TikTok.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.TikTok.UserAgent)
	}

	urls, err := collectURLs(client, cfg, args)
	if err != nil {
		ui.PrintError("Discovery failed", err.Error())
		os.Exit(1)
	}
	if len(urls) == 0 {
		ui.PrintError("No video URLs to scrape", "pass URLs or use --latest-from, --search, --auto-search, --hashtag-search, or --trending")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	o := scraper.New(client, cfg)
	if !quiet {
		o.EnableProgress(len(urls))
	}

	results, stats := o.Run(ctx, urls)

	if err := writeResults(results, len(urls) == 1, cfg.Output.Pretty); err != nil {
		ui.PrintError("Failed to write results", err.Error())
		os.Exit(1)
	}

	if !quiet {
		printSummary(stats)
	}
	if stats.Succeeded == 0 {
		os.Exit(1)
	}
}

// applyCookie wires the effective cookie into the client. Explicit
// config (flag, env, file) wins over the stored credential.
func applyCookie(client *tiktok.Client, cfg *config.Config) {
	cookie, err := cfg.ResolveCookie()
	if err != nil {
		ui.PrintWarning("Failed to read cookie file", err.Error())
	}
	if cookie != "" {
		client.SetCookie(cookie)
		return
	}

	manager, err := auth.NewManager()
	if err != nil {
		return
	}
	cred, err := manager.RetrieveDefault()
	if err != nil {
		return
	}
	client.SetCookie(cred.Cookie)
	if cred.UserAgent != "" && cfg.TikTok.UserAgent == "" {
		client.SetHeader("User-Agent", cred.UserAgent)
	}
	logger.Info("Using stored cookie")
}

// collectURLs gathers video URLs from all requested sources and
// deduplicates them by canonical video id, preserving order.
func collectURLs(client *tiktok.Client, cfg *config.Config, args []string) ([]string, error) {
	var urls []string

	for _, arg := range args {
		url := strings.TrimSpace(arg)
		if !tiktok.IsVideoURL(url) {
			ui.PrintWarning("Skipping non-video URL", url)
			continue
		}
		urls = append(urls, url)
	}

	if latestFrom != "" {
		username := tiktok.SanitizeUsername(latestFrom)
		ui.PrintInfo("Resolving latest video", "@"+username)
		url, err := client.ResolveLatest(username)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}

	strategy, keyword, count := discoveryRequest()
	if count > 0 {
		found, err := runDiscovery(client, cfg, strategy, keyword, count)
		if err != nil {
			return nil, err
		}
		urls = append(urls, found...)
	}

	return dedupURLs(urls), nil
}

// discoveryRequest maps the discovery flags to a single strategy. The
// first one set wins; they are not combined within one run.
func discoveryRequest() (discover.Strategy, string, int) {
	switch {
	case searchKeyword != "":
		return discover.StrategyManual, searchKeyword, searchCount
	case autoSearch > 0:
		return discover.StrategyAuto, "", autoSearch
	case hashtagSearch > 0:
		return discover.StrategyHashtag, "", hashtagSearch
	case trendingCount > 0:
		return discover.StrategyTrending, "", trendingCount
	}
	return "", "", 0
}

func runDiscovery(client *tiktok.Client, cfg *config.Config, strategy discover.Strategy, keyword string, count int) ([]string, error) {
	opts := discover.Options{
		MaxAttempts:       cfg.Discovery.MaxAttempts,
		LowYieldThreshold: cfg.Discovery.LowYieldThreshold,
		LowYieldPages:     cfg.Discovery.LowYieldPages,
		MaxRetries:        cfg.RateLimit.MaxRetries,
	}
	if !quiet {
		opts.OnFound = func(url string, found, target int) {
			ui.PrintInfo("Found", url)
		}
	}

	engine := discover.New(client, discover.DefaultPools(time.Now()), opts, logger.GetLogger())
	urls, err := engine.Discover(strategy, keyword, count)
	if err != nil {
		return nil, err
	}
	if len(urls) < count {
		ui.PrintWarning("Discovery fell short", len(urls))
	}
	return urls, nil
}

func dedupURLs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := urls[:0]
	for _, url := range urls {
		key := tiktok.CanonicalVideoKey(url)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, url)
	}
	return out
}

// writeResults prints the extracted records to stdout: a bare object
// for a single requested URL, an array otherwise.
func writeResults(results []*tiktok.VideoStats, single bool, prettyOut bool) error {
	if len(results) == 0 {
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	if prettyOut {
		enc.SetIndent("", "  ")
	}
	if single && len(results) == 1 {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}

func printSummary(stats scraper.RunStatistics) {
	if stats.Succeeded == stats.Attempted {
		ui.PrintSuccess("All videos extracted")
	} else {
		ui.PrintWarning("Some videos failed", stats.Attempted-stats.Succeeded)
	}
}
