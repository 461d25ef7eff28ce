package logger

// Domain-specific logging helpers.

// LogScrape logs the outcome of scraping one video URL.
func LogScrape(url string, success bool, err error) {
	fields := map[string]interface{}{
		"url":    url,
		"action": "scrape",
	}
	if success {
		GetLogger().InfoWithFields("video scraped", fields)
		return
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	GetLogger().WarnWithFields("video skipped", fields)
}

// LogDiscovery logs progress of a discovery run.
func LogDiscovery(strategy, keyword string, found, target int) {
	GetLogger().InfoWithFields("discovery progress", map[string]interface{}{
		"strategy": strategy,
		"keyword":  keyword,
		"found":    found,
		"target":   target,
	})
}

// LogRateLimit logs rate limiting events.
func LogRateLimit(endpoint string, retryAfterSeconds int) {
	GetLogger().WarnWithFields("rate limit hit", map[string]interface{}{
		"endpoint":    endpoint,
		"retry_after": retryAfterSeconds,
	})
}
