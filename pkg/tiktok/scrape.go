package tiktok

// ScrapeVideo fetches a video page and extracts its metadata record in
// one call: fetch, extract state, map to stats. Errors from any stage
// propagate to the caller as a terminal failure for this URL; batch
// behavior (catch, log, continue) lives in the orchestrator.
func (c *Client) ScrapeVideo(url string) (*VideoStats, error) {
	html, err := c.FetchPage(url)
	if err != nil {
		return nil, err
	}

	state, err := ExtractState(html)
	if err != nil {
		return nil, err
	}

	stats, err := MapStats(state)
	if err != nil {
		return nil, err
	}
	stats.URL = url
	return stats, nil
}
