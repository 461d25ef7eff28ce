package tiktok

import (
	"ttscraper/pkg/jsontree"
)

// TrendingVideos mines the For You page for video URLs. This is the
// legacy discovery path: the endpoint is the most likely to be blocked
// per-region, so an empty result is a normal outcome rather than an
// error. Only transport failures on both page variants are reported.
func (c *Client) TrendingVideos(count int) ([]string, error) {
	html, err := c.FetchPage(c.baseURL + TrendingPath)
	if err != nil {
		html, err = c.FetchPage(c.baseURL + "/")
		if err != nil {
			return nil, err
		}
	}

	state, err := ExtractState(html)
	if err != nil {
		c.logger.Debug("trending page carries no embedded state")
		return nil, nil
	}

	var urls []string
	appendItem := func(item jsontree.Value) {
		if len(urls) >= count || !item.IsObject() {
			return
		}
		id := item.Get("id").StringOr("")
		if id == "" {
			return
		}
		author := item.Path("author").Get("uniqueId").StringOr("user")
		urls = append(urls, VideoURL(author, id))
	}

	scope := state.Tree.Get("__DEFAULT_SCOPE__")
	appendItem(scope.Path("webapp.video-detail", "itemInfo", "itemStruct"))
	for _, item := range scope.Get("ItemModule").Values() {
		appendItem(item)
	}
	// SIGI pages keep the module at the top level.
	for _, item := range state.Tree.Get("ItemModule").Values() {
		appendItem(item)
	}

	return urls, nil
}
