package tiktok

import (
	"ttscraper/pkg/errors"
	"ttscraper/pkg/jsontree"
)

// SearchVideos issues one paged request against the public keyword
// search API and returns canonical video URLs. The response is probed
// loosely: blocked regions tend to answer with HTML or half-empty JSON,
// and either simply yields no results for this page.
func (c *Client) SearchVideos(keyword string, offset, count int) ([]string, error) {
	body, err := c.FetchPage(SearchURL(c.baseURL, keyword, offset, count))
	if err != nil {
		return nil, err
	}

	tree, err := jsontree.Parse([]byte(body))
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeParsing,
			"search response for %q is not JSON", keyword)
	}

	var urls []string
	for _, entry := range tree.Get("data").Elements() {
		kind, _ := entry.Get("type").Int64()
		if kind != 1 { // 1 = video result
			continue
		}
		item := entry.Get("item")
		id := item.Get("id").StringOr("")
		if id == "" {
			continue
		}
		author := item.Path("author").Get("unique_id").StringOr("user")
		urls = append(urls, VideoURL(author, id))
		if len(urls) >= count {
			break
		}
	}

	c.logger.DebugWithFields("search page fetched", map[string]interface{}{
		"keyword": keyword,
		"offset":  offset,
		"results": len(urls),
	})
	return urls, nil
}
