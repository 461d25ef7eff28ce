package tiktok

import (
	"ttscraper/pkg/errors"
	"ttscraper/pkg/jsontree"
)

// ResolveLatest discovers the most recent video URL for a username by
// scraping the profile page. Profile URL variants are tried in order
// until one yields extractable state.
//
// Two failure modes are kept distinct on purpose: ProfileNotFound means
// no variant produced embedded state (private, blocked, or region-locked
// profile - supplying cookies may help), while NoVideosFound means the
// profile parsed fine but lists zero public videos.
func (c *Client) ResolveLatest(username string) (string, error) {
	uname := SanitizeUsername(username)
	if uname == "" {
		return "", errors.New(errors.ErrorTypeProfileNotFound, "username cannot be empty")
	}

	sawState := false
	for _, profileURL := range ProfileURLs(c.baseURL, uname) {
		html, err := c.FetchPage(profileURL)
		if err != nil {
			c.logger.DebugWithFields("profile variant fetch failed", map[string]interface{}{
				"username": uname,
				"url":      profileURL,
				"error":    err.Error(),
			})
			continue
		}

		state, err := ExtractState(html)
		if err != nil {
			continue
		}
		sawState = true

		if id := latestVideoID(state); id != "" {
			return VideoURL(uname, id), nil
		}
	}

	if sawState {
		return "", errors.Newf(errors.ErrorTypeNoVideosFound,
			"profile @%s has no public videos", uname)
	}
	return "", errors.Newf(errors.ErrorTypeProfileNotFound,
		"no extractable state on profile @%s; the profile may be private, blocked, or region-locked - try supplying cookies", uname)
}

// latestVideoID probes the known per-schema locations of a profile's
// video list and returns the most recent video id, or "".
func latestVideoID(state *State) string {
	tree := state.Tree

	// Current schema: webapp.user-detail carries an ordered item list.
	items := tree.Path("__DEFAULT_SCOPE__", "webapp.user-detail", "itemList")
	if items.IsArray() && items.Len() > 0 {
		if id := items.Index(0).Get("id").StringOr(""); id != "" {
			return id
		}
	}

	// SIGI_STATE: ItemList["user-post"].list holds video ids newest first.
	ids := tree.Path("ItemList", "user-post").Get("list")
	if ids.IsArray() && ids.Len() > 0 {
		if id, ok := ids.Index(0).String(); ok && id != "" {
			return id
		}
	}

	// SIGI_STATE fallback: pick the newest ItemModule entry by createTime.
	if id := newestByCreateTime(tree.Get("ItemModule").Values()); id != "" {
		return id
	}

	// __NEXT_DATA__ variants.
	pageProps := tree.Path("props", "pageProps")
	ids = pageProps.Path("itemList", "user-post").Get("list")
	if ids.IsArray() && ids.Len() > 0 {
		if id, ok := ids.Index(0).String(); ok && id != "" {
			return id
		}
	}
	if id := newestByCreateTime(pageProps.Get("items").Elements()); id != "" {
		return id
	}
	return pageProps.Path("itemInfo", "itemStruct").Get("id").StringOr("")
}

func newestByCreateTime(items []jsontree.Value) string {
	var newestID string
	var newestTime int64 = -1
	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		created, _ := item.Get("createTime").Int64()
		if created > newestTime {
			if id := item.Get("id").StringOr(""); id != "" {
				newestID = id
				newestTime = created
			}
		}
	}
	return newestID
}
