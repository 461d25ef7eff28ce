package tiktok

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	// BaseURL is the base URL for the TikTok web frontend.
	BaseURL = "https://www.tiktok.com"

	// SearchEndpoint is the public keyword search API.
	SearchEndpoint = "/api/search/general/full/"

	// TrendingPath is the For You page used for trending discovery.
	TrendingPath = "/foryou"
)

var (
	videoIDRe = regexp.MustCompile(`/video/(\d+)`)
	shortRe   = regexp.MustCompile(`tiktok\.com/t/([A-Za-z0-9]+)`)
)

// VideoURL constructs the canonical URL for a video.
func VideoURL(username, videoID string) string {
	return fmt.Sprintf("%s/@%s/video/%s", BaseURL, SanitizeUsername(username), videoID)
}

// ProfileURLs returns the profile URL variants tried when resolving a
// user's latest video. The language-pinned and mobile variants improve
// the odds of receiving parseable HTML in some regions.
func ProfileURLs(base, username string) []string {
	uname := SanitizeUsername(username)
	return []string{
		fmt.Sprintf("%s/@%s", base, uname),
		fmt.Sprintf("%s/@%s?lang=en", base, uname),
		fmt.Sprintf("%s/@%s?lang=en-US", base, uname),
	}
}

// SearchURL constructs a paged keyword search request.
func SearchURL(base, keyword string, offset, count int) string {
	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("offset", fmt.Sprintf("%d", offset))
	params.Set("count", fmt.Sprintf("%d", count))
	params.Set("search_source", "normal_search")
	return fmt.Sprintf("%s%s?%s", base, SearchEndpoint, params.Encode())
}

// SanitizeUsername strips a leading @ and trailing slashes or spaces.
func SanitizeUsername(username string) string {
	uname := strings.TrimSpace(username)
	uname = strings.TrimPrefix(uname, "@")
	return strings.TrimRight(uname, "/ ")
}

// CanonicalVideoKey reduces a video URL to its dedup key: the numeric
// video id for canonical links, the short code for share links, and the
// full URL when neither form matches.
func CanonicalVideoKey(rawURL string) string {
	if m := videoIDRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	if m := shortRe.FindStringSubmatch(rawURL); m != nil {
		return "t:" + m[1]
	}
	return rawURL
}

// IsVideoURL reports whether s looks like a TikTok video link, in
// canonical or short share form.
func IsVideoURL(s string) bool {
	if !strings.Contains(s, "tiktok.com") {
		return false
	}
	return strings.Contains(s, "/video/") || strings.Contains(s, "/t/")
}
