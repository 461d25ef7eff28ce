package tiktok

import (
	"regexp"
	"strings"

	"ttscraper/pkg/errors"
	"ttscraper/pkg/jsontree"
)

// VideoStats is the canonical metadata record for one video. Counter
// fields are nil when the source field was absent or unparseable, which
// serializes to JSON null. Hashtags is never nil.
type VideoStats struct {
	Caption  string   `json:"caption"`
	Views    *int64   `json:"views"`
	Likes    *int64   `json:"likes"`
	Shares   *int64   `json:"shares"`
	Comments *int64   `json:"comments"`
	Hashtags []string `json:"hashtags"`
	URL      string   `json:"url,omitempty"`
}

var hashtagRe = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// ExtractHashtags collects hashtags from a caption in order of first
// appearance. Duplicates are dropped case-insensitively but the first
// spelling is preserved. Hashtags are always derived from the caption,
// never from the page's own tag list, so the result is deterministic
// across schemas.
func ExtractHashtags(caption string) []string {
	tags := []string{}
	seen := make(map[string]struct{})
	for _, tag := range hashtagRe.FindAllString(caption, -1) {
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// MapStats walks the parsed state through the schema adapter chain and
// builds a VideoStats record. The adapter matching the schema that
// produced the state runs first; the others follow as a fallback.
// Missing counter fields are not an error - they map to nil. Only when
// no adapter locates a video detail object at all does mapping fail.
func MapStats(state *State) (*VideoStats, error) {
	for _, adapter := range adaptersFor(state.Schema) {
		item, ok := adapter.Item(state.Tree)
		if !ok {
			continue
		}
		return statsFromItem(item), nil
	}
	return nil, errors.New(errors.ErrorTypeMetadataNotFound,
		"embedded state present but no known schema path matched")
}

func statsFromItem(item jsontree.Value) *VideoStats {
	caption := item.Get("desc").StringOr("")
	counters := item.Get("stats")
	return &VideoStats{
		Caption:  caption,
		Views:    coerceCount(counters.Get("playCount")),
		Likes:    coerceCount(counters.Get("diggCount")),
		Shares:   coerceCount(counters.Get("shareCount")),
		Comments: coerceCount(counters.Get("commentCount")),
		Hashtags: ExtractHashtags(caption),
	}
}

// coerceCount converts a counter leaf to *int64, accepting numeric
// strings. Anything unconvertible becomes nil rather than an error.
func coerceCount(v jsontree.Value) *int64 {
	n, ok := v.Int64()
	if !ok || n < 0 {
		return nil
	}
	return &n
}
