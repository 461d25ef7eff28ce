package tiktok

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttscraper/pkg/errors"
)

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		want    []string
	}{
		{"no hashtags", "just a plain caption", []string{}},
		{"single hashtag", "look at this #sunset", []string{"#sunset"}},
		{"order preserved", "#first then #second and #third", []string{"#first", "#second", "#third"}},
		{"case-insensitive dedup keeps first spelling", "hi #A #b #A", []string{"#A", "#b"}},
		{"mixed case dedup", "#FYP again #fyp and #Fyp", []string{"#FYP"}},
		{"unicode letters", "essen in #münchen #日本", []string{"#münchen", "#日本"}},
		{"digits and underscore", "#top_10 picks", []string{"#top_10"}},
		{"empty caption", "", []string{}},
		{"bare hash ignored", "a # b #ok", []string{"#ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractHashtags(tt.caption))
		})
	}
}

func TestExtractHashtagsNeverNil(t *testing.T) {
	tags := ExtractHashtags("nothing here")
	require.NotNil(t, tags)

	data, err := json.Marshal(tags)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func mustState(t *testing.T, html string) *State {
	t.Helper()
	state, err := ExtractState(html)
	require.NoError(t, err)
	return state
}

func TestMapStatsUniversal(t *testing.T) {
	html := scriptTag("__UNIVERSAL_DATA_FOR_REHYDRATION__", `{
		"__DEFAULT_SCOPE__": {
			"webapp.video-detail": {
				"itemInfo": {
					"itemStruct": {
						"id": "7301234567890123456",
						"desc": "Fun #trip to #NYC",
						"stats": {
							"playCount": 100,
							"diggCount": 10,
							"shareCount": 1,
							"commentCount": 2
						}
					}
				}
			}
		}
	}`)

	stats, err := MapStats(mustState(t, html))
	require.NoError(t, err)

	assert.Equal(t, "Fun #trip to #NYC", stats.Caption)
	require.NotNil(t, stats.Views)
	assert.Equal(t, int64(100), *stats.Views)
	require.NotNil(t, stats.Likes)
	assert.Equal(t, int64(10), *stats.Likes)
	require.NotNil(t, stats.Shares)
	assert.Equal(t, int64(1), *stats.Shares)
	require.NotNil(t, stats.Comments)
	assert.Equal(t, int64(2), *stats.Comments)
	assert.Equal(t, []string{"#trip", "#NYC"}, stats.Hashtags)
}

func TestMapStatsSigi(t *testing.T) {
	html := scriptTag("SIGI_STATE", `{
		"ItemModule": {
			"7301234567890123456": {
				"id": "7301234567890123456",
				"desc": "legacy page #still #works",
				"stats": {
					"playCount": "1,234,567",
					"diggCount": 99,
					"shareCount": 5,
					"commentCount": 12
				}
			}
		}
	}`)

	stats, err := MapStats(mustState(t, html))
	require.NoError(t, err)

	assert.Equal(t, "legacy page #still #works", stats.Caption)
	require.NotNil(t, stats.Views)
	assert.Equal(t, int64(1234567), *stats.Views)
	assert.Equal(t, []string{"#still", "#works"}, stats.Hashtags)
}

func TestMapStatsNext(t *testing.T) {
	html := scriptTag("__NEXT_DATA__", `{
		"props": {
			"pageProps": {
				"itemInfo": {
					"itemStruct": {
						"desc": "oldest schema",
						"stats": {"playCount": 42}
					}
				}
			}
		}
	}`)

	stats, err := MapStats(mustState(t, html))
	require.NoError(t, err)
	assert.Equal(t, "oldest schema", stats.Caption)
	require.NotNil(t, stats.Views)
	assert.Equal(t, int64(42), *stats.Views)
}

func TestMapStatsMissingCountersAreNull(t *testing.T) {
	html := scriptTag("SIGI_STATE", `{
		"ItemModule": {
			"1": {"desc": "no stats object at all"}
		}
	}`)

	stats, err := MapStats(mustState(t, html))
	require.NoError(t, err)

	assert.Equal(t, "no stats object at all", stats.Caption)
	assert.Nil(t, stats.Views)
	assert.Nil(t, stats.Likes)
	assert.Nil(t, stats.Shares)
	assert.Nil(t, stats.Comments)

	// nil counters serialize to JSON null, never zero
	data, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"views":null`)
	assert.Contains(t, string(data), `"likes":null`)
}

func TestMapStatsUnparseableCounterIsNull(t *testing.T) {
	html := scriptTag("SIGI_STATE", `{
		"ItemModule": {
			"1": {
				"desc": "d",
				"stats": {"playCount": "lots", "diggCount": -5, "shareCount": 3}
			}
		}
	}`)

	stats, err := MapStats(mustState(t, html))
	require.NoError(t, err)
	assert.Nil(t, stats.Views)
	assert.Nil(t, stats.Likes)
	require.NotNil(t, stats.Shares)
	assert.Equal(t, int64(3), *stats.Shares)
}

func TestMapStatsLargeCounterSurvives(t *testing.T) {
	// Large 64-bit counters must not round through float64.
	html := scriptTag("SIGI_STATE", `{
		"ItemModule": {
			"1": {"desc": "d", "stats": {"playCount": 9007199254740993}}
		}
	}`)

	stats, err := MapStats(mustState(t, html))
	require.NoError(t, err)
	require.NotNil(t, stats.Views)
	assert.Equal(t, int64(9007199254740993), *stats.Views)
}

func TestMapStatsCrossSchemaFallback(t *testing.T) {
	// A SIGI-tagged state carrying a universal-style layout still maps:
	// the adapter chain falls through past the hinted schema.
	html := scriptTag("SIGI_STATE", `{
		"__DEFAULT_SCOPE__": {
			"webapp.video-detail": {
				"itemInfo": {"itemStruct": {"desc": "nested layout", "stats": {"playCount": 7}}}
			}
		}
	}`)

	stats, err := MapStats(mustState(t, html))
	require.NoError(t, err)
	assert.Equal(t, "nested layout", stats.Caption)
}

func TestMapStatsNoSchemaPathMatches(t *testing.T) {
	html := scriptTag("SIGI_STATE", `{"AppContext": {"lang": "en"}}`)

	stats, err := MapStats(mustState(t, html))
	assert.Nil(t, stats)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeMetadataNotFound))
}

func TestMapStatsSigiDeterministicAcrossEntries(t *testing.T) {
	html := scriptTag("SIGI_STATE", `{
		"ItemModule": {
			"222": {"desc": "second", "stats": {}},
			"111": {"desc": "first", "stats": {}}
		}
	}`)

	// Sorted key order makes the pick stable over Go's map iteration.
	for i := 0; i < 10; i++ {
		stats, err := MapStats(mustState(t, html))
		require.NoError(t, err)
		assert.Equal(t, "first", stats.Caption)
	}
}
