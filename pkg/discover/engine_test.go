package discover

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttscraper/pkg/errors"
)

// fakeSearcher serves canned pages per keyword and records every call.
type fakeSearcher struct {
	pages    map[string][][]string // keyword -> pages of URLs
	trending []string
	calls    []string
	failWith error
}

func (f *fakeSearcher) SearchVideos(keyword string, offset, count int) ([]string, error) {
	f.calls = append(f.calls, fmt.Sprintf("%s@%d", keyword, offset))
	if f.failWith != nil {
		return nil, f.failWith
	}
	remaining := offset
	for _, page := range f.pages[keyword] {
		if remaining < len(page) {
			if len(page) > count {
				page = page[:count]
			}
			return page, nil
		}
		remaining -= len(page)
	}
	return nil, nil
}

func (f *fakeSearcher) TrendingVideos(count int) ([]string, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if len(f.trending) > count {
		return f.trending[:count], nil
	}
	return f.trending, nil
}

func videoURL(id int) string {
	return fmt.Sprintf("https://www.tiktok.com/@u/video/%d", id)
}

func testOptions() Options {
	return Options{
		Rand:      rand.New(rand.NewSource(1)),
		SleepFunc: func(time.Duration) {},
	}
}

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		count        int
		pageSize     int
		delay        time.Duration
		maxPerSearch int
	}{
		{1, 5, 500 * time.Millisecond, 10},
		{8, 5, 500 * time.Millisecond, 10},
		{10, 5, 500 * time.Millisecond, 10},
		{11, 10, 300 * time.Millisecond, 15},
		{30, 10, 300 * time.Millisecond, 15},
		{50, 10, 300 * time.Millisecond, 15},
		{51, 20, 200 * time.Millisecond, 30},
		{75, 20, 200 * time.Millisecond, 30},
		{500, 20, 200 * time.Millisecond, 30},
	}

	for _, tt := range tests {
		p := PolicyFor(tt.count)
		assert.Equal(t, tt.pageSize, p.PageSize, "count %d", tt.count)
		assert.Equal(t, tt.delay, p.Delay, "count %d", tt.count)
		assert.Equal(t, tt.maxPerSearch, p.MaxPerSearch, "count %d", tt.count)
	}
}

func TestDiscoverManualKeyword(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string][][]string{
		"dance": {
			{videoURL(1), videoURL(2), videoURL(3)},
			{videoURL(4), videoURL(5)},
		},
	}}

	engine := New(searcher, Pools{}, testOptions(), nil)
	urls, err := engine.Discover(StrategyManual, "dance", 5)
	require.NoError(t, err)
	assert.Len(t, urls, 5)
}

func TestDiscoverDeduplicatesAcrossPages(t *testing.T) {
	// Page two repeats everything from page one; only page three brings
	// new videos.
	searcher := &fakeSearcher{pages: map[string][][]string{
		"dance": {
			{videoURL(1), videoURL(2)},
			{videoURL(1), videoURL(2)},
			{videoURL(3), videoURL(4)},
		},
	}}

	opts := testOptions()
	opts.LowYieldPages = 3 // tolerate the duplicate page
	engine := New(searcher, Pools{}, opts, nil)

	urls, err := engine.Discover(StrategyManual, "dance", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{videoURL(1), videoURL(2), videoURL(3), videoURL(4)}, urls)
}

func TestDiscoverDedupIgnoresURLVariants(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string][][]string{
		"dance": {
			{
				"https://www.tiktok.com/@alice/video/100",
				"https://www.tiktok.com/@mirror/video/100?copy=1",
				"https://www.tiktok.com/@bob/video/200",
			},
		},
	}}

	engine := New(searcher, Pools{}, testOptions(), nil)
	urls, err := engine.Discover(StrategyManual, "dance", 10)
	require.NoError(t, err)
	assert.Len(t, urls, 2)
}

func TestDiscoverLowYieldAdvancesKeyword(t *testing.T) {
	// "dry" keeps returning the same URL; after two consecutive low-yield
	// pages the engine must abandon it and move to the next pool keyword.
	searcher := &fakeSearcher{pages: map[string][][]string{
		"dry":  {{videoURL(1)}, {videoURL(1)}, {videoURL(1)}, {videoURL(1)}},
		"wet":  {{videoURL(2), videoURL(3), videoURL(4)}},
		"damp": {{videoURL(5)}},
	}}

	opts := testOptions()
	pools := Pools{Trending: []string{"dry", "wet", "damp"}}
	engine := New(searcher, pools, opts, nil)

	urls, err := engine.Discover(StrategyAuto, "", 5)
	require.NoError(t, err)
	assert.Len(t, urls, 5)

	dryCalls := 0
	for _, call := range searcher.calls {
		if call[:3] == "dry" {
			dryCalls++
		}
	}
	// First page yields one new URL, then low-yield pages 2 and 3 trip
	// the streak. It must not keep paging past that.
	assert.LessOrEqual(t, dryCalls, 3)
}

func TestDiscoverStopsAtTarget(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string][][]string{
		"dance": {
			{videoURL(1), videoURL(2), videoURL(3), videoURL(4), videoURL(5)},
		},
	}}

	engine := New(searcher, Pools{}, testOptions(), nil)
	urls, err := engine.Discover(StrategyManual, "dance", 3)
	require.NoError(t, err)
	assert.Len(t, urls, 3)
}

func TestDiscoverFallingShortIsNotAnError(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string][][]string{
		"obscure": {{videoURL(1)}},
	}}

	engine := New(searcher, Pools{}, testOptions(), nil)
	urls, err := engine.Discover(StrategyManual, "obscure", 10)
	require.NoError(t, err)
	assert.Len(t, urls, 1)
}

func TestDiscoverMaxAttemptsBudget(t *testing.T) {
	// Endless unique results; the attempt cap must stop the run.
	searcher := &endlessSearcher{}
	opts := testOptions()
	opts.MaxAttempts = 4
	engine := New(searcher, Pools{}, opts, nil)

	_, err := engine.Discover(StrategyManual, "anything", 1000000)
	require.NoError(t, err)
	assert.Equal(t, 4, searcher.calls)
}

type endlessSearcher struct {
	calls int
	next  int
}

func (s *endlessSearcher) SearchVideos(keyword string, offset, count int) ([]string, error) {
	s.calls++
	urls := make([]string, count)
	for i := range urls {
		s.next++
		urls[i] = videoURL(s.next)
	}
	return urls, nil
}

func (s *endlessSearcher) TrendingVideos(count int) ([]string, error) {
	return nil, nil
}

func TestDiscoverSearchFailureMovesOn(t *testing.T) {
	searcher := &fakeSearcher{failWith: errors.New(errors.ErrorTypeParsing, "html response")}
	pools := Pools{Trending: []string{"a", "b"}}
	engine := New(searcher, pools, testOptions(), nil)

	urls, err := engine.Discover(StrategyAuto, "", 5)
	require.NoError(t, err)
	assert.Empty(t, urls)
	// Parsing errors are not retried, so one call per keyword.
	assert.Len(t, searcher.calls, 2)
}

func TestDiscoverHighVolumeTierOnlyForLargeBatches(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string][][]string{
		"broad": {{videoURL(1)}},
	}}
	pools := Pools{HighVolume: []string{"broad"}}

	// Small target: tier 3 must not run even though the run fell short.
	engine := New(searcher, pools, testOptions(), nil)
	urls, err := engine.Discover(StrategyAuto, "", 5)
	require.NoError(t, err)
	assert.Empty(t, urls)
	assert.Empty(t, searcher.calls)

	// Large target: tier 3 kicks in.
	searcher.calls = nil
	urls, err = engine.Discover(StrategyAuto, "", 30)
	require.NoError(t, err)
	assert.Len(t, urls, 1)
	assert.NotEmpty(t, searcher.calls)
}

func TestDiscoverHashtagStrategy(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string][][]string{
		"#fyp":   {{videoURL(1), videoURL(2)}},
		"#viral": {{videoURL(3)}},
	}}
	pools := Pools{Hashtags: []string{"#fyp", "#viral"}}
	engine := New(searcher, pools, testOptions(), nil)

	urls, err := engine.Discover(StrategyHashtag, "", 3)
	require.NoError(t, err)
	assert.Len(t, urls, 3)
}

func TestDiscoverTrendingStrategy(t *testing.T) {
	searcher := &fakeSearcher{trending: []string{videoURL(1), videoURL(2), videoURL(3)}}
	engine := New(searcher, Pools{}, testOptions(), nil)

	urls, err := engine.Discover(StrategyTrending, "", 2)
	require.NoError(t, err)
	assert.Len(t, urls, 2)
}

func TestDiscoverTrendingErrorPropagates(t *testing.T) {
	searcher := &fakeSearcher{failWith: errors.New(errors.ErrorTypeNetwork, "down")}
	engine := New(searcher, Pools{}, testOptions(), nil)

	_, err := engine.Discover(StrategyTrending, "", 5)
	assert.Error(t, err)
}

func TestDiscoverOnFoundCallback(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string][][]string{
		"dance": {{videoURL(1), videoURL(2)}},
	}}

	var found []int
	opts := testOptions()
	opts.OnFound = func(url string, n, target int) {
		found = append(found, n)
		assert.Equal(t, 2, target)
	}
	engine := New(searcher, Pools{}, opts, nil)

	_, err := engine.Discover(StrategyManual, "dance", 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, found)
}

func TestDefaultPoolsSeasonalTerms(t *testing.T) {
	july := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	pools := DefaultPools(july)
	assert.Contains(t, pools.Trending, "summer")
	assert.NotContains(t, pools.Trending, "christmas")

	december := time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC)
	pools = DefaultPools(december)
	assert.Contains(t, pools.Trending, "christmas")
	assert.NotEmpty(t, pools.Combos)
	assert.NotEmpty(t, pools.HighVolume)
	assert.NotEmpty(t, pools.Hashtags)
}
