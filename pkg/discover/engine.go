// Package discover produces candidate video URLs without the caller
// supplying them: keyword search, tiered intelligent auto-search,
// hashtag search, and legacy trending discovery. One discovery run
// deduplicates by canonical video id and adapts page size and pacing
// to the requested count.
package discover

import (
	"math/rand"
	"time"

	"ttscraper/pkg/logger"
	"ttscraper/pkg/ratelimit"
	"ttscraper/pkg/retry"
	"ttscraper/pkg/tiktok"
)

// Strategy names a discovery method.
type Strategy string

const (
	// StrategyManual searches a single caller-supplied keyword.
	StrategyManual Strategy = "manual"
	// StrategyAuto walks the tiered keyword pools.
	StrategyAuto Strategy = "auto"
	// StrategyHashtag walks the shuffled hashtag pool.
	StrategyHashtag Strategy = "hashtag"
	// StrategyTrending mines the For You page. Legacy: the endpoint is
	// the most likely to be region-blocked.
	StrategyTrending Strategy = "trending"
)

// Searcher is the slice of the platform client the engine depends on.
type Searcher interface {
	SearchVideos(keyword string, offset, count int) ([]string, error)
	TrendingVideos(count int) ([]string, error)
}

// BatchPolicy balances discovery throughput against rate limiting:
// larger targets amortize per-request overhead with bigger pages and
// shorter delays.
type BatchPolicy struct {
	PageSize     int
	Delay        time.Duration
	MaxPerSearch int
}

// PolicyFor selects the batch policy once from the target count.
func PolicyFor(count int) BatchPolicy {
	switch {
	case count <= 10:
		return BatchPolicy{PageSize: 5, Delay: 500 * time.Millisecond, MaxPerSearch: 10}
	case count <= 50:
		return BatchPolicy{PageSize: 10, Delay: 300 * time.Millisecond, MaxPerSearch: 15}
	default:
		return BatchPolicy{PageSize: 20, Delay: 200 * time.Millisecond, MaxPerSearch: 30}
	}
}

// Options tunes one engine instance. Zero values fall back to defaults.
type Options struct {
	// MaxAttempts caps the number of search requests in one run.
	MaxAttempts int
	// LowYieldThreshold is the new-URL count per page below which a
	// page counts as low-yield.
	LowYieldThreshold int
	// LowYieldPages is how many consecutive low-yield pages exhaust a
	// keyword.
	LowYieldPages int
	// MaxRetries is the retry budget per search request.
	MaxRetries int
	// Rand shuffles the pools; inject a seeded source for determinism.
	Rand *rand.Rand
	// OnFound is invoked for every new unique URL, supporting
	// incremental consumption and progress reporting upstream.
	OnFound func(url string, found, target int)
	// SleepFunc replaces inter-request sleeping. Used by tests.
	SleepFunc func(time.Duration)
}

// Engine drives discovery runs. Pools are fixed at construction; all
// mutable run state lives in a per-call batch, so one engine can serve
// sequential runs without leaking URLs between them.
type Engine struct {
	client Searcher
	pools  Pools
	opts   Options
	logger logger.Logger
}

// New creates a discovery engine.
func New(client Searcher, pools Pools, opts Options, log logger.Logger) *Engine {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 50
	}
	if opts.LowYieldThreshold <= 0 {
		opts.LowYieldThreshold = 1
	}
	if opts.LowYieldPages <= 0 {
		opts.LowYieldPages = 2
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 2
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{client: client, pools: pools, opts: opts, logger: log}
}

// batch is the ephemeral state of one discovery run: the dedup set,
// the collected URLs, and the request budget. Created per call, never
// shared.
type batch struct {
	target   int
	policy   BatchPolicy
	pacer    *ratelimit.Pacer
	seen     map[string]struct{}
	urls     []string
	attempts int
}

func (e *Engine) newBatch(count int) *batch {
	policy := PolicyFor(count)
	pacer := ratelimit.NewPacer(policy.Delay)
	if e.opts.SleepFunc != nil {
		pacer.SetSleepFunc(e.opts.SleepFunc)
	}
	return &batch{
		target: count,
		policy: policy,
		pacer:  pacer,
		seen:   make(map[string]struct{}),
	}
}

// add records a URL, returning true when it was new to this run.
func (b *batch) add(url string, onFound func(string, int, int)) bool {
	key := tiktok.CanonicalVideoKey(url)
	if _, dup := b.seen[key]; dup {
		return false
	}
	b.seen[key] = struct{}{}
	b.urls = append(b.urls, url)
	if onFound != nil {
		onFound(url, len(b.urls), b.target)
	}
	return true
}

func (b *batch) done() bool {
	return len(b.urls) >= b.target
}

func (b *batch) exhausted(maxAttempts int) bool {
	return b.attempts >= maxAttempts
}

// Discover runs one discovery pass and returns up to count unique
// URLs. Falling short of count is a normal outcome, not an error: the
// engine returns whatever it found once every keyword in the active
// strategy's pool is exhausted.
func (e *Engine) Discover(strategy Strategy, keyword string, count int) ([]string, error) {
	if count <= 0 {
		count = 1
	}
	b := e.newBatch(count)

	e.logger.InfoWithFields("starting discovery", map[string]interface{}{
		"strategy":  string(strategy),
		"target":    count,
		"page_size": b.policy.PageSize,
	})

	var err error
	switch strategy {
	case StrategyManual:
		e.searchKeyword(b, keyword)
	case StrategyAuto:
		e.autoSearch(b)
	case StrategyHashtag:
		e.hashtagSearch(b)
	case StrategyTrending:
		err = e.trending(b)
	default:
		e.searchKeyword(b, keyword)
	}

	e.logger.InfoWithFields("discovery finished", map[string]interface{}{
		"strategy": string(strategy),
		"found":    len(b.urls),
		"target":   count,
		"searches": b.attempts,
	})
	return b.urls, err
}

// searchKeyword pages through one keyword until the target is met, the
// keyword stops producing new URLs, or the request budget runs out.
// A keyword is exhausted after LowYieldPages consecutive pages whose
// new-URL yield falls below LowYieldThreshold.
func (e *Engine) searchKeyword(b *batch, keyword string) {
	if keyword == "" {
		return
	}

	offset := 0
	lowYieldStreak := 0
	for !b.done() && !b.exhausted(e.opts.MaxAttempts) {
		remaining := b.target - len(b.urls)
		pageSize := min3(b.policy.PageSize, remaining, b.policy.MaxPerSearch)

		b.pacer.Wait()
		b.attempts++

		results, err := retry.DoWithResult(func() ([]string, error) {
			return e.client.SearchVideos(keyword, offset, pageSize)
		}, retry.Fixed(e.opts.MaxRetries, b.policy.Delay, e.logger))
		if err != nil {
			e.logger.WarnWithFields("search failed, moving on", map[string]interface{}{
				"keyword": keyword,
				"offset":  offset,
				"error":   err.Error(),
			})
			return
		}
		if len(results) == 0 {
			return // search exhausted
		}

		newURLs := 0
		for _, url := range results {
			if b.add(url, e.opts.OnFound) {
				newURLs++
			}
		}
		logger.LogDiscovery("search", keyword, len(b.urls), b.target)

		if newURLs < e.opts.LowYieldThreshold {
			lowYieldStreak++
			if lowYieldStreak >= e.opts.LowYieldPages {
				return // keyword mined out, advance
			}
		} else {
			lowYieldStreak = 0
		}
		offset += len(results)
	}
}

// autoSearch walks the keyword tiers in priority order: trending single
// words, then combination phrases, then the high-volume fallback. The
// fallback tier only runs for large batches that are still short, since
// its broad terms mostly re-surface URLs the earlier tiers found.
func (e *Engine) autoSearch(b *batch) {
	tiers := [][]string{
		e.shuffled(e.pools.Trending),
		e.shuffled(e.pools.Combos),
	}
	for _, tier := range tiers {
		for _, keyword := range tier {
			if b.done() || b.exhausted(e.opts.MaxAttempts) {
				return
			}
			e.searchKeyword(b, keyword)
		}
	}

	if b.done() || b.target <= 20 {
		return
	}
	for _, keyword := range e.shuffled(e.pools.HighVolume) {
		if b.done() || b.exhausted(e.opts.MaxAttempts) {
			return
		}
		e.searchKeyword(b, keyword)
	}
}

// hashtagSearch uses the same mechanics as auto-search over the
// hashtag pool, shuffled per run for result variety across repeated
// invocations.
func (e *Engine) hashtagSearch(b *batch) {
	for _, hashtag := range e.shuffled(e.pools.Hashtags) {
		if b.done() || b.exhausted(e.opts.MaxAttempts) {
			return
		}
		e.searchKeyword(b, hashtag)
	}
}

func (e *Engine) trending(b *batch) error {
	urls, err := e.client.TrendingVideos(b.target)
	if err != nil {
		return err
	}
	for _, url := range urls {
		if b.done() {
			break
		}
		b.add(url, e.opts.OnFound)
	}
	return nil
}

func (e *Engine) shuffled(pool []string) []string {
	out := append([]string(nil), pool...)
	e.opts.Rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	if m < 1 {
		m = 1
	}
	return m
}
