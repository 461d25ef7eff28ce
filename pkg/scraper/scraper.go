package scraper

import (
	"context"
	"time"

	"ttscraper/pkg/config"
	"ttscraper/pkg/logger"
	"ttscraper/pkg/ratelimit"
	"ttscraper/pkg/tiktok"
	"ttscraper/pkg/ui"
)

// largeBatchThreshold is the batch size above which a small pause is
// inserted between items, on top of the rate limiter.
const (
	largeBatchThreshold = 20
	interItemDelay      = 100 * time.Millisecond
)

// PageFetcher is the slice of the platform client the orchestrator
// drives through the per-URL pipeline.
type PageFetcher interface {
	FetchPage(url string) (string, error)
}

// RunStatistics accumulates the outcome of one batch run. It is reset
// per run and mirrors the run's lifecycle.
type RunStatistics struct {
	Attempted  int   `json:"attempted"`
	Succeeded  int   `json:"succeeded"`
	TotalViews int64 `json:"total_views"`
	TotalLikes int64 `json:"total_likes"`
}

// SuccessRate returns the fraction of attempted URLs that produced a
// record, in [0,1].
func (s RunStatistics) SuccessRate() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Attempted)
}

// itemState tracks one URL through the pipeline. Failures are terminal
// per item, never global.
type itemState int

const (
	statePending itemState = iota
	stateFetching
	stateExtracting
	stateMapping
	stateDone
	stateFailed
)

type item struct {
	url   string
	state itemState
	stats *tiktok.VideoStats
	err   error
}

// Orchestrator runs the fetch → extract → map pipeline over a URL
// list, sequentially, accumulating results and running totals.
type Orchestrator struct {
	fetcher  PageFetcher
	limiter  ratelimit.Limiter
	logger   logger.Logger
	progress *ui.BatchProgress
	// sleep is swappable so tests can run without real delays.
	sleep func(time.Duration)
}

// New creates an orchestrator around the given fetcher. The rate
// limiter caps the request rate across the whole run.
func New(fetcher PageFetcher, cfg *config.Config) *Orchestrator {
	rpm := 60
	if cfg != nil && cfg.RateLimit.RequestsPerMinute > 0 {
		rpm = cfg.RateLimit.RequestsPerMinute
	}
	return &Orchestrator{
		fetcher: fetcher,
		limiter: ratelimit.NewTokenBucket(rpm, time.Minute),
		logger:  logger.GetLogger(),
		sleep:   time.Sleep,
	}
}

// SetLimiter replaces the rate limiter. Used by tests.
func (o *Orchestrator) SetLimiter(l ratelimit.Limiter) {
	o.limiter = l
}

// SetSleepFunc replaces the inter-item sleep. Used by tests.
func (o *Orchestrator) SetSleepFunc(sleep func(time.Duration)) {
	o.sleep = sleep
}

// EnableProgress turns on the stderr progress display for the next Run.
func (o *Orchestrator) EnableProgress(total int) {
	o.progress = ui.NewBatchProgress(total)
}

// Run scrapes each URL in order and returns the successful records
// plus run statistics. Any error from fetching, extraction, or mapping
// is caught per URL, logged with the reason, and counted as a failure;
// the run continues. Cancelling the context stops the loop between
// items, keeping the partial results already accumulated valid.
func (o *Orchestrator) Run(ctx context.Context, urls []string) ([]*tiktok.VideoStats, RunStatistics) {
	var results []*tiktok.VideoStats
	var stats RunStatistics

	for i, url := range urls {
		if ctx.Err() != nil {
			o.logger.WarnWithFields("batch interrupted", map[string]interface{}{
				"processed": i,
				"total":     len(urls),
			})
			break
		}

		stats.Attempted++
		if o.progress != nil {
			o.progress.Start(url)
		}

		it := o.process(url)
		if it.state == stateDone {
			stats.Succeeded++
			if it.stats.Views != nil {
				stats.TotalViews += *it.stats.Views
			}
			if it.stats.Likes != nil {
				stats.TotalLikes += *it.stats.Likes
			}
			results = append(results, it.stats)
			logger.LogScrape(url, true, nil)
			if o.progress != nil {
				o.progress.Complete()
			}
		} else {
			logger.LogScrape(url, false, it.err)
			if o.progress != nil {
				o.progress.Fail()
			}
		}

		// Large batches get a small pause between items to avoid
		// hammering the service beyond what the limiter allows.
		if len(urls) > largeBatchThreshold && i < len(urls)-1 {
			o.sleep(interItemDelay)
		}
	}

	if o.progress != nil {
		o.progress.Done()
		o.progress = nil
	}

	o.logger.InfoWithFields("batch finished", map[string]interface{}{
		"attempted":    stats.Attempted,
		"succeeded":    stats.Succeeded,
		"success_rate": stats.SuccessRate(),
		"total_views":  stats.TotalViews,
		"total_likes":  stats.TotalLikes,
	})
	return results, stats
}

// process drives one URL through the pipeline state machine:
// pending → fetching → extracting → mapping → done|failed.
func (o *Orchestrator) process(url string) *item {
	it := &item{url: url, state: statePending}

	if !o.limiter.Allow() {
		logger.LogRateLimit("tiktok_web", 60)
		o.limiter.Wait()
	}

	it.state = stateFetching
	html, err := o.fetcher.FetchPage(url)
	if err != nil {
		return it.fail(err)
	}

	it.state = stateExtracting
	state, err := tiktok.ExtractState(html)
	if err != nil {
		return it.fail(err)
	}

	it.state = stateMapping
	stats, err := tiktok.MapStats(state)
	if err != nil {
		return it.fail(err)
	}

	stats.URL = url
	it.stats = stats
	it.state = stateDone
	return it
}

func (it *item) fail(err error) *item {
	it.err = err
	it.state = stateFailed
	return it
}
