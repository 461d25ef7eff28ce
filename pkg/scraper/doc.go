// Package scraper orchestrates batch metadata extraction. URLs are
// processed strictly one at a time: concurrent requests against TikTok
// sharply increase block risk, so correctness here means ordered
// requests with explicit delays, not throughput. A failure on one URL
// is logged and skipped; it never aborts the run.
package scraper
