// Package retry provides configurable retry logic with pluggable
// backoff strategies. The platform client never retries on its own;
// the discovery engine wraps its search requests with this package so
// transient network failures and 429s don't end a keyword early.
package retry
