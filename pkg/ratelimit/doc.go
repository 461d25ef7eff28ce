// Package ratelimit provides the throttling primitives the scraper
// relies on to stay under TikTok's anti-automation radar: a token
// bucket capping requests per minute across a batch run, and a pacer
// enforcing the fixed inter-request delays of the discovery batch
// policy.
package ratelimit
