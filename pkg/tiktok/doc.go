// Package tiktok talks to the TikTok web frontend.
//
// It fetches public pages with a browser-like header set, extracts the
// JSON state blob that the web client would normally hydrate from, and
// maps it to engagement metadata. The page format has changed several
// times, so extraction runs through an ordered chain of schema adapters
// (__UNIVERSAL_DATA_FOR_REHYDRATION__, SIGI_STATE, __NEXT_DATA__) and
// tolerates markers whose payload is empty or corrupt.
package tiktok
