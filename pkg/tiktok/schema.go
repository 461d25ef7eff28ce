package tiktok

import (
	"sort"

	"ttscraper/pkg/jsontree"
)

// VideoAdapter locates the video detail object inside a parsed state
// tree for one known schema. Adapters report match/no-match instead of
// erroring so the chain can fall through cleanly.
type VideoAdapter interface {
	Schema() Schema
	// Item returns the video detail object and whether one was found.
	Item(tree jsontree.Value) (jsontree.Value, bool)
}

// videoAdapters is the full chain in schema priority order.
var videoAdapters = []VideoAdapter{
	universalAdapter{},
	sigiAdapter{},
	nextAdapter{},
}

// adaptersFor orders the chain so the schema that produced the state is
// probed first. The other adapters still run afterwards: a given
// schema's JSON has been observed nesting another schema's layout across
// platform versions, so the redundancy is deliberate.
func adaptersFor(hint Schema) []VideoAdapter {
	ordered := make([]VideoAdapter, 0, len(videoAdapters))
	for _, a := range videoAdapters {
		if a.Schema() == hint {
			ordered = append(ordered, a)
		}
	}
	for _, a := range videoAdapters {
		if a.Schema() != hint {
			ordered = append(ordered, a)
		}
	}
	return ordered
}

type universalAdapter struct{}

func (universalAdapter) Schema() Schema { return SchemaUniversal }

func (universalAdapter) Item(tree jsontree.Value) (jsontree.Value, bool) {
	item := tree.Path("__DEFAULT_SCOPE__", "webapp.video-detail", "itemInfo", "itemStruct")
	if item.IsObject() && item.Len() > 0 {
		return item, true
	}
	return jsontree.Value{}, false
}

type sigiAdapter struct{}

func (sigiAdapter) Schema() Schema { return SchemaSigi }

func (sigiAdapter) Item(tree jsontree.Value) (jsontree.Value, bool) {
	module := tree.Get("ItemModule")
	if !module.IsObject() || module.Len() == 0 {
		return jsontree.Value{}, false
	}
	// ItemModule is keyed by video id; a video page carries exactly one
	// entry. Keys are sorted so multi-entry pages map deterministically.
	keys := module.Keys()
	sort.Strings(keys)
	for _, k := range keys {
		if item := module.Get(k); item.IsObject() {
			return item, true
		}
	}
	return jsontree.Value{}, false
}

type nextAdapter struct{}

func (nextAdapter) Schema() Schema { return SchemaNext }

func (nextAdapter) Item(tree jsontree.Value) (jsontree.Value, bool) {
	item := tree.Path("props", "pageProps", "itemInfo", "itemStruct")
	if item.IsObject() && item.Len() > 0 {
		return item, true
	}
	return jsontree.Value{}, false
}
