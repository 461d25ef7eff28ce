package tiktok

import (
	"regexp"
	"strings"

	"ttscraper/pkg/errors"
	"ttscraper/pkg/jsontree"
)

// Schema names one of the known shapes TikTok has used to embed page
// state at different times.
type Schema string

const (
	// SchemaUniversal is the current __UNIVERSAL_DATA_FOR_REHYDRATION__ blob.
	SchemaUniversal Schema = "universal_data"
	// SchemaSigi is the legacy SIGI_STATE blob.
	SchemaSigi Schema = "sigi_state"
	// SchemaNext is the oldest __NEXT_DATA__ blob.
	SchemaNext Schema = "next_data"
)

// State is the parsed embedded JSON of one page, tagged with the schema
// whose marker produced it. It lives only for the duration of a single
// extraction and is never persisted.
type State struct {
	Schema Schema
	Tree   jsontree.Value
}

var markerChain = []struct {
	schema Schema
	re     *regexp.Regexp
}{
	{SchemaUniversal, regexp.MustCompile(`(?s)<script[^>]*id="__UNIVERSAL_DATA_FOR_REHYDRATION__"[^>]*>(.*?)</script>`)},
	{SchemaSigi, regexp.MustCompile(`(?s)<script[^>]*id="SIGI_STATE"[^>]*>(.*?)</script>`)},
	{SchemaNext, regexp.MustCompile(`(?s)<script[^>]*id="__NEXT_DATA__"[^>]*>(.*?)</script>`)},
}

// ExtractState scans an HTML document for the known embedded-state
// markers, newest schema first. A marker whose payload is empty or
// malformed does not fail the extraction; the chain simply moves on to
// the next schema, since a page occasionally carries a stale marker
// alongside the real one. Only when every marker is absent or unusable
// does extraction fail.
func ExtractState(html string) (*State, error) {
	for _, marker := range markerChain {
		m := marker.re.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		payload := strings.TrimSpace(m[1])
		if payload == "" {
			continue
		}
		tree, err := jsontree.Parse([]byte(payload))
		if err != nil || !tree.IsObject() {
			continue
		}
		return &State{Schema: marker.schema, Tree: tree}, nil
	}
	return nil, errors.New(errors.ErrorTypeNoEmbeddedState,
		"no embedded JSON state found; the page may be geo-blocked, private, or require cookies")
}
