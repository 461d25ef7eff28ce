package tiktok

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttscraper/pkg/errors"
)

func newTestClient(serverURL string) *Client {
	client := NewClient(5*time.Second, nil)
	client.SetBaseURL(serverURL)
	return client
}

func TestResolveLatestUniversalSchema(t *testing.T) {
	profileHTML := scriptTag("__UNIVERSAL_DATA_FOR_REHYDRATION__", `{
		"__DEFAULT_SCOPE__": {
			"webapp.user-detail": {
				"itemList": [
					{"id": "7309999999999999999"},
					{"id": "7301111111111111111"}
				]
			}
		}
	}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(profileHTML))
	}))
	defer server.Close()

	url, err := newTestClient(server.URL).ResolveLatest("@someuser")
	require.NoError(t, err)
	assert.Equal(t, "https://www.tiktok.com/@someuser/video/7309999999999999999", url)
}

func TestResolveLatestSigiUserPostList(t *testing.T) {
	profileHTML := scriptTag("SIGI_STATE", `{
		"ItemList": {
			"user-post": {"list": ["7305555555555555555", "7301111111111111111"]}
		}
	}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(profileHTML))
	}))
	defer server.Close()

	url, err := newTestClient(server.URL).ResolveLatest("someuser")
	require.NoError(t, err)
	assert.Contains(t, url, "/video/7305555555555555555")
}

func TestResolveLatestSigiNewestByCreateTime(t *testing.T) {
	profileHTML := scriptTag("SIGI_STATE", `{
		"ItemModule": {
			"100": {"id": "100", "createTime": 1700000000},
			"200": {"id": "200", "createTime": 1700000999},
			"300": {"id": "300", "createTime": 1699999999}
		}
	}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(profileHTML))
	}))
	defer server.Close()

	url, err := newTestClient(server.URL).ResolveLatest("someuser")
	require.NoError(t, err)
	assert.Contains(t, url, "/video/200")
}

func TestResolveLatestTriesVariants(t *testing.T) {
	// First variant serves a login wall; the lang-pinned variant works.
	profileHTML := scriptTag("SIGI_STATE", `{
		"ItemList": {"user-post": {"list": ["7301"]}}
	}`)

	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.String())
		if r.URL.RawQuery == "" {
			w.Write([]byte("<html>Log in to continue</html>"))
			return
		}
		w.Write([]byte(profileHTML))
	}))
	defer server.Close()

	url, err := newTestClient(server.URL).ResolveLatest("someuser")
	require.NoError(t, err)
	assert.Contains(t, url, "/video/7301")
	assert.GreaterOrEqual(t, len(requests), 2)
}

func TestResolveLatestNoVideos(t *testing.T) {
	// State extracts fine but every video list is empty.
	profileHTML := scriptTag("__UNIVERSAL_DATA_FOR_REHYDRATION__", `{
		"__DEFAULT_SCOPE__": {"webapp.user-detail": {"itemList": []}}
	}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(profileHTML))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ResolveLatest("someuser")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeNoVideosFound))
}

func TestResolveLatestProfileNotFound(t *testing.T) {
	// No variant ever yields embedded state.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>Log in to TikTok</html>"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ResolveLatest("someuser")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeProfileNotFound))
}

func TestResolveLatestEmptyUsername(t *testing.T) {
	client := NewClient(5*time.Second, nil)
	_, err := client.ResolveLatest("  @ ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeProfileNotFound))
}
