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

func TestScrapeVideoEndToEnd(t *testing.T) {
	pageHTML := `<html><head>` +
		scriptTag("__UNIVERSAL_DATA_FOR_REHYDRATION__", `{
			"__DEFAULT_SCOPE__": {
				"webapp.video-detail": {
					"itemInfo": {
						"itemStruct": {
							"desc": "Fun #trip to #NYC",
							"stats": {"playCount": 100, "diggCount": 10, "shareCount": 1, "commentCount": 2}
						}
					}
				}
			}
		}`) + `</head><body></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pageHTML))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, nil)
	url := server.URL + "/@someuser/video/7301"
	stats, err := client.ScrapeVideo(url)
	require.NoError(t, err)

	assert.Equal(t, "Fun #trip to #NYC", stats.Caption)
	assert.Equal(t, url, stats.URL)
	require.NotNil(t, stats.Views)
	assert.Equal(t, int64(100), *stats.Views)
	assert.Equal(t, []string{"#trip", "#NYC"}, stats.Hashtags)
}

func TestScrapeVideoLoginWall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>Log in to TikTok</html>"))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, nil)
	_, err := client.ScrapeVideo(server.URL + "/@someuser/video/7301")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeNoEmbeddedState))
}

func TestScrapeVideoHTTPErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(5*time.Second, nil)
	_, err := client.ScrapeVideo(server.URL + "/@someuser/video/7301")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeHTTP))
}
