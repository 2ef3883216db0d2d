package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JakeFAU/oja-awards-crawler/internal/app"
	"github.com/JakeFAU/oja-awards-crawler/internal/config"
	"github.com/JakeFAU/oja-awards-crawler/internal/crawler"
	"github.com/JakeFAU/oja-awards-crawler/internal/storage/memory"
)

const entryPage = `<html><body>
<div class="pagetitle"><h1>Fire Season</h1><h2>A year on the line</h2></div>
<div class="meta side">
  <p><strong>Organization</strong> <a href="/org/a">Valley Desk</a></p>
  <p><strong>Award</strong> <a href="/award/x">Excellence in Video</a></p>
  <p><strong>Entry Links</strong> <a href="https://example.org/1">1</a></p>
  <a href="https://example.org/main">View Entry</a>
</div>
</body></html>`

func awardsSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/winners/2020/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `<a href="%[1]s/entries/fire-season/">a</a>
<a href="%[1]s/entries/gone/">b</a>
<a href="%[1]s/entries/fire-season/">c</a>`, srv.URL)
	})
	mux.HandleFunc("/entries/fire-season/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(entryPage))
	})
	mux.HandleFunc("/entries/gone/", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, site, webhook string) config.Config {
	t.Helper()
	return config.Config{
		OJA: config.OJAConfig{
			SlackWebhookURL: webhook,
			BucketName:      "oja-bucket",
			FolderPath:      "oja/",
			GCSLinkURL:      "https://console.cloud.google.com/storage/browser/oja-bucket",
		},
		Site:    config.SiteConfig{BaseURL: site + "/"},
		HTTP:    config.HTTPConfig{TimeoutSeconds: 5, UserAgent: "oja-test"},
		Storage: config.StorageConfig{Provider: config.StorageMemory},
		Metrics: config.MetricsConfig{TextfilePath: filepath.Join(t.TempDir(), "oja.prom")},
	}
}

func TestAppRunEndToEnd(t *testing.T) {
	t.Parallel()

	site := awardsSite(t)
	messages := make(chan map[string]string, 2)
	slackSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		messages <- payload
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(slackSrv.Close)

	core, logs := observer.New(zap.DebugLevel)
	cfg := testConfig(t, site.URL, slackSrv.URL)
	a, err := app.New(context.Background(), cfg, zap.New(core))
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background()))
	require.NoError(t, a.Close(context.Background()))

	store, ok := a.Store().(*memory.BlobStore)
	require.True(t, ok)
	require.Len(t, store.Paths(), len(app.DefaultYears))

	obj, ok := store.Get("oja/general-2020.json")
	require.True(t, ok)
	var result crawler.YearResult
	require.NoError(t, json.Unmarshal(obj.Data, &result))
	require.Len(t, result, 2)
	require.NotNil(t, result[0])
	assert.Equal(t, "Fire Season", *result[0].Title)
	assert.Equal(t, []string{"Valley Desk"}, result[0].Orgs)
	assert.Equal(t, "https://example.org/main", *result[0].EntryLinkMain)
	assert.Equal(t, site.URL+"/entries/fire-season/", result[0].AboutLink)
	assert.Nil(t, result[1])

	older, ok := store.Get("oja/general-2014.json")
	require.True(t, ok)
	assert.Equal(t, "[]", string(older.Data))

	require.Len(t, messages, 1)
	assert.Equal(t, map[string]string{"text": app.CompletionMessage(cfg.OJA.GCSLinkURL)}, <-messages)

	assert.Equal(t, 1, logs.FilterMessage("PAGES IN 2020 CRAWLED").Len())
	assert.Equal(t, 1, logs.FilterMessage(`DATA UPLOADED TO "oja-bucket/oja/general-2020.json"`).Len())
	assert.Equal(t, 1, logs.FilterMessage(fmt.Sprintf("Catch an exception - url=%s/entries/gone/", site.URL)).Len())
	assert.Equal(t, 1, logs.FilterMessage("Catch an exception - year=2019").Len())
	assert.Equal(t, 1, logs.FilterMessage("ALL PAGES CRAWLED").Len())
	assert.Equal(t, 1, logs.FilterMessage("Slack notified - ok").Len())

	metrics, err := os.ReadFile(cfg.Metrics.TextfilePath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "oja_uploads_total 7")
	assert.Contains(t, string(metrics), `oja_entries_total{outcome="parsed",year="2020"} 1`)
}

func TestAppNewRejectsUnknownStorage(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1/hook")
	cfg.Storage.Provider = "s3"
	_, err := app.New(context.Background(), cfg, nil)
	require.ErrorContains(t, err, "unknown storage provider: s3")
}

func TestAppNewLocalStorage(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1/hook")
	cfg.Storage = config.StorageConfig{
		Provider: config.StorageLocal,
		Local:    config.LocalStorageConfig{BaseDir: filepath.Join(t.TempDir(), "out")},
	}
	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, a.Store())
	assert.NotNil(t, a.Registry())
	require.NoError(t, a.Close(context.Background()))
}
