package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cfgPkg "github.com/xhad/journey/pkg/config"
	"github.com/xhad/journey/pkg/scraper"
)

func repeat(word string, n int) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func newPages(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range pages {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, body)
		})
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func scrapeConfig() *cfgPkg.Config {
	cfg := &cfgPkg.Config{}
	cfg.Scraper.MaxDepth = 1
	cfg.Scraper.RateLimit = 100
	cfg.Processor.ChunkSize = 200
	return cfg
}

func TestScrapeChunks_KeepsPagesApart(t *testing.T) {
	server := newPages(t, map[string]string{
		"/{$}": `<html><body><main><p>` + repeat("alpha", 150) + `</p></main><a href="/two.html">next</a></body></html>`,
		"/two.html": `<html><body><main><p>` + repeat("beta", 100) + `</p></main></body></html>`,
	})

	var visited []string
	chunks, pages, err := scrapeChunks(context.Background(), scrapeConfig(), server.URL+"/", func(u string) {
		visited = append(visited, u)
	})
	require.NoError(t, err)

	assert.Equal(t, 2, pages)
	assert.Len(t, visited, 2)
	assert.Equal(t, []string{repeat("alpha", 150), repeat("beta", 100)}, chunks)
}

func TestScrapeChunks_EmptyPage(t *testing.T) {
	server := newPages(t, map[string]string{
		"/{$}": `<html><body><main></main></body></html>`,
	})

	_, _, err := scrapeChunks(context.Background(), scrapeConfig(), server.URL+"/", nil)
	assert.ErrorIs(t, err, scraper.ErrNoDocuments)
}
