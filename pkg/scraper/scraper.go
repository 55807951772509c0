// Package scraper loads web pages as documents for the keyword RAG command.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/xhad/journey/internal/models"
	"golang.org/x/time/rate"
)

// ErrNoDocuments is returned when the start page is filtered out or yields
// nothing.
var ErrNoDocuments = errors.New("no documents scraped")

type ScraperConfig struct {
	MaxDepth          int
	RateLimit         float64 // requests per second
	IgnorePatterns    []string
	AllowedExtensions []string
	Timeout           time.Duration
	Client            *http.Client
	OnProgress        func(url string)
}

// Scraper fetches a page and, up to MaxDepth, the same-host pages it links to.
type Scraper struct {
	config  ScraperConfig
	client  *http.Client
	limiter *rate.Limiter

	mu      sync.Mutex
	visited map[string]bool
}

var noisePatterns = []string{
	"Cookie Policy",
	"Accept Cookies",
	"Privacy Policy",
	"Terms of Service",
}

var contentSelectors = []string{
	"main",
	"article",
	".content",
	"#content",
	".documentation",
	"#documentation",
}

func NewWithConfig(config ScraperConfig) *Scraper {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxDepth < 0 {
		config.MaxDepth = 0
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 2
	}
	if len(config.AllowedExtensions) == 0 {
		config.AllowedExtensions = []string{".html", ".htm", "/", ""}
	}

	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &Scraper{
		config:  config,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		visited: make(map[string]bool),
	}
}

func New() *Scraper {
	return NewWithConfig(ScraperConfig{})
}

// Scrape fetches startURL and follows links on the same host.
// An error fetching the start page, or a start page the filters exclude, is
// returned; errors on linked pages are logged.
func (s *Scraper) Scrape(ctx context.Context, startURL string) ([]models.Document, error) {
	base, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", base.Scheme)
	}

	if !s.shouldProcessURL(base.Host, startURL) {
		return nil, fmt.Errorf("start url %s is excluded by the scraper filters: %w", startURL, ErrNoDocuments)
	}

	s.mu.Lock()
	s.visited = make(map[string]bool)
	s.mu.Unlock()

	var documents []models.Document
	if err := s.scrape(ctx, base.Host, startURL, 0, &documents); err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		return nil, ErrNoDocuments
	}
	return documents, nil
}

func (s *Scraper) shouldProcessURL(host, urlStr string) bool {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	if parsedURL.Host != host {
		return false
	}

	path := strings.ToLower(parsedURL.Path)
	validExt := false
	for _, allowedExt := range s.config.AllowedExtensions {
		if strings.HasSuffix(path, allowedExt) {
			validExt = true
			break
		}
	}
	if !validExt {
		return false
	}

	for _, pattern := range s.config.IgnorePatterns {
		if strings.Contains(urlStr, pattern) {
			return false
		}
	}

	return true
}

// markVisited reports whether urlStr was new.
func (s *Scraper) markVisited(urlStr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visited[urlStr] {
		return false
	}
	s.visited[urlStr] = true
	return true
}

func cleanContent(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	for _, pattern := range noisePatterns {
		content = strings.ReplaceAll(content, pattern, "")
	}
	return strings.TrimSpace(content)
}

func extractMainContent(doc *goquery.Document) string {
	var content string
	for _, selector := range contentSelectors {
		if selected := doc.Find(selector); selected.Length() > 0 {
			content = selected.Text()
			break
		}
	}

	if content == "" {
		content = doc.Find("body").Text()
	}

	return cleanContent(content)
}

func (s *Scraper) scrape(ctx context.Context, host, urlStr string, depth int, documents *[]models.Document) error {
	if depth > s.config.MaxDepth || !s.shouldProcessURL(host, urlStr) {
		return nil
	}
	if !s.markVisited(urlStr) {
		return nil
	}
	if s.config.OnProgress != nil {
		s.config.OnProgress(urlStr)
	}

	doc, err := s.fetch(ctx, urlStr)
	if err != nil {
		return err
	}

	*documents = append(*documents, models.Document{
		ID:      fmt.Sprintf("page_%d", len(*documents)),
		URL:     urlStr,
		Title:   strings.TrimSpace(doc.Find("title").Text()),
		Content: extractMainContent(doc),
		Metadata: map[string]interface{}{
			"depth": depth,
			"time":  time.Now(),
		},
	})

	if depth == s.config.MaxDepth {
		return nil
	}

	base, err := url.Parse(urlStr)
	if err != nil {
		return err
	}
	doc.Find("a[href]").Each(func(_ int, selection *goquery.Selection) {
		href, _ := selection.Attr("href")
		link, err := url.Parse(href)
		if err != nil {
			log.Printf("Error parsing URL %q: %v", href, err)
			return
		}
		link = base.ResolveReference(link)
		link.Fragment = ""

		if err := s.scrape(ctx, host, link.String(), depth+1, documents); err != nil {
			log.Printf("Error scraping URL: %v", err)
		}
	})

	return nil
}

func (s *Scraper) fetch(ctx context.Context, urlStr string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, urlStr)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return doc, nil
}
