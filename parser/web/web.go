package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"

	"github.com/scipunch/newsbrief/parser"
)

const maxBodyBytes = 5 << 20

// Options tune the scraper; zero values fall back to the defaults below.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MinChars  int
	MaxChars  int
	Extractor parser.Type
}

// Parser downloads an article page and extracts its body text.
type Parser struct {
	client    *http.Client
	userAgent string
	minChars  int
	maxChars  int
	extract   func(body []byte, pageURL *url.URL) (string, error)
}

func New(opts Options) (*Parser, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.MinChars <= 0 {
		opts.MinChars = 50
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = 3000
	}

	p := &Parser{
		client:    &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
		minChars:  opts.MinChars,
		maxChars:  opts.MaxChars,
	}

	switch opts.Extractor {
	case "", parser.Paragraphs:
		p.extract = extractParagraphs
	case parser.Readability:
		p.extract = extractReadable
	default:
		return nil, fmt.Errorf("unknown extractor: %s", opts.Extractor)
	}

	return p, nil
}

// Parse never fails out-of-band: every problem is reported as a typed failure in the result.
func (p *Parser) Parse(ctx context.Context, rawURL string) parser.Result {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return parser.Failed(parser.FetchError, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return parser.Failed(parser.FetchError, err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		slog.Debug("web parser: request failed", "url", rawURL, "error", err)
		return parser.Failed(parser.FetchError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("web parser: page refused", "url", rawURL, "status", resp.StatusCode)
		return parser.Failed(parser.AccessRestricted, nil)
	}

	// pages may declare a legacy charset (e.g. EUC-KR) in the header or a <meta> tag
	utf8Body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return parser.Failed(parser.FetchError, fmt.Errorf("failed to decode charset: %w", err))
	}

	body, err := io.ReadAll(utf8Body)
	if err != nil {
		return parser.Failed(parser.FetchError, fmt.Errorf("failed to read body: %w", err))
	}

	text, err := p.extract(body, pageURL)
	if err != nil {
		return parser.Failed(parser.FetchError, err)
	}

	if utf8.RuneCountInString(text) < p.minChars {
		return parser.Failed(parser.NoContent, nil)
	}

	return parser.Success(parser.Truncate(text, p.maxChars))
}

// extractParagraphs joins the text of every <p> element with single spaces.
func extractParagraphs(body []byte, _ *url.URL) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		paragraphs = append(paragraphs, s.Text())
	})

	return strings.Join(paragraphs, " "), nil
}

func extractReadable(body []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract readable content: %w", err)
	}
	return strings.TrimSpace(article.TextContent), nil
}
