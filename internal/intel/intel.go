// Package intel gathers public information about a competitor so ad copy
// can answer what they actually advertise. Scraping is strictly
// best-effort: any failure yields an empty profile and generation
// carries on with the submitted fields alone.
package intel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	SourceWebsite = "website"
	SourceNone    = "none"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Profile is what could be learned about one competitor.
type Profile struct {
	BusinessName string
	Website      string
	Description  string
	Services     []string
	KeyFeatures  []string
	ContactEmail string
	ContactPhone string
	Source       string
}

type Scraper struct {
	client *http.Client
	logger *slog.Logger
}

func NewScraper(timeout time.Duration, logger *slog.Logger) *Scraper {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Scraper{
		client: &http.Client{Timeout: timeout},
		logger: logger.With("component", "intel"),
	}
}

// Gather fetches the competitor's site and extracts a profile. Without a
// website there is nothing to fetch and the profile comes back empty.
func (s *Scraper) Gather(ctx context.Context, competitor, website string) Profile {
	p := Profile{BusinessName: competitor, Website: website, Source: SourceNone}
	if website == "" {
		return p
	}

	doc, err := s.fetch(ctx, website)
	if err != nil {
		s.logger.Warn("competitor site unreachable", "website", website, "error", err)
		return p
	}

	s.extract(doc, &p)
	if p.Description != "" {
		p.Source = SourceWebsite
	}
	return p
}

func (s *Scraper) fetch(ctx context.Context, website string) (*html.Node, error) {
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, website, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return html.Parse(resp.Body)
}

var (
	contentClassPattern = regexp.MustCompile(`(?i)content|main|body`)
	offerClassPattern   = regexp.MustCompile(`(?i)service|feature|offer|product`)
	emailPattern        = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern        = regexp.MustCompile(`\+?\(?[0-9]{3}\)?[-\s.]?[0-9]{3}[-\s.]?[0-9]{4,6}`)
)

const (
	maxDescriptionLen = 500
	maxListItems      = 10
)

// extract mines the parsed page for a description, offered services and
// features, and contact details.
func (s *Scraper) extract(doc *html.Node, p *Profile) {
	var title string
	var paragraphs []string
	services := map[string]bool{}
	features := map[string]bool{}

	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "meta":
			if attr(n, "name") == "description" && p.Description == "" {
				p.Description = strings.TrimSpace(attr(n, "content"))
			}
		case "title":
			if title == "" {
				title = nodeText(n)
			}
		case "main", "article":
			collectParagraphs(n, &paragraphs)
		case "section", "div":
			class := attr(n, "class")
			if offerClassPattern.MatchString(class) {
				bucket := features
				if strings.Contains(strings.ToLower(class), "service") {
					bucket = services
				}
				collectListItems(n, bucket)
			} else if contentClassPattern.MatchString(class) {
				collectParagraphs(n, &paragraphs)
			}
		}
	})

	if p.Description == "" && len(paragraphs) > 0 {
		p.Description = truncate(strings.Join(paragraphs, " "), maxDescriptionLen)
	}
	if p.Description == "" {
		p.Description = title
	}

	p.Services = sortedItems(services)
	p.KeyFeatures = sortedItems(features)

	text := nodeText(doc)
	if m := emailPattern.FindString(text); m != "" {
		p.ContactEmail = m
	}
	if m := phonePattern.FindString(text); m != "" {
		p.ContactPhone = strings.TrimSpace(m)
	}
}

func collectParagraphs(n *html.Node, out *[]string) {
	walk(n, func(c *html.Node) {
		if len(*out) >= 5 {
			return
		}
		if c.Type == html.ElementNode && c.Data == "p" {
			if t := nodeText(c); t != "" {
				*out = append(*out, t)
			}
		}
	})
}

// collectListItems takes the short phrases out of a services or features
// block. Very short or very long strings are navigation noise or prose.
func collectListItems(n *html.Node, out map[string]bool) {
	walk(n, func(c *html.Node) {
		if len(out) >= maxListItems {
			return
		}
		if c.Type != html.ElementNode {
			return
		}
		if c.Data == "li" || c.Data == "p" {
			t := nodeText(c)
			if len(t) > 10 && len(t) < 200 {
				out[t] = true
			}
		}
	})
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteString(" ")
		}
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

func sortedItems(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for item := range set {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
