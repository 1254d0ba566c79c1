// Package ingest turns conference event pages into candidate records the
// matching engine can score.
package ingest

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/cfp-scout/internal/fetch"
	"github.com/jonathan/cfp-scout/internal/types"
)

// ParseEventPage extracts a candidate record from event page HTML. Fields
// that cannot be found are left zero; only a missing name is an error, since
// an unnamed candidate is useless downstream.
func ParseEventPage(html, sourceURL string) (*types.CandidateRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse event page: %w", err)
	}

	name := eventName(doc)
	if name == "" {
		return nil, fmt.Errorf("no event name found at %s", sourceURL)
	}

	record := &types.CandidateRecord{
		ID:     slugFromURL(sourceURL),
		Name:   name,
		Topics: eventTopics(doc),
	}

	if city, country := eventLocation(doc); city != "" || country != "" {
		record.City = city
		record.Country = country
	}

	body := strings.ToLower(doc.Find("body").Text())
	record.EventFormat = detectFormat(body)
	record.AudienceLevel = detectAudienceLevel(body)
	return record, nil
}

// FetchCandidate retrieves and parses a single event page, falling back to
// headless browser rendering when the static HTML looks like an unrendered
// shell.
func FetchCandidate(ctx context.Context, pageURL string, opts *fetch.Options, log *zap.Logger) (*types.CandidateRecord, error) {
	if log == nil {
		log = zap.NewNop()
	}

	result, err := fetch.URL(ctx, pageURL, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event page: %w", err)
	}

	platform := fetch.DetectPlatform(pageURL)
	text, err := fetch.ExtractMainText(result.HTML,
		fetch.PlatformContentSelectors(platform),
		fetch.PlatformNoiseSelectors(platform)...)
	if err != nil {
		return nil, err
	}

	html := result.HTML
	if fetch.ShouldUseBrowser(text) {
		log.Info("static fetch too thin, rendering in browser",
			zap.String("url", pageURL), zap.Int("text_length", len(text)))
		rendered, berr := fetch.WithBrowser(ctx, pageURL, fetch.DefaultTimeout, log)
		if berr != nil {
			log.Warn("browser rendering failed, using static HTML", zap.Error(berr))
		} else {
			html = rendered
		}
	}

	return ParseEventPage(html, pageURL)
}

// FetchCandidates ingests several event pages concurrently. Pages that fail
// to fetch or parse are skipped.
func FetchCandidates(ctx context.Context, urls []string, opts *fetch.Options, log *zap.Logger) ([]types.CandidateRecord, error) {
	if log == nil {
		log = zap.NewNop()
	}

	results, err := fetch.FetchAll(ctx, urls, opts)
	if err != nil {
		return nil, err
	}

	var records []types.CandidateRecord
	for i, res := range results {
		if res == nil {
			log.Warn("skipping unfetchable page", zap.String("url", urls[i]))
			continue
		}
		record, perr := ParseEventPage(res.HTML, res.URL)
		if perr != nil {
			log.Warn("skipping unparseable page", zap.String("url", res.URL), zap.Error(perr))
			continue
		}
		records = append(records, *record)
	}
	return records, nil
}

func eventName(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if name := strings.TrimSpace(og); name != "" {
			return name
		}
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		// Drop common "| site" suffixes.
		if idx := strings.IndexAny(title, "|–"); idx > 0 {
			title = strings.TrimSpace(title[:idx])
		}
		return title
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func eventTopics(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var topics []string
	add := func(raw string) {
		topic := strings.TrimSpace(raw)
		key := strings.ToLower(topic)
		if topic == "" || seen[key] {
			return
		}
		seen[key] = true
		topics = append(topics, topic)
	}

	if keywords, ok := doc.Find(`meta[name="keywords"]`).Attr("content"); ok {
		for _, kw := range strings.Split(keywords, ",") {
			add(kw)
		}
	}
	doc.Find(".topics li, .tags li, .topic, .tag").Each(func(_ int, s *goquery.Selection) {
		add(s.Text())
	})
	return topics
}

// eventLocation reads "City, Country" from the usual location elements.
func eventLocation(doc *goquery.Document) (city, country string) {
	var raw string
	for _, selector := range []string{".location", ".event-location", "[itemprop='location']"} {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			raw = text
			break
		}
	}
	if raw == "" {
		return "", ""
	}
	parts := strings.SplitN(raw, ",", 2)
	city = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		country = strings.TrimSpace(parts[1])
	}
	return city, country
}

func detectFormat(body string) string {
	switch {
	case strings.Contains(body, "hybrid"):
		return string(types.FormatHybrid)
	case strings.Contains(body, "virtual") || strings.Contains(body, "online-only"):
		return string(types.FormatVirtual)
	default:
		return string(types.FormatInPerson)
	}
}

func detectAudienceLevel(body string) string {
	switch {
	case strings.Contains(body, "all levels") || strings.Contains(body, "all experience levels"):
		return ""
	case strings.Contains(body, "advanced") || strings.Contains(body, "deep dive"):
		return "advanced"
	case strings.Contains(body, "beginner") || strings.Contains(body, "introductory"):
		return "beginner"
	case strings.Contains(body, "intermediate"):
		return "intermediate"
	default:
		return ""
	}
}

// slugFromURL derives a stable candidate ID from the page URL.
func slugFromURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	slug := strings.Trim(parsed.Path, "/")
	slug = strings.ReplaceAll(slug, "/", "-")
	if slug == "" {
		return parsed.Host
	}
	return parsed.Host + "-" + slug
}
