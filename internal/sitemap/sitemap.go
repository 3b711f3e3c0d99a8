// Package sitemap enumerates the public catalog into a sitemaps.org urlset.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/serroba/clubin-web/internal/catalog"
	"golang.org/x/sync/errgroup"
)

const (
	xmlns          = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation = "http://www.sitemaps.org/schemas/sitemap/0.9 http://www.sitemaps.org/schemas/sitemap/0.9/sitemap.xsd"
	dateLayout     = "2006-01-02"
)

// Source lists the entities to enumerate.
type Source interface {
	FetchClubs(ctx context.Context, city string) ([]catalog.Club, error)
	FetchEvents(ctx context.Context, filter catalog.EventFilter) ([]catalog.Event, error)
}

// URL is one sitemap entry.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// URLSet is the sitemap document.
type URLSet struct {
	XMLName        xml.Name `xml:"urlset"`
	Xmlns          string   `xml:"xmlns,attr"`
	XSI            string   `xml:"xmlns:xsi,attr"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`
	URLs           []URL    `xml:"url"`
}

// Stats counts what went into a sitemap.
type Stats struct {
	Static    int
	Cities    int
	Clubs     int
	Events    int
	Promoters int
}

// Total is the number of URLs.
func (s Stats) Total() int {
	return s.Static + s.Cities + s.Clubs + s.Events + s.Promoters
}

// Generator builds sitemaps for a site.
type Generator struct {
	source  Source
	siteURL string
	now     func() time.Time
}

// NewGenerator creates a generator. siteURL has no trailing slash.
func NewGenerator(source Source, siteURL string, now func() time.Time) *Generator {
	return &Generator{
		source:  source,
		siteURL: strings.TrimRight(siteURL, "/"),
		now:     now,
	}
}

// Generate fetches clubs and events concurrently and builds the urlset.
// Any fetch failure aborts the whole run.
func (g *Generator) Generate(ctx context.Context) (*URLSet, Stats, error) {
	var (
		clubs  []catalog.Club
		events []catalog.Event
	)

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		clubs, err = g.source.FetchClubs(ctx, "")

		return err
	})

	eg.Go(func() error {
		var err error
		events, err = g.source.FetchEvents(ctx, catalog.EventFilter{})

		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, Stats{}, fmt.Errorf("fetch catalog: %w", err)
	}

	set, stats := g.Build(clubs, events)

	return set, stats, nil
}

// Build assembles the urlset from already fetched entities.
func (g *Generator) Build(clubs []catalog.Club, events []catalog.Event) (*URLSet, Stats) {
	today := g.now().Format(dateLayout)
	set := &URLSet{Xmlns: xmlns, XSI: xsiNamespace, SchemaLocation: schemaLocation}
	stats := Stats{}

	add := func(path, changefreq, priority, lastmod string) {
		set.URLs = append(set.URLs, URL{
			Loc:        g.siteURL + path,
			LastMod:    lastmod,
			ChangeFreq: changefreq,
			Priority:   priority,
		})
	}

	add("/", "weekly", "1.0", today)
	add("/list-your-club", "monthly", "0.8", today)
	add("/clubs", "weekly", "0.9", today)
	stats.Static = 3

	for _, city := range catalog.Cities {
		add("/clubs/"+city.Slug(), "daily", "0.8", today)
		stats.Cities++
	}

	for _, club := range clubs {
		path := fmt.Sprintf("/clubs/%s/%s", url.PathEscape(catalog.CitySlug(club.Location)), url.PathEscape(club.ID))
		add(path, "weekly", "0.7", lastMod(club.UpdatedAt, today))
		stats.Clubs++
	}

	for _, event := range events {
		add("/events/"+url.PathEscape(event.ID), "daily", "0.8", lastMod(event.UpdatedAt, today))
		stats.Events++
	}

	for _, id := range PromoterIDs(clubs, events) {
		add("/promoters/"+url.PathEscape(id), "weekly", "0.6", today)
		stats.Promoters++
	}

	return set, stats
}

// PromoterIDs collects distinct promoter ids, events first then clubs, in
// first seen order.
func PromoterIDs(clubs []catalog.Club, events []catalog.Event) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)

	add := func(id string) {
		if id == "" {
			return
		}

		if _, ok := seen[id]; ok {
			return
		}

		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, event := range events {
		if event.PromoterRef != nil {
			add(event.PromoterRef.ID)
		}
	}

	for _, club := range clubs {
		for _, pc := range club.PromoterClubs {
			if pc.Promoter != nil {
				add(pc.Promoter.ID)
			}
		}
	}

	return ids
}

// Write encodes set as an indented XML document.
func Write(w io.Writer, set *URLSet) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}

	_, err := io.WriteString(w, "\n")

	return err
}

var robotsSitemapLine = regexp.MustCompile(`(?m)^Sitemap:\s*\S*sitemap\.xml\S*`)

// BumpRobots points the Sitemap line of robots.txt at a dated URL so crawlers
// refetch it. It reports whether a line was rewritten.
func BumpRobots(robots, siteURL string, date time.Time) (string, bool) {
	if !robotsSitemapLine.MatchString(robots) {
		return robots, false
	}

	line := fmt.Sprintf("Sitemap: %s/sitemap.xml?v=%s", strings.TrimRight(siteURL, "/"), date.Format("20060102"))

	return robotsSitemapLine.ReplaceAllLiteralString(robots, line), true
}

func lastMod(updatedAt, today string) string {
	if updatedAt == "" {
		return today
	}

	return catalog.DatePart(updatedAt)
}
