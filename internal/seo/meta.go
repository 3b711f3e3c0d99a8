package seo

import (
	"fmt"
	"strings"

	"github.com/serroba/clubin-web/internal/catalog"
)

const (
	schemaContext = "https://schema.org"
	siteName      = "Clubin"
)

// Site builds page metadata for one deployment.
type Site struct {
	URL          string
	DefaultImage string
}

// NewHead returns the default head for the site.
func (s Site) NewHead() *Head {
	return NewHead(s.URL, s.DefaultImage)
}

// ClubsIndexMeta describes the city selection page.
func (s Site) ClubsIndexMeta() Meta {
	url := s.URL + "/clubs"

	return Meta{
		Title: "Nightclubs & Party Venues in India - Browse by City | " + siteName,
		Description: "Browse nightclubs and party venues across Bengaluru, Mumbai, Delhi NCR, Goa, Pune, " +
			"Hyderabad, Chennai, Jaipur & Chandigarh. Book guestlists and VIP tables on Clubin.",
		URL: url,
		StructuredData: []map[string]any{
			collectionPage("Browse Nightclubs by City", url),
			s.breadcrumbs(crumb{Name: "Clubs"}),
		},
	}
}

// CityMeta describes the club listing of a city.
func (s Site) CityMeta(city catalog.City) Meta {
	url := s.URL + "/clubs/" + city.Slug()
	name := "Best Nightclubs in " + city.ID

	return Meta{
		Title: name + " | " + siteName,
		Description: fmt.Sprintf("Discover the hottest nightclubs and party venues in %s. "+
			"Book guestlists and get VIP table reservations on Clubin.", city.ID),
		URL: url,
		StructuredData: []map[string]any{
			collectionPage(name, url),
			s.breadcrumbs(crumb{Name: "Clubs", Path: "/clubs"}, crumb{Name: city.ID}),
		},
	}
}

// ClubMeta describes a club detail page.
func (s Site) ClubMeta(club *catalog.Club) Meta {
	citySlug := catalog.CitySlug(club.Location)
	url := fmt.Sprintf("%s/clubs/%s/%s", s.URL, citySlug, club.ID)

	blurb := club.Description
	if blurb == "" {
		blurb = "Book guestlists and VIP tables on Clubin."
	}

	return Meta{
		Title:       fmt.Sprintf("%s - Nightclub in %s | %s", club.Name, club.Location, siteName),
		Description: fmt.Sprintf("%s in %s. %s", club.Name, club.Location, truncate(blurb, 160)),
		Image:       s.image(club.ImageURL),
		URL:         url,
		StructuredData: []map[string]any{
			{
				"@context":    schemaContext,
				"@type":       "NightClub",
				"name":        club.Name,
				"image":       club.ImageURL,
				"description": club.Description,
				"address": map[string]any{
					"@type":           "PostalAddress",
					"streetAddress":   club.Address,
					"addressLocality": club.Location,
					"addressCountry":  "IN",
				},
				"url": url,
			},
			s.breadcrumbs(
				crumb{Name: "Clubs", Path: "/clubs"},
				crumb{Name: club.Location, Path: "/clubs/" + citySlug},
				crumb{Name: club.Name},
			),
		},
	}
}

// EventMeta describes an event detail page.
func (s Site) EventMeta(event *catalog.Event) Meta {
	date := catalog.DatePart(event.Date)
	url := s.URL + "/events/" + event.ID

	blurb := event.Description
	if blurb == "" {
		blurb = "Book your spot on Clubin!"
	}

	sd := map[string]any{
		"@context":            schemaContext,
		"@type":               "Event",
		"name":                event.Title,
		"startDate":           withTime(date, event.StartTime),
		"endDate":             withTime(date, event.EndTime),
		"eventStatus":         "https://schema.org/EventScheduled",
		"eventAttendanceMode": "https://schema.org/OfflineEventAttendanceMode",
		"image":               event.ImageURL,
		"description":         event.Description,
		"location": map[string]any{
			"@type": "Place",
			"name":  event.Club,
			"address": map[string]any{
				"@type":           "PostalAddress",
				"addressLocality": event.Location,
				"addressCountry":  "IN",
			},
		},
		"url":       url,
		"offers":    s.offers(event, url, date),
		"performer": map[string]any{"@type": "PerformingGroup", "name": orDefault(event.Genre, event.Title)},
	}

	if ref := event.PromoterRef; ref != nil && ref.Name != "" {
		sd["organizer"] = map[string]any{
			"@type": "Organization",
			"name":  ref.Name,
			"url":   s.URL + "/promoters/" + ref.ID,
		}
	}

	crumbs := []crumb{{Name: "Clubs", Path: "/clubs"}}
	if event.Location != "" {
		crumbs = append(crumbs, crumb{Name: event.Club, Path: "/clubs/" + catalog.CitySlug(event.Location)})
	}

	crumbs = append(crumbs, crumb{Name: event.Title})

	return Meta{
		Title:          fmt.Sprintf("%s at %s - %s | %s", event.Title, event.Club, date, siteName),
		Description:    fmt.Sprintf("%s at %s on %s. %s", event.Title, event.Club, date, truncate(blurb, 150)),
		Image:          s.image(event.ImageURL),
		URL:            url,
		Type:           "article",
		StructuredData: []map[string]any{sd, s.breadcrumbs(crumbs...)},
	}
}

// PromoterMeta describes a promoter profile page.
func (s Site) PromoterMeta(promoter catalog.Promoter) Meta {
	url := s.URL + "/promoters/" + promoter.ID
	name := orDefault(promoter.Name, "Promoter")

	title := name + " - Event Promoter"
	description := name + " is an event promoter"

	if promoter.Region != "" {
		title += " in " + promoter.Region
		description += " based in " + promoter.Region
	}

	return Meta{
		Title:       title + " | " + siteName,
		Description: description + ". Browse their upcoming nightclub events and parties on Clubin.",
		Image:       s.image(promoter.LogoURL),
		URL:         url,
		StructuredData: []map[string]any{
			{
				"@context": schemaContext,
				"@type":    "Organization",
				"name":     name,
				"url":      url,
				"image":    promoter.LogoURL,
			},
			s.breadcrumbs(crumb{Name: "Clubs", Path: "/clubs"}, crumb{Name: name}),
		},
	}
}

// ErrorMeta describes an error page. Crawlers must not index it.
func (s Site) ErrorMeta(message string) Meta {
	return Meta{
		Title:       message + " | " + siteName,
		Description: message,
	}
}

func (s Site) offers(event *catalog.Event, url, date string) []map[string]any {
	availability := "https://schema.org/SoldOut"
	if event.GuestlistOpen() {
		availability = "https://schema.org/InStock"
	}

	validFrom := date
	if event.CreatedAt != "" {
		validFrom = catalog.DatePart(event.CreatedAt)
	}

	tiers := []struct {
		name  string
		price float64
	}{
		{"Stag Entry", event.StagPrice},
		{"Couple Entry", event.CouplePrice},
		{"Ladies Entry", event.LadiesPrice},
	}

	offers := make([]map[string]any, 0, len(tiers))

	for _, tier := range tiers {
		price := tier.price
		if price == 0 {
			price = event.Price
		}

		offers = append(offers, map[string]any{
			"@type":         "Offer",
			"name":          tier.name,
			"price":         price,
			"priceCurrency": "INR",
			"availability":  availability,
			"url":           url,
			"validFrom":     validFrom,
		})
	}

	return offers
}

type crumb struct {
	Name string
	Path string
}

func (s Site) breadcrumbs(trail ...crumb) map[string]any {
	items := []map[string]any{
		{"@type": "ListItem", "position": 1, "name": "Home", "item": s.URL + "/"},
	}

	for i, c := range trail {
		item := map[string]any{"@type": "ListItem", "position": i + 2, "name": c.Name}
		if c.Path != "" {
			item["item"] = s.URL + c.Path
		}

		items = append(items, item)
	}

	return map[string]any{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	}
}

func (s Site) image(url string) string {
	return orDefault(url, s.DefaultImage)
}

func collectionPage(name, url string) map[string]any {
	return map[string]any{
		"@context": schemaContext,
		"@type":    "CollectionPage",
		"name":     name,
		"url":      url,
	}
}

func withTime(date, clock string) string {
	if clock == "" {
		return date
	}

	if strings.Count(clock, ":") == 1 {
		clock += ":00"
	}

	return date + "T" + clock
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n])
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}

	return s
}

// StaticMeta describes a fixed page such as the partner pitch or a legal
// page.
func (s Site) StaticMeta(path, name, description string) Meta {
	url := s.URL + path

	return Meta{
		Title:       name + " | " + siteName,
		Description: description,
		URL:         url,
		StructuredData: []map[string]any{
			{
				"@context":    schemaContext,
				"@type":       "WebPage",
				"name":        name,
				"description": description,
				"url":         url,
			},
			s.breadcrumbs(crumb{Name: name}),
		},
	}
}
