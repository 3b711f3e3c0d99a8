package pages

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/serroba/clubin-web/internal/catalog"
	"github.com/serroba/clubin-web/internal/seo"
)

// Fact is one labelled detail line.
type Fact struct {
	Label string
	Value string
}

// Card links to another page.
type Card struct {
	Title    string
	Subtitle string
	ImageURL string
	URL      string
}

// Detail is an event, club or promoter page.
type Detail struct {
	Head         *seo.Head
	Title        string
	Subtitle     string
	ImageURL     string
	Description  string
	Facts        []Fact
	OpenURL      string
	AppStoreURL  string
	PlayStoreURL string
	Mobile       bool
	CardsHeading string
	Cards        []Card
}

// Listing is a page of cards.
type Listing struct {
	Head    *seo.Head
	Heading string
	Intro   string
	Empty   string
	Cards   []Card
}

// Handoff drives the in-browser app handoff.
type Handoff struct {
	Head             *seo.Head
	DeepLink         template.URL
	FallbackURL      string
	FallbackDelayMS  int64
	LivenessWindowMS int64
}

// ErrorPage shows one message and a retry link.
type ErrorPage struct {
	Head     *seo.Head
	Message  string
	RetryURL string
}

// OpenURL is the handoff page path for an entity.
func OpenURL(kind catalog.EntityType, id string) string {
	return fmt.Sprintf("/open/%s/%s", kind, id)
}

// EventDetail fills a Detail from an event.
func EventDetail(event *catalog.Event) *Detail {
	d := &Detail{
		Title:       event.Title,
		Subtitle:    joinNonEmpty(event.Club, event.Location),
		ImageURL:    event.ImageURL,
		Description: event.Description,
		OpenURL:     OpenURL(catalog.EntityEvent, event.ID),
	}

	d.Facts = append(d.Facts, Fact{"Date", catalog.FormatDate(event.Date)})

	if event.StartTime != "" {
		when := catalog.FormatTime(event.StartTime)
		if event.EndTime != "" {
			when += " – " + catalog.FormatTime(event.EndTime)
		}

		d.Facts = append(d.Facts, Fact{"Time", when})
	}

	if event.Genre != "" {
		d.Facts = append(d.Facts, Fact{"Music", event.Genre})
	}

	if event.PriceLabel != "" {
		d.Facts = append(d.Facts, Fact{"Entry", event.PriceLabel})
	}

	d.Facts = append(d.Facts, Fact{"Guestlist", guestlistLabel(event)})

	if ref := event.PromoterRef; ref != nil && ref.Name != "" {
		d.Facts = append(d.Facts, Fact{"Promoter", ref.Name})
	}

	if event.Rules != "" {
		d.Facts = append(d.Facts, Fact{"Rules", event.Rules})
	}

	return d
}

// ClubDetail fills a Detail from a club and its upcoming events.
func ClubDetail(club *catalog.Club) *Detail {
	d := &Detail{
		Title:        club.Name,
		Subtitle:     club.Location,
		ImageURL:     club.ImageURL,
		Description:  club.Description,
		OpenURL:      OpenURL(catalog.EntityClub, club.ID),
		CardsHeading: "Upcoming events",
		Cards:        EventCards(club.Events),
	}

	if club.Address != "" {
		d.Facts = append(d.Facts, Fact{"Address", club.Address})
	}

	if len(club.Tables) > 0 {
		d.Facts = append(d.Facts, Fact{"Tables", fmt.Sprintf("%d bookable", len(club.Tables))})
	}

	return d
}

// PromoterDetail fills a Detail from a promoter profile.
func PromoterDetail(profile *catalog.PromoterPublic) *Detail {
	d := &Detail{
		Title:        profile.Promoter.Name,
		Subtitle:     profile.Promoter.Region,
		ImageURL:     profile.Promoter.LogoURL,
		CardsHeading: "Events",
		Cards:        EventCards(profile.Events),
	}

	if profile.Promoter.InstagramURL != "" {
		d.Facts = append(d.Facts, Fact{"Instagram", profile.Promoter.InstagramURL})
	}

	return d
}

// EventCards links to event pages.
func EventCards(events []catalog.Event) []Card {
	cards := make([]Card, 0, len(events))
	for _, e := range events {
		cards = append(cards, Card{
			Title:    e.Title,
			Subtitle: joinNonEmpty(catalog.FormatDate(e.Date), e.Club),
			ImageURL: e.ImageURL,
			URL:      "/events/" + e.ID,
		})
	}

	return cards
}

// ClubCards links to club pages.
func ClubCards(clubs []catalog.Club) []Card {
	cards := make([]Card, 0, len(clubs))
	for _, c := range clubs {
		cards = append(cards, Card{
			Title:    c.Name,
			Subtitle: c.Location,
			ImageURL: c.ImageURL,
			URL:      fmt.Sprintf("/clubs/%s/%s", catalog.CitySlug(c.Location), c.ID),
		})
	}

	return cards
}

// CityCards links to every city listing.
func CityCards() []Card {
	cards := make([]Card, 0, len(catalog.Cities))
	for _, c := range catalog.Cities {
		cards = append(cards, Card{Title: c.Label, URL: "/clubs/" + c.Slug()})
	}

	return cards
}

func guestlistLabel(event *catalog.Event) string {
	switch event.GuestlistStatus {
	case catalog.GuestlistOpen:
		return "Open"
	case catalog.GuestlistClosing:
		return "Closing soon"
	default:
		return "Closed"
	}
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, " · ")
}
