package handlers

import "github.com/serroba/clubin-web/internal/catalog"

// ListClubsRequest filters the club listing.
type ListClubsRequest struct {
	City string `doc:"City name from the allow-list" example:"Bengaluru" query:"city"`
}

// ListClubsResponse is the club listing.
type ListClubsResponse struct {
	Body []catalog.Club
}

// ListEventsRequest filters the event listing.
type ListEventsRequest struct {
	City     string `doc:"City name from the allow-list" example:"Goa" query:"city"`
	Upcoming bool   `doc:"Only events that have not happened yet"      query:"upcoming"`
}

// ListEventsResponse is the event listing.
type ListEventsResponse struct {
	Body []catalog.Event
}

// IDRequest addresses one entity.
type IDRequest struct {
	ID string `doc:"Entity id" example:"cm5x2k0v10001" path:"id"`
}

// ClubResponse is a single club.
type ClubResponse struct {
	Body *catalog.Club
}

// EventResponse is a single event.
type EventResponse struct {
	Body *catalog.Event
}

// PromoterResponse is a public promoter profile.
type PromoterResponse struct {
	Body *catalog.PromoterPublic
}

// CreateShortLinkRequest asks for a short code for an entity.
type CreateShortLinkRequest struct {
	Body struct {
		Type     string `doc:"Entity type, event or club" example:"event"         json:"type"`
		TargetID string `doc:"Entity id"                  example:"cm5x2k0v10001" json:"targetId"`
	}
}

// CreateShortLinkResponse is a freshly created short link.
type CreateShortLinkResponse struct {
	Headers struct {
		Location string `doc:"The short URL" header:"Location"`
	}
	Body struct {
		Code     string `doc:"The short code"     example:"abc123"                           json:"code"`
		ShortURL string `doc:"The full short URL" example:"https://clubin.co.in/e/abc123"    json:"shortUrl"`
	}
}

// ResolveShortLinkRequest addresses a short link.
type ResolveShortLinkRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// ResolveShortLinkResponse is a short link with its entity.
type ResolveShortLinkResponse struct {
	Body struct {
		Code     string `doc:"The short code"                 json:"code"`
		Type     string `doc:"Entity type"                    json:"type"`
		TargetID string `doc:"Entity id"                      json:"targetId"`
		Data     any    `doc:"The event or club the code maps to" json:"data"`
	}
}

// PageRequest addresses a page by id.
type PageRequest struct {
	ID string `path:"id"`
}

// ShortLinkPageRequest addresses a short link landing.
type ShortLinkPageRequest struct {
	Code string `path:"code"`
}

// CityPageRequest addresses a city listing.
type CityPageRequest struct {
	City string `path:"city"`
}

// ClubPageRequest addresses a club page.
type ClubPageRequest struct {
	City string `path:"city"`
	ID   string `path:"id"`
}

// OpenRequest addresses the app handoff for an entity.
type OpenRequest struct {
	Type string `path:"type"`
	ID   string `path:"id"`
}

// HTMLResponse is a rendered page.
type HTMLResponse struct {
	Status       int
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}
