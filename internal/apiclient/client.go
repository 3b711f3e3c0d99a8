package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/serroba/clubin-web/internal/catalog"
)

const userAgent = "Clubin-Web/1.0"

// Client talks to the Clubin backend REST API. Every call is a fresh round
// trip: nothing is cached and concurrent identical requests are not merged.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the API root this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchClubs lists clubs, optionally filtered by city.
func (c *Client) FetchClubs(ctx context.Context, city string) ([]catalog.Club, error) {
	query := url.Values{}
	if city != "" {
		query.Set("city", city)
	}

	var clubs []catalog.Club
	if err := c.getJSON(ctx, "clubs", c.endpoint(query, "clubs"), &clubs); err != nil {
		return nil, err
	}

	return clubs, nil
}

// FetchClub returns a single club.
func (c *Client) FetchClub(ctx context.Context, id string) (*catalog.Club, error) {
	var club catalog.Club
	if err := c.getOne(ctx, "club details", c.endpoint(nil, "clubs", id), &club); err != nil {
		return nil, err
	}

	return &club, nil
}

// FetchEvents lists events matching filter.
func (c *Client) FetchEvents(ctx context.Context, filter catalog.EventFilter) ([]catalog.Event, error) {
	query := url.Values{}
	if filter.City != "" {
		query.Set("city", filter.City)
	}

	if filter.Upcoming {
		query.Set("upcoming", "true")
	}

	var events []catalog.Event
	if err := c.getJSON(ctx, "events", c.endpoint(query, "events"), &events); err != nil {
		return nil, err
	}

	return events, nil
}

// FetchEvent returns a single event.
func (c *Client) FetchEvent(ctx context.Context, id string) (*catalog.Event, error) {
	var event catalog.Event
	if err := c.getOne(ctx, "event details", c.endpoint(nil, "events", id), &event); err != nil {
		return nil, err
	}

	return &event, nil
}

// FetchPromoter returns the public promoter profile and its events.
func (c *Client) FetchPromoter(ctx context.Context, id string) (*catalog.PromoterPublic, error) {
	var promoter catalog.PromoterPublic
	if err := c.getOne(ctx, "promoter", c.endpoint(nil, "promoters", id, "public"), &promoter); err != nil {
		return nil, err
	}

	return &promoter, nil
}

// FetchEntity fetches a club or event by id and checks its shape.
func (c *Client) FetchEntity(ctx context.Context, kind catalog.EntityType, id string) (catalog.Entity, error) {
	var (
		what string
		path string
	)

	switch kind {
	case catalog.EntityClub:
		what, path = "club details", c.endpoint(nil, "clubs", id)
	case catalog.EntityEvent:
		what, path = "event details", c.endpoint(nil, "events", id)
	default:
		return catalog.Entity{}, fmt.Errorf("%w: %q", catalog.ErrUnknownType, kind)
	}

	var raw json.RawMessage
	if err := c.getOne(ctx, what, path, &raw); err != nil {
		return catalog.Entity{}, err
	}

	entity, err := catalog.DecodeEntity(kind, raw)
	if err != nil {
		return catalog.Entity{}, fmt.Errorf("failed to fetch %s: %w", what, err)
	}

	return entity, nil
}

// FetchEntityList lists clubs or events. The city filter applies to both
// kinds; Upcoming only to events.
func (c *Client) FetchEntityList(
	ctx context.Context, kind catalog.EntityType, filter catalog.EventFilter,
) ([]catalog.Entity, error) {
	var (
		what string
		path string
	)

	switch kind {
	case catalog.EntityClub:
		query := url.Values{}
		if filter.City != "" {
			query.Set("city", filter.City)
		}

		what, path = "clubs", c.endpoint(query, "clubs")
	case catalog.EntityEvent:
		query := url.Values{}
		if filter.City != "" {
			query.Set("city", filter.City)
		}

		if filter.Upcoming {
			query.Set("upcoming", "true")
		}

		what, path = "events", c.endpoint(query, "events")
	default:
		return nil, fmt.Errorf("%w: %q", catalog.ErrUnknownType, kind)
	}

	var items []json.RawMessage
	if err := c.getJSON(ctx, what, path, &items); err != nil {
		return nil, err
	}

	entities := make([]catalog.Entity, 0, len(items))

	for _, raw := range items {
		entity, err := catalog.DecodeEntity(kind, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", what, err)
		}

		entities = append(entities, entity)
	}

	return entities, nil
}

// CreateShortLink asks the backend for a short code pointing at the target.
// Repeated calls for the same target may yield different codes.
func (c *Client) CreateShortLink(
	ctx context.Context, kind catalog.EntityType, targetID string,
) (*catalog.CreatedShortLink, error) {
	payload, err := json.Marshal(struct {
		Type     catalog.EntityType `json:"type"`
		TargetID string             `json:"targetId"`
	}{Type: kind, TargetID: targetID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(nil, "shortlinks"), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	var created catalog.CreatedShortLink
	if err := c.do(req, "create short link", &created, catalog.ErrNetwork); err != nil {
		return nil, err
	}

	return &created, nil
}

type shortLinkResponse struct {
	Type     catalog.EntityType `json:"type"`
	TargetID string             `json:"targetId"`
	Data     json.RawMessage    `json:"data"`
}

// ResolveShortLink resolves code to its entity. Any non-2xx answer is
// reported as catalog.ErrNotFound; a payload whose data does not match its
// declared type is catalog.ErrInvalid. Failures are never retried.
func (c *Client) ResolveShortLink(ctx context.Context, code string) (*catalog.ResolvedLink, error) {
	if strings.TrimSpace(code) == "" {
		return nil, catalog.ErrNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(nil, "shortlinks", code), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(req)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve short link: %w: %w", catalog.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)

		return nil, fmt.Errorf("short link %q: %w (status %d)", code, catalog.ErrNotFound, resp.StatusCode)
	}

	var body shortLinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("short link %q: %w: %w", code, catalog.ErrInvalid, err)
	}

	kind, err := catalog.ParseEntityType(string(body.Type))
	if err != nil {
		return nil, fmt.Errorf("short link %q: %w: %w", code, catalog.ErrInvalid, err)
	}

	entity, err := catalog.DecodeEntity(kind, body.Data)
	if err != nil {
		return nil, fmt.Errorf("short link %q: %w", code, err)
	}

	if body.TargetID != "" && body.TargetID != entity.ID() {
		return nil, fmt.Errorf("short link %q: %w: target %q but data id %q",
			code, catalog.ErrInvalid, body.TargetID, entity.ID())
	}

	return &catalog.ResolvedLink{
		ShortLink: catalog.ShortLink{Code: code, Type: kind, TargetID: body.TargetID},
		Entity:    entity,
	}, nil
}

// getJSON fetches a listing. A 404 is as much a failure as a 500.
func (c *Client) getJSON(ctx context.Context, what, endpoint string, out any) error {
	return c.get(ctx, what, endpoint, out, catalog.ErrNetwork)
}

// getOne fetches a single entity. A 404 means the entity does not exist.
func (c *Client) getOne(ctx context.Context, what, endpoint string, out any) error {
	return c.get(ctx, what, endpoint, out, catalog.ErrNotFound)
}

func (c *Client) get(ctx context.Context, what, endpoint string, out any, missing error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	return c.do(req, "fetch "+what, out, missing)
}

// do sends req and decodes a 2xx JSON answer into out. A 404 reports
// missing; every other non-2xx status and transport errors report
// ErrNetwork.
func (c *Client) do(req *http.Request, action string, out any, missing error) error {
	resp, err := c.send(req)
	if err != nil {
		return fmt.Errorf("failed to %s: %w: %w", action, catalog.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)

		cause := catalog.ErrNetwork
		if resp.StatusCode == http.StatusNotFound {
			cause = missing
		}

		return fmt.Errorf("failed to %s: %w (status %d)", action, cause, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to %s: %w: %w", action, catalog.ErrNetwork, err)
	}

	return nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	return c.httpClient.Do(req)
}

func (c *Client) endpoint(query url.Values, segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}

	u := c.baseURL + "/" + strings.Join(escaped, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

func drain(body io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
}
