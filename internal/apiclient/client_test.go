package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/serroba/clubin-web/internal/apiclient"
	"github.com/serroba/clubin-web/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clubShortLink = `{"type":"club","targetId":"c1","data":{"id":"c1","name":"Test Club","location":"Goa","imageUrl":"https://img/c1.jpg"}}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *apiclient.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return apiclient.New(srv.URL+"/api", 2*time.Second)
}

func respondJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestResolveShortLink(t *testing.T) {
	t.Run("resolves club link", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/shortlinks/abc123", r.URL.Path)
			assert.Equal(t, "Clubin-Web/1.0", r.Header.Get("User-Agent"))
			respondJSON(w, http.StatusOK, clubShortLink)
		})

		link, err := client.ResolveShortLink(context.Background(), "abc123")

		require.NoError(t, err)
		assert.Equal(t, catalog.EntityClub, link.Type)
		assert.Equal(t, "c1", link.TargetID)
		assert.Equal(t, "abc123", link.Code)
		require.NotNil(t, link.Entity.Club)
		assert.Equal(t, "Test Club", link.Entity.Club.Name)
	})

	t.Run("resolves event link", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK,
				`{"type":"event","targetId":"e1","data":{"id":"e1","title":"Techno","date":"2026-03-01"}}`)
		})

		link, err := client.ResolveShortLink(context.Background(), "evt")

		require.NoError(t, err)
		require.NotNil(t, link.Entity.Event)
		assert.Equal(t, "Techno", link.Entity.Event.Title)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusNotFound, `{"error":"Short link not found"}`)
		})

		link, err := client.ResolveShortLink(context.Background(), "missing")

		assert.Nil(t, link)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("any non-2xx is not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusGone, `{}`)
		})

		_, err := client.ResolveShortLink(context.Background(), "old")

		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("empty code is not found without a request", func(t *testing.T) {
		var calls atomic.Int32

		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			respondJSON(w, http.StatusOK, clubShortLink)
		})

		_, err := client.ResolveShortLink(context.Background(), "  ")

		assert.ErrorIs(t, err, catalog.ErrNotFound)
		assert.Zero(t, calls.Load())
	})

	t.Run("event without date is invalid", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, `{"type":"event","targetId":"e1","data":{"id":"e1","title":"Techno"}}`)
		})

		link, err := client.ResolveShortLink(context.Background(), "bad")

		assert.Nil(t, link)
		assert.ErrorIs(t, err, catalog.ErrInvalid)
	})

	t.Run("missing data is invalid", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, `{"type":"club","targetId":"c1"}`)
		})

		_, err := client.ResolveShortLink(context.Background(), "bad")

		assert.ErrorIs(t, err, catalog.ErrInvalid)
	})

	t.Run("unknown type is invalid", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, `{"type":"promoter","targetId":"p1","data":{"id":"p1"}}`)
		})

		_, err := client.ResolveShortLink(context.Background(), "bad")

		assert.ErrorIs(t, err, catalog.ErrInvalid)
	})

	t.Run("target mismatch is invalid", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, `{"type":"club","targetId":"c2","data":{"id":"c1","name":"Test Club"}}`)
		})

		_, err := client.ResolveShortLink(context.Background(), "bad")

		assert.ErrorIs(t, err, catalog.ErrInvalid)
	})

	t.Run("malformed body is invalid", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, `<html>`)
		})

		_, err := client.ResolveShortLink(context.Background(), "bad")

		assert.ErrorIs(t, err, catalog.ErrInvalid)
	})

	t.Run("transport failure is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		client := apiclient.New(srv.URL, time.Second)

		_, err := client.ResolveShortLink(context.Background(), "abc123")

		assert.ErrorIs(t, err, catalog.ErrNetwork)
	})

	t.Run("resolving twice returns identical data", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, clubShortLink)
		})

		first, err := client.ResolveShortLink(context.Background(), "abc123")
		require.NoError(t, err)

		second, err := client.ResolveShortLink(context.Background(), "abc123")
		require.NoError(t, err)

		assert.Equal(t, []byte(first.Entity.Raw), []byte(second.Entity.Raw))
	})

	t.Run("escapes the code", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/shortlinks/a%2Fb", r.URL.EscapedPath())
			respondJSON(w, http.StatusNotFound, `{}`)
		})

		_, err := client.ResolveShortLink(context.Background(), "a/b")

		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestFetchers(t *testing.T) {
	t.Run("fetches clubs with city filter", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/clubs", r.URL.Path)
			assert.Equal(t, "Delhi NCR", r.URL.Query().Get("city"))
			respondJSON(w, http.StatusOK, `[{"id":"1","name":"One","location":"Delhi NCR"}]`)
		})

		clubs, err := client.FetchClubs(context.Background(), "Delhi NCR")

		require.NoError(t, err)
		require.Len(t, clubs, 1)
		assert.Equal(t, "One", clubs[0].Name)
	})

	t.Run("fetches upcoming events", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/events", r.URL.Path)
			assert.Equal(t, "true", r.URL.Query().Get("upcoming"))
			assert.Empty(t, r.URL.Query().Get("city"))
			respondJSON(w, http.StatusOK, `[{"id":"e1","title":"A","date":"2026-01-01"}]`)
		})

		events, err := client.FetchEvents(context.Background(), catalog.EventFilter{Upcoming: true})

		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("omits upcoming when not requested", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.RawQuery)
			respondJSON(w, http.StatusOK, `[]`)
		})

		events, err := client.FetchEvents(context.Background(), catalog.EventFilter{})

		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("fetches a single event and club", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/events/e1":
				respondJSON(w, http.StatusOK, `{"id":"e1","title":"A","date":"2026-01-01"}`)
			case "/api/clubs/c1":
				respondJSON(w, http.StatusOK, `{"id":"c1","name":"Club"}`)
			default:
				respondJSON(w, http.StatusNotFound, `{}`)
			}
		})

		event, err := client.FetchEvent(context.Background(), "e1")
		require.NoError(t, err)
		assert.Equal(t, "A", event.Title)

		club, err := client.FetchClub(context.Background(), "c1")
		require.NoError(t, err)
		assert.Equal(t, "Club", club.Name)
	})

	t.Run("fetches promoter profile", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/promoters/p1/public", r.URL.Path)
			respondJSON(w, http.StatusOK, `{"promoter":{"id":"p1","name":"Night Owls"},"events":[]}`)
		})

		promoter, err := client.FetchPromoter(context.Background(), "p1")

		require.NoError(t, err)
		assert.Equal(t, "Night Owls", promoter.Promoter.Name)
	})

	t.Run("missing event is not found, server error is network", func(t *testing.T) {
		tests := []struct {
			status int
			want   error
		}{
			{http.StatusNotFound, catalog.ErrNotFound},
			{http.StatusInternalServerError, catalog.ErrNetwork},
			{http.StatusBadGateway, catalog.ErrNetwork},
		}

		for _, tt := range tests {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				respondJSON(w, tt.status, `{}`)
			})

			_, err := client.FetchEvent(context.Background(), "e1")

			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "failed to fetch event details")
		}
	})

	t.Run("missing listing endpoint is a network failure", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusNotFound, `{}`)
		})

		_, err := client.FetchClubs(context.Background(), "")

		assert.ErrorIs(t, err, catalog.ErrNetwork)
	})

	t.Run("missing promoter is not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusNotFound, `{}`)
		})

		_, err := client.FetchPromoter(context.Background(), "p404")

		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("every call is a fresh request", func(t *testing.T) {
		var calls atomic.Int32

		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			respondJSON(w, http.StatusOK, `[]`)
		})

		_, _ = client.FetchClubs(context.Background(), "")
		_, _ = client.FetchClubs(context.Background(), "")

		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestFetchEntity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/clubs/c1":
			respondJSON(w, http.StatusOK, `{"id":"c1","name":"Club"}`)
		case "/api/events/e1":
			respondJSON(w, http.StatusOK, `{"id":"e1","title":"No date"}`)
		default:
			respondJSON(w, http.StatusNotFound, `{}`)
		}
	})

	t.Run("returns typed club", func(t *testing.T) {
		entity, err := client.FetchEntity(context.Background(), catalog.EntityClub, "c1")

		require.NoError(t, err)
		assert.Equal(t, "Club", entity.Club.Name)
	})

	t.Run("rejects malformed event", func(t *testing.T) {
		_, err := client.FetchEntity(context.Background(), catalog.EntityEvent, "e1")

		assert.ErrorIs(t, err, catalog.ErrInvalid)
	})

	t.Run("missing entity is not found", func(t *testing.T) {
		_, err := client.FetchEntity(context.Background(), catalog.EntityClub, "nope")

		require.ErrorIs(t, err, catalog.ErrNotFound)
		assert.Contains(t, err.Error(), "failed to fetch club details")
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := client.FetchEntity(context.Background(), "promoter", "p1")

		assert.ErrorIs(t, err, catalog.ErrUnknownType)
	})
}

func TestFetchEntityList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/clubs":
			assert.Equal(t, "Goa", r.URL.Query().Get("city"))
			respondJSON(w, http.StatusOK, `[{"id":"c1","name":"A"},{"id":"c2","name":"B"}]`)
		case "/api/events":
			respondJSON(w, http.StatusOK, `[{"id":"e1","title":"A","date":"2026-01-01"},{"id":"e2"}]`)
		}
	})

	t.Run("lists clubs as entities", func(t *testing.T) {
		entities, err := client.FetchEntityList(context.Background(), catalog.EntityClub, catalog.EventFilter{City: "Goa"})

		require.NoError(t, err)
		require.Len(t, entities, 2)
		assert.Equal(t, "c2", entities[1].ID())
	})

	t.Run("fails on a malformed element", func(t *testing.T) {
		_, err := client.FetchEntityList(context.Background(), catalog.EntityEvent, catalog.EventFilter{})

		assert.ErrorIs(t, err, catalog.ErrInvalid)
	})
}

func TestCreateShortLink(t *testing.T) {
	t.Run("posts type and target", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/shortlinks", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]string{"type": "event", "targetId": "e1"}, body)

			respondJSON(w, http.StatusCreated, `{"code":"xyz","shortUrl":"https://clubin.co.in/e/xyz"}`)
		})

		created, err := client.CreateShortLink(context.Background(), catalog.EntityEvent, "e1")

		require.NoError(t, err)
		assert.Equal(t, "xyz", created.Code)
		assert.Equal(t, "https://clubin.co.in/e/xyz", created.ShortURL)
	})

	t.Run("reports backend failure", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusBadRequest, `{}`)
		})

		created, err := client.CreateShortLink(context.Background(), catalog.EntityClub, "c1")

		assert.Nil(t, created)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create short link")
	})
}
