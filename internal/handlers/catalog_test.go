package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/clubin-web/internal/catalog"
	"github.com/serroba/clubin-web/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var se huma.StatusError
	require.True(t, errors.As(err, &se), "expected a huma status error, got %v", err)

	return se.GetStatus()
}

func TestCatalogHandler_ListClubs(t *testing.T) {
	t.Run("passes the city through", func(t *testing.T) {
		c := &mockCatalog{clubs: []catalog.Club{{ID: "c1", Name: "Skyye"}}}
		handler := handlers.NewCatalogHandler(c)

		resp, err := handler.ListClubs(context.Background(), &handlers.ListClubsRequest{City: "Goa"})

		require.NoError(t, err)
		assert.Equal(t, "Goa", c.lastCity)
		assert.Len(t, resp.Body, 1)
	})

	t.Run("empty listing is an empty array", func(t *testing.T) {
		router := newServer(t, &mockCatalog{}, &recorder{})

		w := get(router, "/api/clubs")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestCatalogHandler_ListEvents(t *testing.T) {
	c := &mockCatalog{events: []catalog.Event{{ID: "e1", Title: "Techno Night", Date: "2026-02-20"}}}
	router := newServer(t, c, &recorder{})

	w := get(router, "/api/events?city=Goa&upcoming=true")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, catalog.EventFilter{City: "Goa", Upcoming: true}, c.lastEvent)

	var events []catalog.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	assert.Equal(t, "Techno Night", events[0].Title)
}

func TestCatalogHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", catalog.ErrNotFound, http.StatusNotFound},
		{"invalid payload", catalog.ErrInvalid, http.StatusBadGateway},
		{"network", catalog.ErrNetwork, http.StatusBadGateway},
		{"unknown type", catalog.ErrUnknownType, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.NewCatalogHandler(&mockCatalog{err: tt.err})

			_, err := handler.GetEvent(context.Background(), &handlers.IDRequest{ID: "e1"})

			assert.Equal(t, tt.status, statusOf(t, err))
		})
	}

	t.Run("missing club over HTTP", func(t *testing.T) {
		w := get(newServer(t, &mockCatalog{}, &recorder{}), "/api/clubs/nope")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "not found or expired")
	})
}

func TestCatalogHandler_GetPromoter(t *testing.T) {
	c := &mockCatalog{promoter: &catalog.PromoterPublic{
		Promoter: catalog.Promoter{ID: "p1", Name: "Night Owls"},
	}}
	handler := handlers.NewCatalogHandler(c)

	resp, err := handler.GetPromoter(context.Background(), &handlers.IDRequest{ID: "p1"})

	require.NoError(t, err)
	assert.Equal(t, "Night Owls", resp.Body.Promoter.Name)

	_, err = handler.GetPromoter(context.Background(), &handlers.IDRequest{ID: "p2"})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}
