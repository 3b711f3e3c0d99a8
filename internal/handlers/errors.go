package handlers

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/clubin-web/internal/catalog"
)

const (
	msgNotFound = "This link was not found or has expired."
	msgInvalid  = "This link is invalid."
	msgNetwork  = "We could not load this page. Check your connection and try again."
	msgBadInput = "This address is not valid."
)

// apiError maps catalog failures onto HTTP errors for the JSON API.
func apiError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return huma.Error404NotFound(catalog.ErrNotFound.Error())
	case errors.Is(err, catalog.ErrInvalid):
		return huma.Error502BadGateway(catalog.ErrInvalid.Error())
	case errors.Is(err, catalog.ErrUnknownType):
		return huma.Error400BadRequest(err.Error())
	default:
		return huma.Error502BadGateway("upstream request failed")
	}
}

// pageError picks the status and the single message an error page shows.
func pageError(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, catalog.ErrInvalid):
		return http.StatusBadGateway, msgInvalid
	case errors.Is(err, catalog.ErrUnknownType):
		return http.StatusBadRequest, msgBadInput
	default:
		return http.StatusBadGateway, msgNetwork
	}
}
