// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/shelfmatch/internal/recommend"
	"github.com/tomtom215/shelfmatch/internal/validation"
)

// ErrInvalidItemID is returned when an {itemID} path segment is not a non-negative integer.
var ErrInvalidItemID = errors.New("item id must be a non-negative integer")

// writeEngineError maps an engine error to a status code and envelope.
// An IndexError reaching this point came from scoring, not from a client id.
func writeEngineError(rw *ResponseWriter, err error) {
	var (
		notFound *recommend.NotFoundError
		cfgErr   *recommend.ConfigurationError
		valErr   *validation.RequestValidationError
	)

	switch {
	case errors.As(err, &valErr):
		apiErr := valErr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
	case errors.As(err, &notFound):
		rw.ErrorWithDetails(http.StatusNotFound, ErrCodeNotFound, notFound.Error(),
			map[string]string{"query": notFound.Query})
	case errors.As(err, &cfgErr):
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, cfgErr.Error())
	case errors.Is(err, recommend.ErrNoSnapshot):
		rw.ServiceUnavailable("catalog not loaded")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		rw.ServiceUnavailable("request cancelled")
	default:
		rw.InternalError(err)
	}
}

// writeLookupError maps errors from a client-supplied item id lookup.
func writeLookupError(rw *ResponseWriter, err error) {
	var idx *recommend.IndexError
	if errors.As(err, &idx) {
		rw.ErrorWithDetails(http.StatusNotFound, ErrCodeNotFound, idx.Error(),
			map[string]int{"item_id": idx.Index, "catalog_size": idx.Size})
		return
	}
	writeEngineError(rw, err)
}
