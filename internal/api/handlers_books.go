// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/shelfmatch/internal/recommend"
	"github.com/tomtom215/shelfmatch/internal/validation"
)

// SearchBooks handles GET /api/v1/books/search.
// Matches are returned in catalog order, capped at limit.
func (h *Handler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params, err := parseSearchParams(r.URL.Query())
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&params); verr != nil {
		writeEngineError(rw, verr)
		return
	}

	mode, err := recommend.ParseSearchMode(params.Mode)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	items, err := h.engine.Search(r.Context(), params.Query, mode, params.Limit)
	if err != nil {
		writeEngineError(rw, err)
		return
	}
	rw.SuccessList(items, len(items))
}

// GetBook handles GET /api/v1/books/{itemID}.
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := parseItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	item, err := h.engine.Item(id)
	if err != nil {
		writeLookupError(rw, err)
		return
	}
	rw.Success(item)
}
