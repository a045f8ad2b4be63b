// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

// Package validation wraps a shared go-playground/validator instance and
// turns its errors into the API's VALIDATION_FAILED responses.
//
//	type SearchParams struct {
//	    Query string `query:"q" validate:"required,max=200"`
//	    Limit int    `query:"limit" validate:"gte=0,lte=100"`
//	}
//
//	if verr := validation.ValidateStruct(&params); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    ...
//	}
//
// Field names in messages come from the query or json tag.
package validation
