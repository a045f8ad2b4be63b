// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package recommend

import (
	"errors"
	"fmt"
)

// ErrNoSnapshot is returned when a request arrives before any catalog snapshot is loaded.
var ErrNoSnapshot = errors.New("no catalog snapshot loaded")

// ErrUnknownAnchor wraps the IndexError returned when a request names an
// anchor id outside the loaded catalog.
var ErrUnknownAnchor = errors.New("unknown anchor item")

// NotFoundError reports that a query matched no item.
type NotFoundError struct {
	// Query is the query as supplied by the caller, before normalization.
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no item matches %q", e.Query)
}

// ConfigurationError reports invalid weights or a size mismatch between the
// item collection and a similarity matrix. It is never defaulted away.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// IndexError reports an item id outside the catalog.
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("item index %d out of range [0, %d)", e.Index, e.Size)
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConfiguration reports whether err is or wraps a *ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsIndex reports whether err is or wraps an *IndexError.
func IsIndex(err error) bool {
	var ie *IndexError
	return errors.As(err, &ie)
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return &IndexError{Index: i, Size: n}
	}
	return nil
}
