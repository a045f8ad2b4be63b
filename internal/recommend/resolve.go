// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package recommend

import (
	"fmt"
	"strings"
)

// SearchMode selects the item field a query is matched against.
type SearchMode string

const (
	// ModeTitle matches against the title.
	ModeTitle SearchMode = "title"

	// ModeAuthor matches against the author.
	ModeAuthor SearchMode = "author"

	// ModeGenre matches against any genre tag.
	ModeGenre SearchMode = "genre"

	// ModeKeyword matches against the searchable text.
	ModeKeyword SearchMode = "keyword"
)

// String returns the mode name, defaulting to title.
func (m SearchMode) String() string {
	if m == "" {
		return string(ModeTitle)
	}
	return string(m)
}

// ParseSearchMode parses a mode name. An empty string means ModeTitle.
func ParseSearchMode(s string) (SearchMode, error) {
	switch SearchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeTitle:
		return ModeTitle, nil
	case ModeAuthor:
		return ModeAuthor, nil
	case ModeGenre:
		return ModeGenre, nil
	case ModeKeyword:
		return ModeKeyword, nil
	default:
		return "", fmt.Errorf("unknown search mode %q", s)
	}
}

// Resolve returns the id of the first item, in stored order, whose title
// contains the query. Matching is case-insensitive after trimming the query.
// When several titles match, the earliest one wins.
func Resolve(query string, items []Item) (int, error) {
	return ResolveBy(query, items, ModeTitle)
}

// ResolveBy is Resolve over the field selected by mode.
func ResolveBy(query string, items []Item, mode SearchMode) (int, error) {
	ids := Match(query, items, mode, 1)
	if len(ids) == 0 {
		return 0, &NotFoundError{Query: query}
	}
	return ids[0], nil
}

// Match returns the ids of matching items in stored order, at most limit of
// them (limit <= 0 means no limit). An empty query matches nothing.
func Match(query string, items []Item, mode SearchMode, limit int) []int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	match := matcherFor(mode)
	var ids []int
	for i := range items {
		if !match(&items[i], q) {
			continue
		}
		ids = append(ids, i)
		if limit > 0 && len(ids) >= limit {
			break
		}
	}
	return ids
}

type matcher func(it *Item, q string) bool

func matcherFor(mode SearchMode) matcher {
	switch mode {
	case ModeAuthor:
		return func(it *Item, q string) bool {
			return strings.Contains(strings.ToLower(it.Author), q)
		}
	case ModeGenre:
		return func(it *Item, q string) bool {
			for _, g := range it.Genres {
				if strings.Contains(strings.ToLower(g), q) {
					return true
				}
			}
			return false
		}
	case ModeKeyword:
		return func(it *Item, q string) bool {
			return strings.Contains(strings.ToLower(it.SearchableText), q)
		}
	default:
		return func(it *Item, q string) bool {
			return strings.Contains(strings.ToLower(it.Title), q)
		}
	}
}
