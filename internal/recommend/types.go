// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package recommend

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"
)

// Item represents a book with the metadata used for matching and filtering.
type Item struct {
	// ID is the row index of the item in the catalog and in every similarity matrix.
	ID int `json:"id"`

	// Title is the book title.
	Title string `json:"title"`

	// Author is the book author (or authors, as a single display string).
	Author string `json:"author"`

	// AvgRating is the average reader rating (0-5).
	AvgRating float64 `json:"avg_rating"`

	// RatingCount is the number of ratings behind AvgRating.
	RatingCount int `json:"rating_count"`

	// YearPublished is the publication year.
	YearPublished int `json:"year_published"`

	// Cluster is the label assigned by the upstream clustering step.
	Cluster int `json:"cluster"`

	// Genres is the set of genre tags present for this item.
	Genres []string `json:"genres"`

	// SearchableText is the free text used for keyword matching.
	SearchableText string `json:"searchable_text,omitempty"`
}

// HasAnyGenre reports whether the item carries at least one of the given tags.
// Tags compare case-insensitively.
func (it *Item) HasAnyGenre(tags map[string]struct{}) bool {
	for _, g := range it.Genres {
		if _, ok := tags[normalizeTag(g)]; ok {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no memory with it. Snapshot items are
// handed out through Clone so callers cannot edit the shared catalog.
func (it *Item) Clone() Item {
	c := *it
	c.Genres = slices.Clone(it.Genres)
	return c
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// SimilarityMatrix is a dense, row-major N x N similarity table.
// Entry (i, j) is the similarity of items i and j in [0, 1].
type SimilarityMatrix struct {
	n    int
	data []float64
}

// NewSimilarityMatrix builds a matrix from rows. Every row must have len(rows) entries.
func NewSimilarityMatrix(rows [][]float64) (*SimilarityMatrix, error) {
	n := len(rows)
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, &ConfigurationError{
				Reason: fmt.Sprintf("matrix row %d has %d columns, want %d", i, len(row), n),
			}
		}
		data = append(data, row...)
	}
	return &SimilarityMatrix{n: n, data: data}, nil
}

// NewDenseMatrix wraps row-major data of an n x n matrix without copying it.
func NewDenseMatrix(n int, data []float64) (*SimilarityMatrix, error) {
	if n < 0 || len(data) != n*n {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("matrix data has %d values, want %d x %d", len(data), n, n),
		}
	}
	return &SimilarityMatrix{n: n, data: data}, nil
}

// Values returns the row-major backing slice. It must not be modified.
func (m *SimilarityMatrix) Values() []float64 {
	return m.data
}

// Size returns N.
func (m *SimilarityMatrix) Size() int {
	if m == nil {
		return 0
	}
	return m.n
}

// Row returns row i. The returned slice aliases the matrix and must not be modified.
func (m *SimilarityMatrix) Row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n]
}

// At returns entry (i, j).
func (m *SimilarityMatrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

// Rows returns a copy of the matrix as a slice of rows.
func (m *SimilarityMatrix) Rows() [][]float64 {
	rows := make([][]float64, m.n)
	for i := range rows {
		rows[i] = append([]float64(nil), m.Row(i)...)
	}
	return rows
}

// symmetryTolerance absorbs float noise from the upstream cosine computation.
const symmetryTolerance = 1e-6

// Validate checks the full matrix contract: entries in [0, 1], unit diagonal and symmetry.
// It is O(N^2) and meant to run once when a snapshot is assembled, not per request.
func (m *SimilarityMatrix) Validate() error {
	for i := 0; i < m.n; i++ {
		if d := m.At(i, i); math.Abs(d-1) > symmetryTolerance {
			return fmt.Errorf("diagonal entry (%d,%d) = %f, want 1", i, i, d)
		}
		for j := 0; j < m.n; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || v < -symmetryTolerance || v > 1+symmetryTolerance {
				return fmt.Errorf("entry (%d,%d) = %f outside [0, 1]", i, j, v)
			}
			if j > i && math.Abs(v-m.At(j, i)) > symmetryTolerance {
				return fmt.Errorf("entry (%d,%d) = %f differs from (%d,%d) = %f", i, j, v, j, i, m.At(j, i))
			}
		}
	}
	return nil
}

// Matrices groups the four similarity signals. All share the item index space.
type Matrices struct {
	Title  *SimilarityMatrix
	Genre  *SimilarityMatrix
	Rating *SimilarityMatrix
	Year   *SimilarityMatrix
}

// named returns the matrices paired with their signal names in a fixed order.
func (m Matrices) named() []namedMatrix {
	return []namedMatrix{
		{SignalTitle, m.Title},
		{SignalGenre, m.Genre},
		{SignalRating, m.Rating},
		{SignalYear, m.Year},
	}
}

type namedMatrix struct {
	name   string
	matrix *SimilarityMatrix
}

// checkAligned verifies that every matrix exists and has size n.
func (m Matrices) checkAligned(n int) error {
	for _, nm := range m.named() {
		if nm.matrix == nil {
			return &ConfigurationError{Reason: nm.name + " similarity matrix is missing"}
		}
		if nm.matrix.Size() != n {
			return &ConfigurationError{
				Reason: fmt.Sprintf("%s similarity matrix is %dx%d but catalog has %d items",
					nm.name, nm.matrix.Size(), nm.matrix.Size(), n),
			}
		}
	}
	return nil
}

// Signal names used in weight maps and score breakdowns.
const (
	SignalTitle   = "title"
	SignalGenre   = "genre"
	SignalRating  = "rating"
	SignalYear    = "year"
	SignalCluster = "cluster"
)

// FilterSpec restricts which ranked items may be returned.
type FilterSpec struct {
	// MinRating drops items whose average rating is below this value.
	MinRating float64 `json:"min_rating"`

	// Genres keeps only items sharing at least one tag. Empty means no restriction.
	Genres []string `json:"genres,omitempty"`
}

// genreSet returns the normalized genre filter, or nil when unrestricted.
func (f FilterSpec) genreSet() map[string]struct{} {
	if len(f.Genres) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(f.Genres))
	for _, g := range f.Genres {
		if t := normalizeTag(g); t != "" {
			set[t] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// ScoredItem represents a recommended item with its composite score.
type ScoredItem struct {
	// Item is the book metadata.
	Item Item `json:"item"`

	// Score is the composite score (0-1, higher is better).
	Score float64 `json:"score"`

	// Scores is the per-signal contribution breakdown. The values sum to Score.
	Scores map[string]float64 `json:"scores,omitempty"`
}

// Clone returns a deep copy of the scored item.
func (si *ScoredItem) Clone() ScoredItem {
	return ScoredItem{
		Item:   si.Item.Clone(),
		Score:  si.Score,
		Scores: maps.Clone(si.Scores),
	}
}

// Snapshot is an immutable catalog: items plus their four similarity matrices.
// It is built once per dataset load and shared read-only by all requests.
type Snapshot struct {
	Items    []Item
	Matrices Matrices

	// Version is the storage version the snapshot was loaded from (0 if ad hoc).
	Version int

	// Source describes where the snapshot came from.
	Source string

	// LoadedAt is when the snapshot was assembled.
	LoadedAt time.Time
}

// NewSnapshot assembles a snapshot after checking that ids match positions
// and that every matrix is aligned with the item collection.
func NewSnapshot(items []Item, m Matrices, version int, source string) (*Snapshot, error) {
	s := &Snapshot{
		Items:    items,
		Matrices: m,
		Version:  version,
		Source:   source,
		LoadedAt: time.Now(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the structural invariants the scorer relies on. It does not
// re-check matrix contents; see SimilarityMatrix.Validate.
func (s *Snapshot) Validate() error {
	for i := range s.Items {
		if s.Items[i].ID != i {
			return &ConfigurationError{
				Reason: fmt.Sprintf("item at position %d has id %d", i, s.Items[i].ID),
			}
		}
	}
	return s.Matrices.checkAligned(len(s.Items))
}

// Request represents a recommendation request.
type Request struct {
	// Query is the free-text anchor query. Ignored when AnchorID is set.
	Query string `json:"query,omitempty"`

	// Mode selects the field Query is matched against. Defaults to ModeTitle.
	Mode SearchMode `json:"mode,omitempty"`

	// AnchorID selects the anchor directly, bypassing resolution.
	AnchorID *int `json:"anchor_id,omitempty"`

	// K is the number of recommendations to return.
	// Defaults to Config.Limits.DefaultK if zero.
	K int `json:"k,omitempty"`

	// Weights overrides the configured default weights when non-nil.
	Weights *WeightSet `json:"weights,omitempty"`

	// Filter restricts the returned items.
	Filter FilterSpec `json:"filter"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response represents a recommendation response.
type Response struct {
	// Anchor is the item recommendations are similar to.
	Anchor Item `json:"anchor"`

	// Items is the ordered list of recommended items.
	Items []ScoredItem `json:"items"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	RequestID string `json:"request_id"`
	AnchorID  int    `json:"anchor_id"`

	// Weights are the normalized weights used for scoring.
	Weights WeightSet `json:"weights"`

	// SnapshotVersion is the catalog snapshot the response was computed from.
	SnapshotVersion int `json:"snapshot_version"`

	// Scanned is the number of ranked items inspected before K were accepted.
	Scanned int `json:"scanned"`

	LatencyMS int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
}

// Metrics contains engine counters for observability.
type Metrics struct {
	RequestCount    int64 `json:"request_count"`
	EmptyResults    int64 `json:"empty_results"`
	NotFound        int64 `json:"not_found"`
	CacheHits       int64 `json:"cache_hits"`
	CacheMisses     int64 `json:"cache_misses"`
	ErrorCount      int64 `json:"error_count"`
	SnapshotVersion int   `json:"snapshot_version"`
	ItemCount       int   `json:"item_count"`
}
