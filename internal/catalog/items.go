// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package catalog

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB driver for CSV ingestion
	"github.com/goccy/go-json"
	"github.com/parquet-go/parquet-go"

	"github.com/tomtom215/shelfmatch/internal/recommend"
)

// GenreVocabulary lists the one-hot genre columns produced by the upstream
// encoding step. Tabular inputs may carry these as 0/1 columns instead of (or
// in addition to) an all_genres string.
var GenreVocabulary = []string{
	"activism", "adult", "bestseller", "children/young adult", "fantasy", "fiction",
	"guide", "history", "inspirational", "literature", "non-fiction", "other",
	"poetry", "romance", "science", "spiritual/religious", "sport",
}

// ItemRecord is one row of an item table as produced by the dataset pipeline.
type ItemRecord struct {
	Title          string   `json:"title" parquet:"title,optional"`
	Author         string   `json:"author" parquet:"author,optional"`
	AvgRating      float64  `json:"avg_rating" parquet:"avg_rating,optional"`
	RatingCount    float64  `json:"rating_count" parquet:"rating_count,optional"`
	YearPublished  float64  `json:"year_published" parquet:"year_published,optional"`
	Cluster        float64  `json:"cluster" parquet:"cluster,optional"`
	AllGenres      string   `json:"all_genres" parquet:"all_genres,optional"`
	Genres         []string `json:"genres,omitempty" parquet:"genres,list"`
	SearchableText string   `json:"searchable_text,omitempty" parquet:"searchable_text,optional"`
	FeaturesText   string   `json:"features_text,omitempty" parquet:"features_text,optional"`
}

// LoadItems reads an item table. The format is chosen by extension:
// .jsonl/.json (one object per line), .parquet, or .csv. Item ids are
// assigned by row order.
func LoadItems(ctx context.Context, path string) ([]recommend.Item, error) {
	var (
		records []ItemRecord
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jsonl", ".json":
		records, err = loadJSONL(ctx, path)
	case ".parquet":
		records, err = loadParquet(ctx, path)
	case ".csv":
		records, err = loadCSV(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported item file format: %s (supported: .jsonl, .json, .parquet, .csv)", ext)
	}
	if err != nil {
		return nil, err
	}

	return ToItems(records), nil
}

// ToItems converts records to items with ids equal to their position.
func ToItems(records []ItemRecord) []recommend.Item {
	items := make([]recommend.Item, len(records))
	for i := range records {
		items[i] = records[i].toItem(i)
	}
	return items
}

//nolint:gocritic // hugeParam: record is read once per row
func (r ItemRecord) toItem(id int) recommend.Item {
	text := r.SearchableText
	if text == "" {
		text = r.FeaturesText
	}

	genres := r.Genres
	if len(genres) == 0 {
		genres = SplitGenres(r.AllGenres)
	}

	return recommend.Item{
		ID:             id,
		Title:          strings.TrimSpace(r.Title),
		Author:         strings.TrimSpace(r.Author),
		AvgRating:      r.AvgRating,
		RatingCount:    roundInt(r.RatingCount),
		YearPublished:  roundInt(r.YearPublished),
		Cluster:        roundInt(r.Cluster),
		Genres:         normalizeGenres(genres),
		SearchableText: strings.TrimSpace(text),
	}
}

// SplitGenres splits a comma-separated genre string into trimmed, non-empty tags.
func SplitGenres(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeGenres lower-cases and de-duplicates tags, keeping first-seen order.
func normalizeGenres(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func roundInt(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}

// loadJSONL loads records from a JSONL file
func loadJSONL(ctx context.Context, path string) ([]ItemRecord, error) {
	file, err := os.Open(path) //nolint:gosec // path is an operator-supplied input file
	if err != nil {
		return nil, fmt.Errorf("open item file: %w", err)
	}
	defer func() { _ = file.Close() }() //nolint:errcheck // read-only file

	var records []ItemRecord
	scanner := bufio.NewScanner(file)

	// Feature text can make lines long
	const maxCapacity = 10 * 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		if lineNum%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		var record ItemRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("parse JSON at line %d: %w", lineNum, err)
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read item file: %w", err)
	}

	return records, nil
}

// loadParquet loads records from a Parquet file
func loadParquet(ctx context.Context, path string) ([]ItemRecord, error) {
	file, err := os.Open(path) //nolint:gosec // path is an operator-supplied input file
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer func() { _ = file.Close() }() //nolint:errcheck // read-only file

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[ItemRecord](pf)
	defer func() { _ = reader.Close() }() //nolint:errcheck // read-only reader

	records := make([]ItemRecord, 0, pf.NumRows())
	rows := make([]ItemRecord, 128)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := reader.Read(rows)
		records = append(records, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
	}

	return records, nil
}

// loadCSV loads records from a CSV file using DuckDB's CSV sniffer, which
// handles quoting, embedded newlines and header detection.
func loadCSV(ctx context.Context, path string) ([]ItemRecord, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer func() { _ = db.Close() }() //nolint:errcheck // in-memory database

	// read_csv_auto takes its path as a literal; quote it rather than interpolate raw.
	query := "SELECT * FROM read_csv_auto(" + quoteLiteral(path) + ", header = true, all_varchar = true)"
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query csv: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // rows.Err is checked below

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("csv columns: %w", err)
	}

	var records []ItemRecord
	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	line := 1
	for rows.Next() {
		line++
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan csv row %d: %w", line, err)
		}
		fields := make(map[string]string, len(columns))
		for i, col := range columns {
			if values[i].Valid {
				fields[strings.ToLower(strings.TrimSpace(col))] = values[i].String
			}
		}
		record, err := recordFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", line, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read csv rows: %w", err)
	}

	return records, nil
}

// recordFromFields builds a record from string-valued columns. Genre tags come
// from all_genres plus any one-hot vocabulary column set to a truthy value.
func recordFromFields(fields map[string]string) (ItemRecord, error) {
	var (
		r   ItemRecord
		err error
	)
	r.Title = fields["title"]
	r.Author = fields["author"]
	r.AllGenres = fields["all_genres"]
	r.SearchableText = fields["searchable_text"]
	r.FeaturesText = fields["features_text"]

	for _, num := range []struct {
		col  string
		into *float64
	}{
		{"avg_rating", &r.AvgRating},
		{"rating_count", &r.RatingCount},
		{"year_published", &r.YearPublished},
		{"cluster", &r.Cluster},
	} {
		if *num.into, err = parseNumber(fields[num.col]); err != nil {
			return ItemRecord{}, fmt.Errorf("column %s: %w", num.col, err)
		}
	}

	genres := SplitGenres(r.AllGenres)
	for _, g := range GenreVocabulary {
		if truthy(fields[g]) {
			genres = append(genres, g)
		}
	}
	r.Genres = genres

	return r, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "1.0", "true", "t", "yes":
		return true
	default:
		return false
	}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
