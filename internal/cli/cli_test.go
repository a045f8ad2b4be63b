// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package cli

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/shelfmatch/internal/catalog"
	"github.com/tomtom215/shelfmatch/internal/recommend"
	"github.com/tomtom215/shelfmatch/internal/storage"
)

// These tests run sequentially: every command re-initializes the global logger.

var cliBooks = []catalog.ItemRecord{
	{Title: "Dune", Author: "Frank Herbert", AvgRating: 4.5, YearPublished: 1965, AllGenres: "fiction, science"},
	{Title: "Dune Messiah", Author: "Frank Herbert", AvgRating: 4.0, YearPublished: 1969, AllGenres: "fiction"},
	{Title: "Emma", Author: "Jane Austen", AvgRating: 3.0, YearPublished: 1815, AllGenres: "romance, literature"},
	{Title: "Hyperion", Author: "Dan Simmons", AvgRating: 4.8, YearPublished: 1989, AllGenres: "fiction, science"},
}

// writeSources writes a JSONL item table and four banded matrices where
// similarity falls off with the distance between item ids.
func writeSources(t *testing.T) catalog.Sources {
	t.Helper()
	dir := t.TempDir()

	var buf bytes.Buffer
	for i := range cliBooks {
		line, err := json.Marshal(cliBooks[i])
		if err != nil {
			t.Fatalf("marshal item: %v", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	src := catalog.Sources{Items: filepath.Join(dir, "items.jsonl")}
	if err := os.WriteFile(src.Items, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write items: %v", err)
	}

	n := len(cliBooks)
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			rows[i][j] = 1 - 0.2*math.Abs(float64(i-j))
		}
	}
	m, err := recommend.NewSimilarityMatrix(rows)
	if err != nil {
		t.Fatalf("NewSimilarityMatrix: %v", err)
	}
	src.Title = filepath.Join(dir, "title.parquet")
	src.Genre = filepath.Join(dir, "genre.parquet")
	src.Rating = filepath.Join(dir, "rating.parquet")
	src.Year = filepath.Join(dir, "year.parquet")
	for _, p := range []string{src.Title, src.Genre, src.Rating, src.Year} {
		if err := catalog.WriteMatrix(p, m); err != nil {
			t.Fatalf("WriteMatrix: %v", err)
		}
	}
	return src
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func importArgs(store string, src catalog.Sources) []string {
	return []string{
		"import", "--store", store,
		"--items", src.Items,
		"--title", src.Title,
		"--genre", src.Genre,
		"--rating", src.Rating,
		"--year", src.Year,
	}
}

func importCatalog(t *testing.T) string {
	t.Helper()
	store := t.TempDir()
	out, err := run(t, importArgs(store, writeSources(t))...)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "saved catalog v1 (4 items)") {
		t.Fatalf("import output = %q", out)
	}
	return store
}

func TestImportAndListSnapshots(t *testing.T) {
	store := t.TempDir()
	src := writeSources(t)

	for i := 0; i < 2; i++ {
		if _, err := run(t, importArgs(store, src)...); err != nil {
			t.Fatalf("import %d: %v", i, err)
		}
	}

	out, err := run(t, "snapshots", "list", "--store", store, "--format", "json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var metas []storage.SnapshotMetadata
	if err := json.Unmarshal([]byte(out), &metas); err != nil {
		t.Fatalf("decode list: %v\n%s", err, out)
	}
	if len(metas) != 2 || metas[0].Version != 2 || metas[0].ItemCount != 4 {
		t.Fatalf("snapshots = %+v, want v2 then v1 with 4 items", metas)
	}

	out, err = run(t, "snapshots", "prune", "--store", store, "--keep", "1")
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if !strings.Contains(out, "removed catalog versions [1]") {
		t.Errorf("prune output = %q", out)
	}

	out, err = run(t, "snapshots", "list", "--store", store)
	if err != nil {
		t.Fatalf("list table: %v", err)
	}
	if !strings.Contains(out, "VERSION") || strings.Count(out, "\n") != 2 {
		t.Errorf("table after prune = %q, want header and one row", out)
	}
}

func TestImportRejectsMissingMatrix(t *testing.T) {
	src := writeSources(t)
	src.Year = filepath.Join(t.TempDir(), "missing.parquet")
	if _, err := run(t, importArgs(t.TempDir(), src)...); err == nil {
		t.Fatal("expected error for missing year matrix")
	}
}

func TestRecommend(t *testing.T) {
	store := importCatalog(t)

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "recommend", "--store", store, "--query", "DUNE", "--k", "2", "--format", "json")
		if err != nil {
			t.Fatalf("recommend: %v", err)
		}
		var v recommendView
		if err := json.Unmarshal([]byte(out), &v); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if v.Anchor.ID != 0 || v.SnapshotVersion != 1 {
			t.Errorf("anchor=%d version=%d, want 0 and 1", v.Anchor.ID, v.SnapshotVersion)
		}
		if len(v.Items) != 2 || v.Items[0].ID != 1 || v.Items[1].ID != 2 {
			t.Fatalf("items = %+v, want ids [1 2]", v.Items)
		}
		if v.Items[0].Score < v.Items[1].Score {
			t.Errorf("scores not descending: %v, %v", v.Items[0].Score, v.Items[1].Score)
		}
	})

	t.Run("by id with filters", func(t *testing.T) {
		out, err := run(t, "recommend", "--store", store, "--id", "2", "--min-rating", "4.6", "--format", "yaml")
		if err != nil {
			t.Fatalf("recommend: %v", err)
		}
		var v recommendView
		if err := yaml.Unmarshal([]byte(out), &v); err != nil {
			t.Fatalf("decode yaml: %v\n%s", err, out)
		}
		if len(v.Items) != 1 || v.Items[0].Title != "Hyperion" {
			t.Errorf("items = %+v, want only Hyperion", v.Items)
		}
	})

	t.Run("empty after filters", func(t *testing.T) {
		out, err := run(t, "recommend", "--store", store, "--query", "dune", "--min-rating", "4.9")
		if err != nil {
			t.Fatalf("recommend: %v", err)
		}
		if !strings.Contains(out, EmptyResultMessage) {
			t.Errorf("output = %q, want %q", out, EmptyResultMessage)
		}
	})

	t.Run("table", func(t *testing.T) {
		out, err := run(t, "recommend", "--store", store, "--query", "herbert", "--mode", "author", "--k", "1")
		if err != nil {
			t.Fatalf("recommend: %v", err)
		}
		if !strings.Contains(out, "Anchor: [0] Dune by Frank Herbert") || !strings.Contains(out, "Dune Messiah") {
			t.Errorf("table = %q", out)
		}
	})

	errCases := []struct {
		name string
		args []string
		want string
	}{
		{"no anchor", []string{"recommend", "--store", store}, "--query or --id"},
		{"unknown query", []string{"recommend", "--store", store, "--query", "zzz"}, "zzz"},
		{"bad format", []string{"recommend", "--store", store, "--query", "dune", "--format", "xml"}, "unknown format"},
		{"bad mode", []string{"recommend", "--store", store, "--query", "dune", "--mode", "isbn"}, "search mode"},
		{"bad weights", []string{"recommend", "--store", store, "--query", "dune",
			"--w-title", "0", "--w-genre", "0", "--w-rating", "0", "--w-year", "0", "--w-cluster", "0"}, "weight"},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestRecommendWithoutSnapshot(t *testing.T) {
	_, err := run(t, "recommend", "--store", t.TempDir(), "--query", "dune")
	if err == nil || !strings.Contains(err.Error(), "shelfmatch import") {
		t.Errorf("err = %v, want hint to import", err)
	}
}

func TestSearch(t *testing.T) {
	store := importCatalog(t)

	out, err := run(t, "search", "--store", store, "--query", "science", "--mode", "genre", "--format", "json")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var books []bookView
	if err := json.Unmarshal([]byte(out), &books); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(books) != 2 || books[0].Title != "Dune" || books[1].Title != "Hyperion" {
		t.Errorf("books = %+v, want Dune and Hyperion in catalog order", books)
	}

	out, err = run(t, "search", "--store", store, "--query", "nothing-here")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "no matching books") {
		t.Errorf("output = %q", out)
	}
}

func TestWeightFlagsOnlyOverrideChanged(t *testing.T) {
	cmd := newRecommendCmd(&app{})
	if err := cmd.ParseFlags([]string{"--w-title", "0.9"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	var w weightFlags
	w.title = 0.9
	got := w.apply(cmd, recommend.DefaultWeights())
	if got == nil {
		t.Fatal("apply returned nil with --w-title set")
	}
	want := recommend.DefaultWeights()
	want.Title = 0.9
	if *got != want {
		t.Errorf("weights = %+v, want %+v", *got, want)
	}

	if w.apply(newRecommendCmd(&app{}), recommend.DefaultWeights()) != nil {
		t.Error("apply without flags should keep configured weights")
	}
}
