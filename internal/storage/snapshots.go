// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/shelfmatch/internal/recommend"
)

// DefaultName is the snapshot name used when callers don't pick one.
const DefaultName = "catalog"

const fileSuffix = ".gob.gz"

// ErrNotFound is returned when no snapshot exists for a name or version.
var ErrNotFound = errors.New("snapshot not found")

// SnapshotMetadata contains information about a stored snapshot.
type SnapshotMetadata struct {
	// Name is the catalog name (e.g., "catalog", "goodreads-2024").
	Name string `json:"name" yaml:"name"`

	// Version is the snapshot version (monotonically increasing per name).
	Version int `json:"version" yaml:"version"`

	// Source describes the inputs the snapshot was built from.
	Source string `json:"source" yaml:"source"`

	// ItemCount is the number of items in the catalog.
	ItemCount int `json:"item_count" yaml:"item_count"`

	// SavedAt is when the snapshot was written.
	SavedAt time.Time `json:"saved_at" yaml:"saved_at"`

	// Checksum is the SHA-256 checksum of the uncompressed state.
	Checksum string `json:"checksum" yaml:"checksum"`

	// SizeBytes is the compressed state size in bytes.
	SizeBytes int64 `json:"size_bytes" yaml:"size_bytes"`
}

// CatalogState is the serializable form of a catalog snapshot.
// Matrices are stored row-major, Size x Size values each.
type CatalogState struct {
	Items  []recommend.Item
	Size   int
	Title  []float64
	Genre  []float64
	Rating []float64
	Year   []float64
}

// StateFromSnapshot captures a snapshot for persistence.
func StateFromSnapshot(s *recommend.Snapshot) *CatalogState {
	return &CatalogState{
		Items:  s.Items,
		Size:   len(s.Items),
		Title:  s.Matrices.Title.Values(),
		Genre:  s.Matrices.Genre.Values(),
		Rating: s.Matrices.Rating.Values(),
		Year:   s.Matrices.Year.Values(),
	}
}

// Snapshot rebuilds an engine snapshot from stored state.
func (cs *CatalogState) Snapshot(meta *SnapshotMetadata) (*recommend.Snapshot, error) {
	var m recommend.Matrices
	for _, dst := range []struct {
		name string
		data []float64
		into **recommend.SimilarityMatrix
	}{
		{"title", cs.Title, &m.Title},
		{"genre", cs.Genre, &m.Genre},
		{"rating", cs.Rating, &m.Rating},
		{"year", cs.Year, &m.Year},
	} {
		sm, err := recommend.NewDenseMatrix(cs.Size, dst.data)
		if err != nil {
			return nil, fmt.Errorf("%s matrix: %w", dst.name, err)
		}
		*dst.into = sm
	}

	source := fmt.Sprintf("%s_v%d", meta.Name, meta.Version)
	if meta.Source != "" {
		source += " (" + meta.Source + ")"
	}
	return recommend.NewSnapshot(cs.Items, m, meta.Version, source)
}

// Store manages versioned snapshot files in a directory.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// Latest version per snapshot name
	versions map[string]int
}

// NewStore creates a new snapshot store at the given directory.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for snapshot storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}

	if err := s.Rescan(); err != nil {
		return nil, fmt.Errorf("scan existing snapshots: %w", err)
	}

	return s, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.baseDir
}

// Rescan rebuilds the version index from the directory contents, picking up
// snapshots written by other processes.
func (s *Store) Rescan() error {
	files, err := s.scan()
	if err != nil {
		return err
	}

	versions := make(map[string]int)
	for _, f := range files {
		if f.version > versions[f.name] {
			versions[f.name] = f.version
		}
	}

	s.mu.Lock()
	s.versions = versions
	s.mu.Unlock()
	return nil
}

type snapshotFile struct {
	name    string
	version int
}

// scan lists snapshot files in the directory.
func (s *Store) scan() ([]snapshotFile, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var files []snapshotFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		base, ok := strings.CutSuffix(entry.Name(), fileSuffix)
		if !ok {
			continue
		}
		name, version := parseSnapshotFilename(base)
		if name == "" {
			continue
		}
		files = append(files, snapshotFile{name: name, version: version})
	}
	return files, nil
}

// parseSnapshotFilename extracts name and version from a base name like "catalog_v3".
func parseSnapshotFilename(base string) (name string, version int) {
	idx := strings.LastIndex(base, "_v")
	if idx < 1 {
		return "", 0
	}

	v, err := strconv.Atoi(base[idx+2:])
	if err != nil || v < 1 {
		return "", 0
	}
	return base[:idx], v
}

// storedFile is the on-disk format for snapshot files.
type storedFile struct {
	Metadata       SnapshotMetadata
	CompressedData []byte
}

// Save writes state as a new snapshot version. A version of 0 means one past
// the latest stored version. The file is written to a temporary name and
// renamed into place, so concurrent readers never observe a partial snapshot.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, version int, state *CatalogState, meta SnapshotMetadata) (*SnapshotMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if version == 0 {
		version = s.versions[name] + 1
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now()
	meta.Name = name
	meta.Version = version
	meta.ItemCount = len(state.Items)

	tmp, err := os.CreateTemp(s.baseDir, ".tmp-"+name+"-*")
	if err != nil {
		return nil, fmt.Errorf("create snapshot file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }() //nolint:errcheck // no-op after a successful rename

	sf := storedFile{Metadata: meta, CompressedData: compressed.Bytes()}
	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("write snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close snapshot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.snapshotPath(name, version)); err != nil {
		return nil, fmt.Errorf("install snapshot file: %w", err)
	}

	if version > s.versions[name] {
		s.versions[name] = version
	}

	return &meta, nil
}

// Load reads a snapshot by name and version.
// If version is 0, loads the latest version.
func (s *Store) Load(ctx context.Context, name string, version int) (*CatalogState, *SnapshotMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := validateName(name); err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		version, ok = s.versions[name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
	}

	sf, err := s.readFile(name, version)
	if err != nil {
		return nil, nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	checksum := hex.EncodeToString(hash[:])
	if checksum != sf.Metadata.Checksum {
		return nil, nil, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	var state CatalogState
	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(&state); err != nil {
		return nil, nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return &state, &sf.Metadata, nil
}

// LoadSnapshot loads a stored snapshot and rebuilds it for the engine.
func (s *Store) LoadSnapshot(ctx context.Context, name string, version int) (*recommend.Snapshot, *SnapshotMetadata, error) {
	state, meta, err := s.Load(ctx, name, version)
	if err != nil {
		return nil, nil, err
	}
	snap, err := state.Snapshot(meta)
	if err != nil {
		return nil, nil, fmt.Errorf("rebuild snapshot %s_v%d: %w", meta.Name, meta.Version, err)
	}
	return snap, meta, nil
}

// readFile decodes the stored file for name/version. Caller holds s.mu.
func (s *Store) readFile(name string, version int) (*storedFile, error) {
	f, err := os.Open(s.snapshotPath(name, version))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s_v%d", ErrNotFound, name, version)
		}
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	return &sf, nil
}

// GetLatestVersion returns the latest version number for a snapshot name.
func (s *Store) GetLatestVersion(name string) (int, bool) {
	if validateName(name) != nil {
		return 0, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	return version, ok
}

// ListSnapshots returns metadata for every stored snapshot, ordered by name
// and then by version, newest first. Unreadable files are skipped.
func (s *Store) ListSnapshots(ctx context.Context) ([]SnapshotMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.scan()
	if err != nil {
		return nil, err
	}

	snapshots := make([]SnapshotMetadata, 0, len(files))
	for _, f := range files {
		sf, err := s.readFile(f.name, f.version)
		if err != nil {
			continue
		}
		snapshots = append(snapshots, sf.Metadata)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].Name != snapshots[j].Name {
			return snapshots[i].Name < snapshots[j].Name
		}
		return snapshots[i].Version > snapshots[j].Version
	})
	return snapshots, nil
}

// Delete removes a specific snapshot version.
func (s *Store) Delete(ctx context.Context, name string, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.snapshotPath(name, version)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s_v%d", ErrNotFound, name, version)
		}
		return fmt.Errorf("delete snapshot: %w", err)
	}

	if s.versions[name] == version {
		return s.refreshLatestLocked(name)
	}
	return nil
}

// refreshLatestLocked recomputes the latest version of name. Caller holds s.mu.
func (s *Store) refreshLatestLocked(name string) error {
	files, err := s.scan()
	if err != nil {
		return err
	}

	delete(s.versions, name)
	for _, f := range files {
		if f.name == name && f.version > s.versions[name] {
			s.versions[name] = f.version
		}
	}
	return nil
}

// Prune removes old snapshot versions, keeping only the latest keep versions.
// Returns the removed versions.
func (s *Store) Prune(ctx context.Context, name string, keep int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 1 {
		keep = 1
	}

	files, err := s.scan()
	if err != nil {
		return nil, err
	}

	var versions []int
	for _, f := range files {
		if f.name == name {
			versions = append(versions, f.version)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))

	var removed []int
	for i := keep; i < len(versions); i++ {
		if err := os.Remove(s.snapshotPath(name, versions[i])); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("remove %s_v%d: %w", name, versions[i], err)
		}
		removed = append(removed, versions[i])
	}

	return removed, nil
}

// snapshotPath returns the file path for a snapshot.
func (s *Store) snapshotPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, fileSuffix))
}

// validateName rejects names that would escape the store directory or break filename parsing.
func validateName(name string) error {
	if name == "" {
		return errors.New("snapshot name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid snapshot name %q", name)
	}
	return nil
}
