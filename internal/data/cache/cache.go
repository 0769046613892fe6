package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/util"
	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotExt is the extension of on-disk cache entries.
const SnapshotExt = ".msgpack"

type MissReason int

const (
	MissReasonNone MissReason = iota
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonNotFound
)

func (r MissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "error"
	case MissReasonInode:
		return "inode"
	case MissReasonSize:
		return "size"
	case MissReasonModTime:
		return "modtime"
	case MissReasonNotFound:
		return "not found"
	default:
		return fmt.Sprintf("MissReason(%d)", int(r))
	}
}

type Result struct {
	Samples    []model.Sample
	Found      bool
	MissReason MissReason
}

// Cache holds parsed feeds keyed by path. An entry is valid while the
// file on disk still carries the stamp it was parsed from.
type Cache interface {
	Get(path string, current util.FileStamp) Result
	Set(path string, stamp util.FileStamp, samples []model.Sample) error
	Clear() error
	Len() int
}

type entry struct {
	Path    string         `json:"path"`
	Stamp   util.FileStamp `json:"stamp"`
	Samples []model.Sample `json:"samples"`
}

// Stats counts lookups since the cache was created.
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// FeedCache keeps entries in memory and, with a base directory, mirrors
// them to disk so a restart does not reparse unchanged feeds.
type FeedCache struct {
	baseDir string
	mu      sync.RWMutex
	memory  map[string]*entry

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryCache creates a cache that never touches the disk.
func NewMemoryCache() *FeedCache {
	return &FeedCache{memory: make(map[string]*entry)}
}

// NewFileCache creates a cache persisted below baseDir.
func NewFileCache(baseDir string) (*FeedCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FeedCache{baseDir: baseDir, memory: make(map[string]*entry)}, nil
}

// snapshotPath names the snapshot for a feed path. The name is a
// name-based UUID so any path maps to a flat, fixed-length file name.
func (c *FeedCache) snapshotPath(path string) string {
	return filepath.Join(c.baseDir, uuid.NewSHA1(uuid.NameSpaceURL, []byte(path)).String()+SnapshotExt)
}

func (c *FeedCache) Get(path string, current util.FileStamp) Result {
	c.mu.RLock()
	e, ok := c.memory[path]
	c.mu.RUnlock()

	if !ok && c.baseDir != "" {
		loaded, err := c.readSnapshot(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			util.LogDebugf("Cache snapshot for %s unreadable: %v", path, err)
			return c.miss(MissReasonError)
		default:
			e, ok = loaded, true
		}
	}
	if !ok {
		return c.miss(MissReasonNotFound)
	}

	if reason := validate(e.Stamp, current); reason != MissReasonNone {
		util.LogDebugf("Cache invalidated for %s: %s changed", path, reason)
		c.mu.Lock()
		delete(c.memory, path)
		c.mu.Unlock()
		return c.miss(reason)
	}

	c.mu.Lock()
	c.memory[path] = e
	c.mu.Unlock()
	c.hits.Add(1)
	return Result{Samples: e.Samples, Found: true}
}

func (c *FeedCache) miss(reason MissReason) Result {
	c.misses.Add(1)
	return Result{MissReason: reason}
}

func validate(cached, current util.FileStamp) MissReason {
	switch {
	case cached.Inode != current.Inode:
		return MissReasonInode
	case cached.Size != current.Size:
		return MissReasonSize
	case cached.ModTime != current.ModTime:
		return MissReasonModTime
	default:
		return MissReasonNone
	}
}

func (c *FeedCache) Set(path string, stamp util.FileStamp, samples []model.Sample) error {
	e := &entry{Path: path, Stamp: stamp, Samples: samples}

	c.mu.Lock()
	c.memory[path] = e
	c.mu.Unlock()

	if c.baseDir == "" {
		return nil
	}
	return c.writeSnapshot(e)
}

func (c *FeedCache) readSnapshot(path string) (*entry, error) {
	file, err := os.Open(c.snapshotPath(path))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	dec := msgpack.NewDecoder(file)
	dec.SetCustomStructTag("json")
	var e entry
	if err := dec.Decode(&e); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if e.Path != path {
		return nil, fmt.Errorf("snapshot belongs to %s", e.Path)
	}
	return &e, nil
}

// writeSnapshot writes to a temporary file first so readers never see a
// partial snapshot.
func (c *FeedCache) writeSnapshot(e *entry) error {
	target := c.snapshotPath(e.Path)
	tmp, err := os.CreateTemp(c.baseDir, "snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := msgpack.NewEncoder(tmp)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(e); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Clear drops every entry, including snapshots on disk.
func (c *FeedCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memory = make(map[string]*entry)
	if c.baseDir == "" {
		return nil
	}

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, de := range entries {
		if !de.IsDir() && filepath.Ext(de.Name()) == SnapshotExt {
			if err := os.Remove(filepath.Join(c.baseDir, de.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// Len returns the number of entries held in memory.
func (c *FeedCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory)
}

func (c *FeedCache) Stats() Stats {
	return Stats{Entries: c.Len(), Hits: c.hits.Load(), Misses: c.misses.Load()}
}
