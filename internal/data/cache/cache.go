// Package cache persists parsed adapter output between runs. Artifact files
// are immutable once exported, so a validated cache hit skips the whole
// parse for that artifact.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
	"github.com/droidsleuth/go-droid-timeline/internal/util"
)

type MissReason int

const (
	MissReasonNone MissReason = iota
	MissReasonNotFound
	MissReasonError
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
)

// Entry is one cached parse: the source artifact's identity attributes plus
// the events its adapter produced.
type Entry struct {
	FilePath    string        `json:"file_path"`
	FileSize    int64         `json:"file_size"`
	ModTime     int64         `json:"mod_time"`
	Fingerprint string        `json:"fingerprint"`
	AdapterName string        `json:"adapter_name"`
	Events      []model.Event `json:"events"`
}

// Result reports a lookup outcome, with the miss reason kept for debug
// logging and the stats command.
type Result struct {
	Events []model.Event
	Found  bool
	Reason MissReason
}

// ArtifactCache is a two-level cache: validated entries live in memory,
// backed by one JSON file per artifact under baseDir.
type ArtifactCache struct {
	baseDir string
	mu      sync.RWMutex
	memory  map[string]*Entry
}

// NewArtifactCache creates the cache directory if needed.
func NewArtifactCache(baseDir string) (*ArtifactCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &ArtifactCache{
		baseDir: baseDir,
		memory:  make(map[string]*Entry),
	}, nil
}

// cacheKey derives a stable key from the adapter and artifact names. The
// adapter is part of the key because two adapters may consume the same file
// (the permission rescan shares the logcat artifact).
func cacheKey(artifactPath, adapterName string) string {
	name := filepath.Base(artifactPath)
	return adapterName + "-" + strings.TrimSuffix(name, filepath.Ext(name))
}

// Get returns the events an adapter cached for an artifact when the file's
// size, modtime and tail fingerprint all still match.
func (c *ArtifactCache) Get(artifactPath, adapterName string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(artifactPath, adapterName)
	if entry, ok := c.memory[key]; ok {
		if v := c.validate(entry); v.cached {
			return Result{Events: entry.Events, Found: true}
		}
		delete(c.memory, key)
	}
	return c.getFromFile(key)
}

func (c *ArtifactCache) getFromFile(key string) Result {
	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		return Result{Reason: MissReasonNotFound}
	}

	var entry Entry
	if err := sonic.Unmarshal(data, &entry); err != nil {
		return Result{Reason: MissReasonError}
	}
	if v := c.validate(&entry); !v.cached {
		return Result{Reason: v.reason}
	}

	c.memory[key] = &entry
	return Result{Events: entry.Events, Found: true}
}

type validateResult struct {
	cached bool
	reason MissReason
}

func (c *ArtifactCache) validate(entry *Entry) validateResult {
	info, err := util.GetFileInfo(entry.FilePath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Cache validation failed for %s: %v", entry.FilePath, err))
		return validateResult{reason: MissReasonError}
	}
	if info.Size != entry.FileSize {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			entry.FilePath, entry.FileSize, info.Size))
		return validateResult{reason: MissReasonSize}
	}
	if info.ModTime != entry.ModTime {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: modtime changed (cached: %d, current: %d)",
			entry.FilePath, entry.ModTime, info.ModTime))
		return validateResult{reason: MissReasonModTime}
	}

	fingerprint, err := util.CalculateFileFingerprint(entry.FilePath)
	if err != nil || fingerprint != entry.Fingerprint {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: fingerprint mismatch", entry.FilePath))
		return validateResult{reason: MissReasonFingerprint}
	}
	return validateResult{cached: true}
}

// Set records an adapter's output for an artifact, capturing the file's
// identity attributes at write time.
func (c *ArtifactCache) Set(artifactPath, adapterName string, events []model.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := util.GetFileInfo(artifactPath)
	if err != nil {
		return err
	}
	fingerprint, err := util.CalculateFileFingerprint(artifactPath)
	if err != nil {
		return err
	}

	entry := &Entry{
		FilePath:    artifactPath,
		FileSize:    info.Size,
		ModTime:     info.ModTime,
		Fingerprint: fingerprint,
		AdapterName: adapterName,
		Events:      events,
	}

	key := cacheKey(artifactPath, adapterName)
	data, err := sonic.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.entryPath(key), data, 0644); err != nil {
		return err
	}

	c.memory[key] = entry
	return nil
}

// Clear drops the memory cache and removes every persisted entry.
func (c *ArtifactCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memory = make(map[string]*Entry)

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			os.Remove(filepath.Join(c.baseDir, e.Name()))
		}
	}
	return nil
}

// Preload loads every persisted entry that still validates. Invalid entries
// stay on disk; the next Set for their artifact overwrites them.
func (c *ArtifactCache) Preload() error {
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return fmt.Errorf("failed to scan cache directory: %w", err)
	}

	loaded, invalid := 0, 0
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		key := strings.TrimSuffix(e.Name(), ".json")

		data, err := os.ReadFile(filepath.Join(c.baseDir, e.Name()))
		if err != nil {
			invalid++
			continue
		}
		var entry Entry
		if err := sonic.Unmarshal(data, &entry); err != nil {
			invalid++
			continue
		}
		if v := c.validate(&entry); !v.cached {
			invalid++
			continue
		}
		c.memory[key] = &entry
		loaded++
	}

	util.LogDebug(fmt.Sprintf("Cache preload complete: %d loaded, %d invalid", loaded, invalid))
	return nil
}

// Stats reports entry counts for the in-memory and on-disk layers.
func (c *ArtifactCache) Stats() (memoryCount, fileCount int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	memoryCount = len(c.memory)
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return memoryCount, 0
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			fileCount++
		}
	}
	return memoryCount, fileCount
}

func (c *ArtifactCache) entryPath(key string) string {
	return filepath.Join(c.baseDir, key+".json")
}
