// Package adapter turns raw Android artifact files into partially-typed
// timeline events, one adapter per input format.
package adapter

import (
	"bufio"
	"os"

	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
)

// Adapter parses one artifact format into events. A missing input file is
// not an error: the adapter contributes zero events and the run continues,
// mirroring investigations where not every artifact is present.
type Adapter interface {
	Name() string
	Parse(path string) ([]model.Event, error)
}

// forEachLine streams a file line by line. It reports handled=false when the
// file does not exist so callers can no-op silently.
func forEachLine(path string, fn func(lineNum int, line string)) (handled bool, err error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fn(lineNum, scanner.Text())
	}
	return true, scanner.Err()
}

// dedupSet is the per-adapter emission-point deduplicator. Keys are built
// from human-meaningful fields plus the resolved timestamp; provenance
// fields never participate.
type dedupSet struct {
	seen map[string]struct{}
}

func newDedupSet() *dedupSet {
	return &dedupSet{seen: make(map[string]struct{})}
}

// insert reports true the first time a key is seen.
func (d *dedupSet) insert(key string) bool {
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

func dedupKey(e model.Event) string {
	return e.Content + "|" + e.Timestamp.String()
}
