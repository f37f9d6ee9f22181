package analyzer

import (
	"fmt"

	"github.com/droidsleuth/go-droid-timeline/internal/data/cache"
	"github.com/droidsleuth/go-droid-timeline/internal/util"
)

func cacheMissReasonString(r cache.MissReason) string {
	switch r {
	case cache.MissReasonNone:
		return "none"
	case cache.MissReasonNotFound:
		return "Cache not found"
	case cache.MissReasonError:
		return "Cache read error"
	case cache.MissReasonSize:
		return "File size changed"
	case cache.MissReasonModTime:
		return "Modification time changed"
	case cache.MissReasonFingerprint:
		return "File fingerprint changed"
	default:
		return "Unknown reason"
	}
}

// cacheStats tracks per-run cache effectiveness for debug logging.
type cacheStats struct {
	hits   int
	misses int
}

func (cs *cacheStats) recordHit(artifact string) {
	cs.hits++
	util.LogDebug(fmt.Sprintf("Cache hit for artifact: %s", artifact))
}

func (cs *cacheStats) recordMiss(artifact string, reason cache.MissReason) {
	cs.misses++
	util.LogDebug(fmt.Sprintf("Cache miss for artifact %s: %s", artifact, cacheMissReasonString(reason)))
}

func (cs *cacheStats) logSummary() {
	total := cs.hits + cs.misses
	if total == 0 {
		return
	}
	util.LogDebug(fmt.Sprintf("Cache statistics: %d/%d hits (%.0f%%)",
		cs.hits, total, float64(cs.hits)/float64(total)*100))
}
