// Package merger folds per-adapter event slices into the single
// chronological stream the rest of the pipeline operates on.
package merger

import (
	"sort"

	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
	"github.com/droidsleuth/go-droid-timeline/internal/util"
)

// Merge concatenates the per-source slices, drops events whose timestamp
// never resolved, and sorts ascending. The sort is stable so that events
// sharing a timestamp keep their source order.
func Merge(sources ...[]model.Event) []model.Event {
	total := 0
	for _, s := range sources {
		total += len(s)
	}

	merged := make([]model.Event, 0, total)
	dropped := 0
	for _, s := range sources {
		for _, e := range s {
			if e.Timestamp.IsZero() {
				dropped++
				continue
			}
			merged = append(merged, e)
		}
	}
	if dropped > 0 {
		util.LogWarnf("Dropped %d events with unresolved timestamps during merge", dropped)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp.Time)
	})
	return merged
}
