package engine

import (
	"sync/atomic"

	"github.com/Konsultn-Engineering/minorm/cache"
)

type counters struct {
	executed atomic.Int64
	failed   atomic.Int64
	rejected atomic.Int64
}

// Stats is a point-in-time view of engine activity.
type Stats struct {
	// Executed counts statements sent to the database.
	Executed int64
	// Failed counts statements the database returned an error for.
	Failed int64
	// Rejected counts calls that failed before reaching the database.
	Rejected int64
	// Statements is the number of cached statement heads.
	Statements int
	// Templates is the number of cached whole statements.
	Templates int
	Caches    []cache.StoreStats
}

func (e *Engine) Stats() Stats {
	return Stats{
		Executed:   e.stats.executed.Load(),
		Failed:     e.stats.failed.Load(),
		Rejected:   e.stats.rejected.Load(),
		Statements: e.statements.Len(),
		Templates:  e.statements.Templates(),
		Caches:     e.cache.Stats(),
	}
}
