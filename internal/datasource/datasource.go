// Package datasource materializes historical bars for a walk-forward run.
// It is the only place that performs I/O; the simulator receives the loaded
// bars and never reads files itself.
package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
)

// Query selects the bars to load. Unset fields do not filter.
type Query struct {
	Symbol optional.Option[string]
	Start  optional.Option[time.Time]
	End    optional.Option[time.Time]
}

// Loader reads OHLCV files and returns daily bars.
type Loader interface {
	// Initialize registers the file at path (parquet or CSV) as the bar source.
	Initialize(path string) error
	// Load returns one bar per calendar day in ascending date order. Intraday
	// rows are folded into daily bars.
	Load(q Query) ([]types.Bar, error)
	// Count returns the number of raw rows matching q.
	Count(q Query) (int, error)
	// Symbols lists the distinct symbols in the source, if it has a symbol column.
	Symbols() ([]string, error)
	// Close releases the underlying database.
	Close() error
}
