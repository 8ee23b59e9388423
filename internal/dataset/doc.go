// Package dataset loads the three tables behind the dashboard: the unified
// observation/event table, the forecast table and the event impact matrix.
//
// # Lifecycle
//
// The tables are read once per process. A Store wraps a Loader and hands out
// the same immutable Snapshot to every caller; a failed load is remembered
// and reported on every call until the process restarts.
//
//	store := dataset.NewStore(dataset.NewLoader(files, logger, metrics))
//	snap, err := store.Get(ctx)
//	if errors.Is(err, dataset.ErrDataUnavailable) {
//	    // render the error page
//	}
//
// # Partitions
//
// Partition splits the unified table on record_type into observations and
// events and derives the year of every row with ParseYear. Rows whose date
// cannot be parsed keep a nil Year and drop out of every year-scoped query.
package dataset
