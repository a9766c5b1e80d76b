// Package contract defines configuration, interfaces and shared helpers used
// across the debtsession engine.
package contract

import (
	"context"

	"github.com/huangsam/debtsession/schema"
)

// Snapshot is an abstract read-only view of a codebase. The host decides how
// units are enumerated (filesystem walk or a pre-extracted unit list); the
// engine never writes to source files.
type Snapshot interface {
	// List returns the identifiers of all units in the snapshot.
	List(ctx context.Context) ([]string, error)

	// Measure computes structural metrics for one unit. A failure affects
	// only that unit; the collector records it with an error marker.
	Measure(ctx context.Context, id string) (schema.UnitMetrics, error)
}

// SessionStore persists session records as a sequence of immutable snapshots.
// The workflow state machine is the only writer; archived snapshots are safe
// for concurrent external reads.
type SessionStore interface {
	// Append persists one immutable snapshot of the record.
	Append(rec schema.SessionRecord) error

	// Latest returns the most recently appended snapshot, or
	// schema.ErrNoSession when the store is empty.
	Latest() (schema.SessionRecord, error)

	// History returns all snapshots for a session in append order.
	History(sessionID string) ([]schema.SessionRecord, error)

	// List returns condensed summaries of all snapshots in append order.
	List() ([]schema.SessionSummary, error)

	// Status returns backend status information.
	Status() (schema.StoreStatus, error)

	// Clear removes all snapshots.
	Clear() error

	// Close releases the underlying connection.
	Close() error
}
