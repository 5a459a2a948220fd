// Package export defines the outbound snapshot export port.
package export

import (
	"context"

	"cebim/internal/core"
)

// SnapshotWriter replaces the previously exported state with a fresh
// snapshot. Implementations must tolerate being called repeatedly with the
// same data.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, snap core.Snapshot) error
}
