// Package memory holds exported snapshots in memory, used in tests and when
// no spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"cebim/internal/core"
	ports "cebim/internal/export"
)

type Writer struct {
	mu     sync.Mutex
	last   core.Snapshot
	writes int
}

var _ ports.SnapshotWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

func (w *Writer) WriteSnapshot(_ context.Context, snap core.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = snap
	w.writes++
	return nil
}

// Last returns the most recently written snapshot.
func (w *Writer) Last() core.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Writes returns how many snapshots have been written.
func (w *Writer) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}
