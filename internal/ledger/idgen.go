package ledger

import (
	"strconv"
	"sync"
	"time"
)

// IDSource hands out identifiers from the millisecond clock, forced to be
// strictly increasing so two entities created in the same millisecond never
// collide.
type IDSource struct {
	mu   sync.Mutex
	last int64
}

func NewIDSource() *IDSource {
	return &IDSource{}
}

func (s *IDSource) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := time.Now().UnixMilli()
	if n <= s.last {
		n = s.last + 1
	}
	s.last = n
	return strconv.FormatInt(n, 10)
}
