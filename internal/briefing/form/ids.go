package form

import (
	"strconv"
	"sync"
	"time"
)

// IDSource hands out creation-timestamp row ids (unix milliseconds). Ids are
// strictly increasing per source, so two rows created in the same millisecond
// still get distinct ids.
type IDSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

// Observe raises the floor so future ids sort after an id already in a list
func (s *IDSource) Observe(id string) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	s.mu.Lock()
	if n > s.last {
		s.last = n
	}
	s.mu.Unlock()
}

// Next returns a fresh id
func (s *IDSource) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.now().UnixMilli()
	if n <= s.last {
		n = s.last + 1
	}
	s.last = n
	return strconv.FormatInt(n, 10)
}
