package controller

import "sync"

// SyncController wraps a Controller with a single mutex so host-side key
// polling (Set) and the emulation thread's bus reads (Read) can run on
// separate goroutines. Per spec.md §9 ("Controller as shared state"), the
// emulation thread locks it exactly once per Read call and releases
// immediately — no lock is ever held across a blocking operation.
type SyncController struct {
	mu   sync.Mutex
	inner Controller
}

// NewSyncController wraps an existing Controller (typically a
// *GenericController) for cross-goroutine use.
func NewSyncController(inner Controller) *SyncController {
	return &SyncController{inner: inner}
}

func (s *SyncController) Read() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Read()
}

func (s *SyncController) Set(b Button, pressed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Set(b, pressed)
}

func (s *SyncController) Clock() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Clock()
}

func (s *SyncController) SetClock(v uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.SetClock(v)
}
