package app

import (
	"sync"

	"hotel_curator/internal/domain"
)

// Sessions parks drafted ReviewStates while they wait at the human gate.
// One pending state per hotel id; the single-reviewer model needs no more.
type Sessions struct {
	mu      sync.Mutex
	pending map[int64]*domain.ReviewState
}

func NewSessions() *Sessions {
	return &Sessions{pending: make(map[int64]*domain.ReviewState)}
}

func (s *Sessions) Put(st *domain.ReviewState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[st.HotelID] = st
}

func (s *Sessions) Get(hotelID int64) (*domain.ReviewState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.pending[hotelID]
	return st, ok
}

// Take removes and returns the pending state so a decision is applied once.
func (s *Sessions) Take(hotelID int64) (*domain.ReviewState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.pending[hotelID]
	if ok {
		delete(s.pending, hotelID)
	}
	return st, ok
}

func (s *Sessions) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = make(map[int64]*domain.ReviewState)
}
