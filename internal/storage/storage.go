package storage

// SeenSet tracks config IDs that were already announced.
// It lives for the process lifetime and is not safe for concurrent use:
// only the poll loop owns it.
type SeenSet struct {
	ids      map[string]struct{}
	order    []string // insertion order, used only when capacity > 0
	capacity int
}

// NewSeenSet creates an empty set. capacity <= 0 means unbounded;
// otherwise the oldest IDs are evicted first once the bound is reached.
func NewSeenSet(capacity int) *SeenSet {
	if capacity < 0 {
		capacity = 0
	}
	return &SeenSet{
		ids:      make(map[string]struct{}),
		capacity: capacity,
	}
}

// IsNovel reports whether id has not been marked yet
func (s *SeenSet) IsNovel(id string) bool {
	_, ok := s.ids[id]
	return !ok
}

// MarkSeen records id. Marking an ID twice is a no-op.
func (s *SeenSet) MarkSeen(id string) {
	if _, ok := s.ids[id]; ok {
		return
	}
	s.ids[id] = struct{}{}

	if s.capacity == 0 {
		return
	}
	s.order = append(s.order, id)
	for len(s.order) > s.capacity {
		delete(s.ids, s.order[0])
		s.order = s.order[1:]
	}
}

// Len returns the number of tracked IDs
func (s *SeenSet) Len() int {
	return len(s.ids)
}
