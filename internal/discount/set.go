package discount

// Set holds discount codes and their percent-off values.
type Set interface {
	// Lookup returns the percent off for a code, or false when the code
	// is unknown.
	Lookup(code string) (float64, bool)

	// Size returns the number of codes in the set.
	Size() int
}

// mapSet implements Set with a plain map for O(1) lookups.
type mapSet struct {
	codes map[string]float64
}

// NewMapSet creates a new map-based discount set.
func NewMapSet(capacity int) *mapSet {
	return &mapSet{codes: make(map[string]float64, capacity)}
}

func (s *mapSet) Lookup(code string) (float64, bool) {
	pct, ok := s.codes[code]
	return pct, ok
}

func (s *mapSet) Size() int {
	return len(s.codes)
}

// Add registers a code with its percent-off value.
func (s *mapSet) Add(code string, percent float64) {
	s.codes[code] = percent
}
