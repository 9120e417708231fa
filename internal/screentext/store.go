package screentext

// Store owns the live and staging grids. Live is replaced only as a whole by
// Commit; staging is written line by line and never rendered.
type Store struct {
	live    Grid
	staging Grid
}

func NewStore() *Store {
	return &Store{}
}

// WriteStaging overwrites staging row i with src. It returns false and writes
// nothing when i is out of range.
func (s *Store) WriteStaging(i int, src []byte) bool {
	l, ok := s.staging.Row(i)
	if !ok {
		return false
	}
	l.Set(src)
	return true
}

// ResetStaging zeroes the staging grid.
func (s *Store) ResetStaging() {
	s.staging = Grid{}
}

// Commit copies staging into live and clears staging.
func (s *Store) Commit() {
	s.live = s.staging
	s.staging = Grid{}
}

// ClearAll zeroes both grids.
func (s *Store) ClearAll() {
	s.live = Grid{}
	s.staging = Grid{}
}

// Live returns a copy of the live grid.
func (s *Store) Live() Grid {
	return s.live
}

// Staging returns a copy of the staging grid.
func (s *Store) Staging() Grid {
	return s.staging
}

// SetLiveRow writes text directly into live row i. Only used for notices
// that bypass the transfer protocol.
func (s *Store) SetLiveRow(i int, text string) bool {
	l, ok := s.live.Row(i)
	if !ok {
		return false
	}
	l.Set([]byte(text))
	return true
}
