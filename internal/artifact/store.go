package artifact

type State uint8

const (
	StateLoaded State = iota
	StateDegraded
)

func (s State) String() string {
	if s == StateLoaded {
		return "ready"
	}
	return "degraded"
}

// Store holds the bundle the process scores with, or the reason it has none. A degraded store
// disables scoring while the rest of the service keeps serving.
type Store struct {
	path   string
	bundle *Bundle
	err    error
}

// Open loads the bundle at path. Failure does not return an error: the store comes back
// degraded and Err reports why.
func Open(path string) *Store {
	b, err := LoadFile(path)
	if err != nil {
		return &Store{path: path, err: err}
	}
	return &Store{path: path, bundle: b}
}

func NewStore(b *Bundle) *Store {
	if b == nil {
		return Degraded(nil)
	}
	return &Store{bundle: b}
}

func Degraded(err error) *Store {
	return &Store{err: err}
}

func (s *Store) Bundle() (*Bundle, bool) {
	if s == nil || s.bundle == nil {
		return nil, false
	}
	return s.bundle, true
}

func (s *Store) State() State {
	if _, ok := s.Bundle(); ok {
		return StateLoaded
	}
	return StateDegraded
}

func (s *Store) Err() error {
	if s == nil {
		return nil
	}
	return s.err
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}
