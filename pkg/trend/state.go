package trend

// slot names one remembered quantity of a stateful trend.
type slot uint8

const (
	slotLast slot = iota
	slotCenter
	slotMidpoint
)

type stateKey struct {
	key  string
	kind Kind
	slot slot
	zone int
}

// State is the memory that stateful trends carry from one depth to the
// next. Entries are keyed by parameter, trend and slot, and by zone for
// shapes scoped to a single zone, so two parameters never share memory.
// A State belongs to exactly one generation run.
type State struct {
	values map[stateKey]float64
}

// NewState returns an empty State.
func NewState() *State {
	return &State{values: make(map[stateKey]float64)}
}

// Len returns the number of remembered values.
func (s *State) Len() int {
	return len(s.values)
}

// Reset forgets everything.
func (s *State) Reset() {
	clear(s.values)
}

func (s *State) get(k stateKey) (float64, bool) {
	v, ok := s.values[k]
	return v, ok
}

func (s *State) set(k stateKey, v float64) {
	s.values[k] = v
}

// once returns the remembered value for k, computing and storing it with
// init on first use.
func (s *State) once(k stateKey, init func() float64) float64 {
	if v, ok := s.values[k]; ok {
		return v
	}
	v := init()
	s.values[k] = v
	return v
}
