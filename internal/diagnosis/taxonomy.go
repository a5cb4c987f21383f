package diagnosis

// Misconception is a known wrong way of reading a quadratic.
type Misconception struct {
	ID          string
	Step        int
	Label       string
	Description string

	// Hint is shown to the student next to the wrong answer.
	Hint string
}

// registry is the package-level misconception registry, keyed by ID.
var registry map[string]*Misconception

// byStep indexes misconceptions by the step they occur in.
var byStep map[int][]*Misconception

func init() {
	registry = make(map[string]*Misconception, len(seedMisconceptions))
	byStep = make(map[int][]*Misconception)
	for i := range seedMisconceptions {
		m := &seedMisconceptions[i]
		registry[m.ID] = m
		byStep[m.Step] = append(byStep[m.Step], m)
	}
}

// GetMisconception returns a misconception by ID, or nil if not found.
func GetMisconception(id string) *Misconception {
	return registry[id]
}

// MisconceptionsByStep returns the misconceptions of one step in seed order.
func MisconceptionsByStep(step int) []*Misconception {
	return byStep[step]
}

// AllMisconceptions returns every misconception in seed order.
func AllMisconceptions() []*Misconception {
	out := make([]*Misconception, len(seedMisconceptions))
	for i := range seedMisconceptions {
		out[i] = &seedMisconceptions[i]
	}
	return out
}
