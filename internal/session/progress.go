package session

import "slices"

// StepRecord tracks the submissions for one step. It is created on the
// first submission and cleared only by a full reset.
type StepRecord struct {
	Attempts      int    `json:"attempts"`
	WrongCount    int    `json:"wrongCount"`
	Correct       bool   `json:"correct"`
	LastInput     string `json:"lastInput,omitempty"`
	CorrectAnswer string `json:"correctAnswer,omitempty"`

	// Misconceptions lists the diagnosed misconception IDs, each once.
	Misconceptions []string `json:"misconceptions,omitempty"`
}

// Record adds one submission. Wrong and malformed inputs both count.
func (r *StepRecord) Record(correct bool, input, correctAnswer string) {
	r.Attempts++
	if !correct {
		r.WrongCount++
	}
	r.Correct = correct
	r.LastInput = input
	r.CorrectAnswer = correctAnswer
}

// AddMisconception records id unless it is already listed.
func (r *StepRecord) AddMisconception(id string) {
	if id == "" || slices.Contains(r.Misconceptions, id) {
		return
	}
	r.Misconceptions = append(r.Misconceptions, id)
}

// FirstTry reports whether the step was solved on its first attempt.
func (r StepRecord) FirstTry() bool {
	return r.Correct && r.Attempts == 1
}

// StepRecords maps step numbers 1–5 to their records.
type StepRecords map[int]StepRecord

// WrongCount returns the wrong count for step, zero when never attempted.
func (rs StepRecords) WrongCount(step int) int {
	return rs[step].WrongCount
}

// TotalWrong sums the wrong counts of the locally checked steps 1–4.
func (rs StepRecords) TotalWrong() int {
	total := 0
	for step := 1; step <= 4; step++ {
		total += rs.WrongCount(step)
	}
	return total
}

// Clone returns an independent copy.
func (rs StepRecords) Clone() StepRecords {
	out := make(StepRecords, len(rs))
	for k, v := range rs {
		v.Misconceptions = slices.Clone(v.Misconceptions)
		out[k] = v
	}
	return out
}
