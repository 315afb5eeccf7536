package model

// History is an immutable snapshot of win/loss results, oldest first.
// The zero value is an empty history.
type History struct {
	results []bool
}

// NewHistory copies results into a new History.
func NewHistory(results []bool) History {
	if len(results) == 0 {
		return History{}
	}
	out := make([]bool, len(results))
	copy(out, results)
	return History{results: out}
}

// Len returns the number of settled rounds.
func (h History) Len() int { return len(h.results) }

// At returns the result of the i-th settled round. It panics if i is out of range.
func (h History) At(i int) bool { return h.results[i] }

// Last returns the most recent result; ok is false on an empty history.
func (h History) Last() (won, ok bool) {
	if len(h.results) == 0 {
		return false, false
	}
	return h.results[len(h.results)-1], true
}

// Wins counts winning rounds.
func (h History) Wins() int {
	n := 0
	for _, r := range h.results {
		if r {
			n++
		}
	}
	return n
}

// Losses counts losing rounds.
func (h History) Losses() int { return len(h.results) - h.Wins() }

// Results returns a copy of the underlying results.
func (h History) Results() []bool {
	out := make([]bool, len(h.results))
	copy(out, h.results)
	return out
}
