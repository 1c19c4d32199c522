package domain

import "sync"

// Report collects the reference events of one run.
// Safe for concurrent use, although a pass itself is sequential.
type Report struct {
	mu     sync.Mutex
	Input  string           `json:"input"`
	Output string           `json:"output,omitempty"`
	Events []ReferenceEvent `json:"events"`
}

// NewReport creates an empty report for the given input file.
func NewReport(input string) *Report {
	return &Report{Input: input, Events: []ReferenceEvent{}}
}

// Record appends an event.
func (r *Report) Record(e ReferenceEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, e)
}

// Count returns how many events ended with the given outcome.
func (r *Report) Count(o Outcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.Events {
		if e.Outcome == o {
			n++
		}
	}
	return n
}

// Counts returns the number of events per outcome.
func (r *Report) Counts() map[Outcome]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[Outcome]int)
	for _, e := range r.Events {
		out[e.Outcome]++
	}
	return out
}
