package aggregator

import "github.com/sirupsen/logrus"

// Stats counts what happened to the videos of one run.
type Stats struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Degraded  int `json:"degraded"`

	// Interrupted is set when the run stopped before the last video.
	Interrupted bool `json:"interrupted"`
}

// Fields renders the stats for a run summary log line.
func (s Stats) Fields() logrus.Fields {
	return logrus.Fields{
		"processed":   s.Processed,
		"skipped":     s.Skipped,
		"degraded":    s.Degraded,
		"interrupted": s.Interrupted,
	}
}

// Accumulator collects output rows in processing order. It is not safe for
// concurrent use; runs are sequential.
type Accumulator[R any] struct {
	rows  []R
	stats Stats
}

func New[R any]() *Accumulator[R] {
	return &Accumulator[R]{}
}

// Add appends a row. degraded marks rows holding a sentinel instead of model output.
func (a *Accumulator[R]) Add(row R, degraded bool) {
	a.rows = append(a.rows, row)
	a.stats.Processed++
	if degraded {
		a.stats.Degraded++
	}
}

// Interrupt marks the run as cut short.
func (a *Accumulator[R]) Interrupt() {
	a.stats.Interrupted = true
}

// Skip records a video that produced no row.
func (a *Accumulator[R]) Skip() {
	a.stats.Skipped++
}

func (a *Accumulator[R]) Len() int {
	return len(a.rows)
}

// Rows returns a copy of the collected rows.
func (a *Accumulator[R]) Rows() []R {
	out := make([]R, len(a.rows))
	copy(out, a.rows)
	return out
}

func (a *Accumulator[R]) Stats() Stats {
	return a.stats
}

// Flatten expands every row into spreadsheet rows with fn.
func Flatten[R any](rows []R, fn func(R) [][]any) [][]any {
	var out [][]any
	for _, r := range rows {
		out = append(out, fn(r)...)
	}
	return out
}
