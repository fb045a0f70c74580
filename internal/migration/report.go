package migration

import "fmt"

// Result is the outcome for one record of an input file.
type Result struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// Report collects per-record results for one import run.
type Report struct {
	Kind     string   `json:"kind"`
	Results  []Result `json:"results"`
	Accepted int      `json:"accepted"`
	Rejected int      `json:"rejected"`
}

func (r *Report) accept(index int, label string) {
	r.Results = append(r.Results, Result{Index: index, Label: label, Accepted: true})
	r.Accepted++
}

func (r *Report) reject(index int, label, reason string) {
	r.Results = append(r.Results, Result{Index: index, Label: label, Reason: reason})
	r.Rejected++
}

func (r Report) Summary() string {
	return fmt.Sprintf("%s: %d accepted, %d rejected", r.Kind, r.Accepted, r.Rejected)
}
