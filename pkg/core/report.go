package core

// Status is the outcome of processing one model.
type Status string

// Result statuses.
const (
	StatusUpdated   Status = "updated"
	StatusPreviewed Status = "previewed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Result records what happened to a single model during a run.
type Result struct {
	Model     string `json:"model" yaml:"model"`
	Table     string `json:"table,omitempty" yaml:"table,omitempty"`
	File      string `json:"file,omitempty" yaml:"file,omitempty"`
	Status    Status `json:"status" yaml:"status"`
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Columns   int    `json:"columns" yaml:"columns"`
	Relations int    `json:"relations" yaml:"relations"`
	Block     string `json:"block,omitempty" yaml:"block,omitempty"`
}

// Report is the outcome of a run.
type Report struct {
	RunID   string   `json:"run_id" yaml:"run_id"`
	DryRun  bool     `json:"dry_run" yaml:"dry_run"`
	Sort    string   `json:"sort" yaml:"sort"`
	Results []Result `json:"results" yaml:"results"`
}

// Add appends a result.
func (r *Report) Add(res Result) {
	r.Results = append(r.Results, res)
}

// Count returns the number of results with the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Failed reports whether any model failed.
func (r *Report) Failed() bool {
	return r.Count(StatusFailed) > 0
}
