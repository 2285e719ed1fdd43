package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText renders a human-readable summary: one line per instance, one
// per job, and the final verdict.
func (r *Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "run %s\n", r.RunID); err != nil {
		return err
	}
	for _, job := range r.Jobs {
		fmt.Fprintf(w, "job %-24s %s", job.Name, job.Status)
		if job.Gate {
			fmt.Fprint(w, "  (gate)")
		}
		fmt.Fprintln(w)
		if job.Error != "" {
			fmt.Fprintf(w, "    error: %s\n", job.Error)
		}
		for _, inst := range job.Instances {
			fmt.Fprintf(w, "    %-32s outcome=%s conclusion=%s", inst.ID, inst.Outcome, inst.Conclusion)
			if inst.ContinueOnError {
				fmt.Fprint(w, " continue-on-error")
			}
			fmt.Fprintln(w)
			if inst.Error != "" {
				fmt.Fprintf(w, "        error: %s\n", inst.Error)
			}
		}
	}
	_, err := fmt.Fprintf(w, "result: %s\n", r.Result)
	return err
}
