// Package status defines the terminal result vocabulary of a pipeline run
// and the fan-in rules that fold instance results into job results and job
// results into the pipeline verdict.
//
// # Outcome vs. Conclusion
//
// Every job instance records two values of the same type:
//
//   - Outcome: the raw terminal result of actually running the instance's
//     steps (or Skipped/Cancelled when the steps never ran).
//   - Conclusion: the outcome after the continue-on-error override. A
//     tolerated failure has Outcome=Failure but Conclusion=Success.
//
// Dependents only ever observe conclusions; the raw outcome survives in
// the run report. Both are write-once.
package status
