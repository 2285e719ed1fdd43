package executor

// Snapshot is a point-in-time view of run progress, served by the status
// endpoint while a run is in flight.
type Snapshot struct {
	Pending int `json:"pending"`
	Running int `json:"running"`
	Done    int `json:"done"`
	Total   int `json:"total"`
}

// Snapshot counts instance states. Safe to call concurrently with Run.
func (e *Executor) Snapshot() Snapshot {
	s := Snapshot{Total: e.total}
	for _, js := range e.jobs {
		for _, inst := range js.instances {
			switch execState(inst.state.Load()) {
			case stateRunning:
				s.Running++
			case stateDone:
				s.Done++
			default:
				s.Pending++
			}
		}
	}
	return s
}
