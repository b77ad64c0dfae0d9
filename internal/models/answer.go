package models

import (
	"time"
)

// CycleState is a step of one question-answering cycle.
type CycleState string

const (
	StateIdle              CycleState = "idle"
	StatePromptBuilt       CycleState = "prompt_built"
	StateModelCalled       CycleState = "model_called"
	StateModelError        CycleState = "model_error"
	StateSQLReceived       CycleState = "sql_received"
	StateSanitized         CycleState = "sanitized"
	StateParseExecuteError CycleState = "parse_execute_error"
	StateResultReady       CycleState = "result_ready"
	StatePresented         CycleState = "presented"
)

// allowed lists the legal successors of each state.
var allowed = map[CycleState][]CycleState{
	StateIdle:        {StatePromptBuilt, StateSanitized},
	StatePromptBuilt: {StateModelCalled},
	StateModelCalled: {StateModelError, StateSQLReceived},
	StateSQLReceived: {StateSanitized},
	StateSanitized:   {StateParseExecuteError, StateResultReady},
	StateResultReady: {StatePresented},
}

// ResultSet is the tabular output of a query.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Answer is the outcome of one question cycle.
type Answer struct {
	RequestID string        `json:"request_id"`
	Question  string        `json:"question"`
	SQL       string        `json:"sql"`
	State     CycleState    `json:"state"`
	Result    *ResultSet    `json:"result,omitempty"`
	Fallback  bool          `json:"fallback"`
	Cached    bool          `json:"cached"`
	Error     string        `json:"error,omitempty"`
	Citations []Citation    `json:"citations"`
	Duration  time.Duration `json:"duration_ns"`

	// Err is the failure behind Error, for errors.Is checks in process.
	Err error `json:"-"`
}

// NewAnswer starts a cycle in StateIdle.
func NewAnswer(requestID, question string, citations []Citation) *Answer {
	return &Answer{
		RequestID: requestID,
		Question:  question,
		State:     StateIdle,
		Citations: citations,
	}
}

// Transition moves the answer to next. Illegal transitions are rejected with a
// *TransitionError and leave the state unchanged.
func (a *Answer) Transition(next CycleState) error {
	for _, s := range allowed[a.State] {
		if s == next {
			a.State = next
			return nil
		}
	}
	return &TransitionError{From: a.State, To: next}
}

// Terminal reports whether the cycle can make no further progress.
func (a *Answer) Terminal() bool {
	switch a.State {
	case StateModelError, StateParseExecuteError, StatePresented:
		return true
	}
	return false
}

// Succeeded reports whether a real (non-fallback) result was produced.
func (a *Answer) Succeeded() bool {
	return (a.State == StateResultReady || a.State == StatePresented) && !a.Fallback
}

// SetError records err as the cycle's failure.
func (a *Answer) SetError(err error) {
	a.Err = err
	a.Error = err.Error()
}

// MarkPresented records that a front end rendered a successful result.
// It is a no-op for error states, which end the cycle on their own.
func (a *Answer) MarkPresented() {
	if a.State == StateResultReady {
		a.State = StatePresented
	}
}
