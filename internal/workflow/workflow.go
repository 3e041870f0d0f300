package workflow

import (
	"fmt"
	"sort"
	"sync"
)

// Step identifies one stage of the rank-verification procedure.
type Step int

const (
	StepIdentity Step = iota + 1
	StepRankClaim
	StepEvidence
	StepTableTest
	StepWitness
	StepReview
	StepApproval

	// TotalSteps is the last step; completing it completes the run.
	TotalSteps = int(StepApproval)
)

// Status describes a verification run's lifecycle.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// dependencies gates each step on the steps that must be complete first.
// Review needs the paperwork trail, approval needs everything.
var dependencies = map[Step][]Step{
	StepIdentity:  {},
	StepRankClaim: {StepIdentity},
	StepEvidence:  {StepIdentity, StepRankClaim},
	StepTableTest: {StepIdentity},
	StepWitness:   {StepIdentity},
	StepReview:    {StepIdentity, StepRankClaim, StepEvidence},
	StepApproval:  {StepIdentity, StepRankClaim, StepEvidence, StepTableTest, StepWitness, StepReview},
}

var (
	// ErrUnknownStep is returned for steps outside 1..TotalSteps.
	ErrUnknownStep = fmt.Errorf("workflow: unknown step")
	// ErrStepGated is returned when a step's dependencies are not complete.
	ErrStepGated = fmt.Errorf("workflow: step dependencies not complete")
)

// Run is an in-memory verification session. It lives for one procedure and is
// discarded afterwards; nothing here touches storage. Safe for concurrent use.
type Run struct {
	mu        sync.Mutex
	current   Step
	completed map[Step]bool
	// Results are keyed by step identity so a reordering of the procedure
	// can never silently misalign a result with the wrong step.
	results map[Step]any
	status  Status
}

// NewRun creates a fresh verification run positioned at the first step.
func NewRun() *Run {
	return &Run{
		current:   StepIdentity,
		completed: make(map[Step]bool),
		results:   make(map[Step]any),
		status:    StatusNotStarted,
	}
}

func validStep(step Step) bool {
	return step >= StepIdentity && int(step) <= TotalSteps
}

// CanProceed reports whether all of step's dependencies are complete.
func (r *Run) CanProceed(step Step) bool {
	if !validStep(step) {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canProceedLocked(step)
}

func (r *Run) canProceedLocked(step Step) bool {
	for _, dep := range dependencies[step] {
		if !r.completed[dep] {
			return false
		}
	}
	return true
}

// CompleteStep records the step's result and advances the run. The run is
// completed only when the final step finishes; completing earlier steps in any
// dependency-respecting order leaves it in progress.
func (r *Run) CompleteStep(step Step, result any) error {
	if !validStep(step) {
		return fmt.Errorf("%w: %d", ErrUnknownStep, step)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canProceedLocked(step) {
		return fmt.Errorf("%w: step %d", ErrStepGated, step)
	}

	r.completed[step] = true
	r.results[step] = result

	next := step + 1
	if int(next) > TotalSteps {
		next = Step(TotalSteps)
	}
	r.current = next

	if int(step) == TotalSteps {
		r.status = StatusCompleted
	} else {
		r.status = StatusInProgress
	}
	return nil
}

// GoToStep moves the cursor to step. When the step is gated the run is left
// untouched and an error is returned.
func (r *Run) GoToStep(step Step) error {
	if !validStep(step) {
		return fmt.Errorf("%w: %d", ErrUnknownStep, step)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canProceedLocked(step) {
		return fmt.Errorf("%w: step %d", ErrStepGated, step)
	}
	r.current = step
	return nil
}

// CurrentStep returns the cursor position.
func (r *Run) CurrentStep() Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Status returns the run's lifecycle status.
func (r *Run) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Result returns the recorded result for step, if any.
func (r *Run) Result(step Step) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.results[step]
	return result, ok
}

// CompletedSteps returns the completed steps in ascending order.
func (r *Run) CompletedSteps() []Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	steps := make([]Step, 0, len(r.completed))
	for step := range r.completed {
		steps = append(steps, step)
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i] < steps[j] })
	return steps
}
