package workflow_test

import (
	"testing"

	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRun(t *testing.T) {
	run := workflow.NewRun()
	assert.Equal(t, workflow.StatusNotStarted, run.Status())
	assert.Equal(t, workflow.StepIdentity, run.CurrentStep())
	assert.True(t, run.CanProceed(workflow.StepIdentity), "the first step has no dependencies")
	assert.False(t, run.CanProceed(workflow.StepRankClaim))
}

func TestReviewGatedOnPaperTrail(t *testing.T) {
	run := workflow.NewRun()

	require.NoError(t, run.CompleteStep(workflow.StepIdentity, "ok"))
	require.NoError(t, run.CompleteStep(workflow.StepRankClaim, "H+"))
	assert.False(t, run.CanProceed(workflow.StepReview), "review needs evidence as well")

	require.NoError(t, run.CompleteStep(workflow.StepEvidence, "photos"))
	assert.True(t, run.CanProceed(workflow.StepReview))
}

func TestCompleteStepRejectedWhenGated(t *testing.T) {
	run := workflow.NewRun()

	err := run.CompleteStep(workflow.StepReview, "too early")
	assert.ErrorIs(t, err, workflow.ErrStepGated)
	assert.Equal(t, workflow.StatusNotStarted, run.Status())
	_, ok := run.Result(workflow.StepReview)
	assert.False(t, ok, "a rejected completion must not record a result")
}

func TestGoToStepRejectedWithoutStateChange(t *testing.T) {
	run := workflow.NewRun()
	require.NoError(t, run.CompleteStep(workflow.StepIdentity, "ok"))

	before := run.CurrentStep()
	err := run.GoToStep(workflow.StepApproval)
	assert.ErrorIs(t, err, workflow.ErrStepGated)
	assert.Equal(t, before, run.CurrentStep())

	require.NoError(t, run.GoToStep(workflow.StepTableTest))
	assert.Equal(t, workflow.StepTableTest, run.CurrentStep())
}

func TestApprovalCompletesTheRun(t *testing.T) {
	run := workflow.NewRun()

	// Dependency-respecting but non-sequential order.
	order := []workflow.Step{
		workflow.StepIdentity,
		workflow.StepWitness,
		workflow.StepRankClaim,
		workflow.StepTableTest,
		workflow.StepEvidence,
		workflow.StepReview,
	}
	for _, step := range order {
		require.NoError(t, run.CompleteStep(step, int(step)))
		assert.Equal(t, workflow.StatusInProgress, run.Status())
	}

	require.NoError(t, run.CompleteStep(workflow.StepApproval, "approved"))
	assert.Equal(t, workflow.StatusCompleted, run.Status())
	assert.Equal(t, workflow.StepApproval, run.CurrentStep(), "the cursor never advances past the last step")

	result, ok := run.Result(workflow.StepApproval)
	require.True(t, ok)
	assert.Equal(t, "approved", result)
	assert.Len(t, run.CompletedSteps(), 7)
}

func TestResultsKeyedByStep(t *testing.T) {
	run := workflow.NewRun()
	require.NoError(t, run.CompleteStep(workflow.StepIdentity, "passport"))
	require.NoError(t, run.CompleteStep(workflow.StepTableTest, 42))

	result, ok := run.Result(workflow.StepTableTest)
	require.True(t, ok)
	assert.Equal(t, 42, result)

	result, ok = run.Result(workflow.StepIdentity)
	require.True(t, ok)
	assert.Equal(t, "passport", result)
}

func TestUnknownStep(t *testing.T) {
	run := workflow.NewRun()
	assert.False(t, run.CanProceed(0))
	assert.False(t, run.CanProceed(8))
	assert.ErrorIs(t, run.CompleteStep(0, nil), workflow.ErrUnknownStep)
	assert.ErrorIs(t, run.GoToStep(99), workflow.ErrUnknownStep)
}
