package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	t.Run("tolerated failure becomes success", func(t *testing.T) {
		assert.Equal(t, Success, Mask(Failure, true))
	})

	t.Run("untolerated failure stays failure", func(t *testing.T) {
		assert.Equal(t, Failure, Mask(Failure, false))
	})

	t.Run("non-failure outcomes pass through", func(t *testing.T) {
		assert.Equal(t, Success, Mask(Success, true))
		assert.Equal(t, Skipped, Mask(Skipped, true))
		assert.Equal(t, Cancelled, Mask(Cancelled, true))
	})
}

func TestJobStatusOf(t *testing.T) {
	t.Run("all success", func(t *testing.T) {
		assert.Equal(t, Success, JobStatusOf([]Status{Success, Success}))
	})

	t.Run("single failure forces job failure", func(t *testing.T) {
		assert.Equal(t, Failure, JobStatusOf([]Status{Success, Failure, Success, Success}))
	})

	t.Run("all skipped", func(t *testing.T) {
		assert.Equal(t, Skipped, JobStatusOf([]Status{Skipped, Skipped}))
	})

	t.Run("cancelled dominates success", func(t *testing.T) {
		assert.Equal(t, Cancelled, JobStatusOf([]Status{Success, Cancelled}))
	})

	t.Run("failure dominates cancelled", func(t *testing.T) {
		assert.Equal(t, Failure, JobStatusOf([]Status{Cancelled, Failure}))
	})

	t.Run("no instances means skipped", func(t *testing.T) {
		assert.Equal(t, Skipped, JobStatusOf(nil))
	})
}

func TestPipelineResultOf(t *testing.T) {
	assert.Equal(t, Success, PipelineResultOf([]Status{Success, Success}))
	assert.Equal(t, Failure, PipelineResultOf([]Status{Success, Failure}))
	assert.Equal(t, Failure, PipelineResultOf([]Status{Skipped}))
	assert.Equal(t, Failure, PipelineResultOf([]Status{Cancelled}))
	assert.Equal(t, Success, PipelineResultOf(nil))
}

func TestConclusionPredicates(t *testing.T) {
	needs := map[string]Status{"a": Success, "b": Failure, "c": Cancelled}

	assert.False(t, AllSuccess(needs))
	assert.True(t, AnyFailure(needs))
	assert.True(t, AnyCancelled(needs))

	allGood := map[string]Status{"a": Success, "b": Success}
	assert.True(t, AllSuccess(allGood))
	assert.False(t, AnyFailure(allGood))
	assert.False(t, AnyCancelled(allGood))

	t.Run("cancelled does not count as failure", func(t *testing.T) {
		cancelledOnly := map[string]Status{"a": Cancelled}
		assert.False(t, AnyFailure(cancelledOnly))
		assert.False(t, AllSuccess(cancelledOnly))
	})

	t.Run("skipped fails success checks", func(t *testing.T) {
		assert.False(t, AllSuccess(map[string]Status{"a": Skipped}))
	})
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "failure", Failure.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "cancelled", Cancelled.String())
}
