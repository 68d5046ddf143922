package app

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_RunsStepsInOrder(t *testing.T) {
	var steps []string

	op := Operation[int, int, int, string]{
		Name: "double",
		Validate: func(context.Context, int) error {
			steps = append(steps, "validate")
			return nil
		},
		Perform: func(_ context.Context, in int) (int, error) {
			steps = append(steps, "perform")
			return in * 2, nil
		},
		Verify: func(_ context.Context, _ int, performed int) (int, error) {
			steps = append(steps, "verify")
			return performed, nil
		},
		Archive: func(_ context.Context, _ int, verified int) (int, error) {
			steps = append(steps, "archive")
			return verified + 1, nil
		},
		Respond: func(_ context.Context, _ int, archived int) (string, error) {
			steps = append(steps, "respond")
			return strconv.Itoa(archived), nil
		},
	}

	out, err := Execute(context.Background(), NewExecutor(discardLogger()), op, 21)

	require.NoError(t, err)
	assert.Equal(t, "43", out, "respond sees the archived value")
	assert.Equal(t, []string{"validate", "perform", "verify", "archive", "respond"}, steps)
}

func TestExecute_StopsAtFailingStep(t *testing.T) {
	cause := errors.New("boom")
	archived := false

	op := Operation[int, int, int, int]{
		Name:    "failing",
		Perform: func(_ context.Context, in int) (int, error) { return in, nil },
		Verify: func(context.Context, int, int) (int, error) {
			return 0, cause
		},
		Archive: func(_ context.Context, _ int, v int) (int, error) {
			archived = true
			return v, nil
		},
	}

	_, err := Execute(context.Background(), NewExecutor(nil), op, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsExecutionError(err))
	assert.False(t, archived)

	step, ok := GetExecutionStep(err)
	require.True(t, ok)
	assert.Equal(t, StepVerify, step)
}

func TestExecute_NilStagesAreSkipped(t *testing.T) {
	op := Operation[int, int, int, int]{
		Name:    "respond-only",
		Respond: func(_ context.Context, in int, archived int) (int, error) { return in + archived, nil },
	}

	out, err := Execute(context.Background(), NewExecutor(nil), op, 5)

	require.NoError(t, err)
	assert.Equal(t, 5, out)
}

func TestExecute_ValidateFailureWrapsStep(t *testing.T) {
	op := Operation[int, int, int, int]{
		Name:     "validated",
		Validate: func(context.Context, int) error { return errors.New("bad input") },
		Perform: func(context.Context, int) (int, error) {
			t.Fatal("perform must not run")
			return 0, nil
		},
	}

	_, err := Execute(context.Background(), NewExecutor(discardLogger()), op, 0)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, StepValidate, execErr.Step)
	assert.Equal(t, "validated: validate failed: bad input", execErr.Error())
}

func TestGetExecutionStep_PlainError(t *testing.T) {
	_, ok := GetExecutionStep(errors.New("plain"))

	assert.False(t, ok)
	assert.False(t, IsExecutionError(errors.New("plain")))
}
