package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/user-sync-service/internal/platform/logging"
)

// Imports from GoREST run as a fixed sequence of steps:
//
//	validate → perform → verify → archive → respond
//
// Nothing is written before verify accepts what perform produced, so a
// remote that answers with the wrong record or an invalid one leaves the
// store untouched.

// ExecutionStep names one stage of an Operation.
type ExecutionStep string

// Operation stages, in execution order.
const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records the stage at which an Operation stopped.
// Unwrap exposes the stage's own error, so domain classification with
// errors.Is and errors.As still works on it.
type ExecutionError struct {
	Operation string
	Step      ExecutionStep
	Cause     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Operation, e.Step, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Operation holds the stage functions for one unit of work. I is the
// input, P what perform produced, V the verified (and then archived)
// value, O the caller's result. Nil stages are skipped; a skipped stage
// passes the zero value on.
type Operation[I, P, V, O any] struct {
	Name string

	Validate func(ctx context.Context, in I) error
	Perform  func(ctx context.Context, in I) (P, error)
	Verify   func(ctx context.Context, in I, performed P) (V, error)
	// Archive persists the verified value and returns what was stored.
	Archive func(ctx context.Context, in I, verified V) (V, error)
	Respond func(ctx context.Context, in I, archived V) (O, error)
}

// Executor runs Operations with per-stage logging.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor returns an Executor that logs to logger when the request
// context carries none.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

func (e *Executor) loggerFor(ctx context.Context, name string) *slog.Logger {
	logger, ok := logging.Lookup(ctx)
	if !ok {
		logger = e.logger
	}

	return logger.With(slog.String("operation", name))
}

// Execute runs op on in. The first failing stage ends the run and its
// error is returned inside an *ExecutionError.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], in I) (O, error) {
	var (
		out       O
		performed P
		verified  V
		err       error
	)

	logger := exec.loggerFor(ctx, op.Name)
	start := time.Now()

	stage := func(step ExecutionStep, run func() error) error {
		logger.DebugContext(ctx, "running step", slog.String("step", string(step)))

		if runErr := run(); runErr != nil {
			level := slog.LevelError
			if step == StepValidate {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "step failed", slog.String("step", string(step)), slog.Any("error", runErr))

			return &ExecutionError{Operation: op.Name, Step: step, Cause: runErr}
		}

		return nil
	}

	steps := []struct {
		step ExecutionStep
		run  func() error
	}{
		{StepValidate, func() error {
			if op.Validate == nil {
				return nil
			}
			return op.Validate(ctx, in)
		}},
		{StepPerform, func() error {
			if op.Perform != nil {
				performed, err = op.Perform(ctx, in)
			}
			return err
		}},
		{StepVerify, func() error {
			if op.Verify != nil {
				verified, err = op.Verify(ctx, in, performed)
			}
			return err
		}},
		{StepArchive, func() error {
			if op.Archive != nil {
				verified, err = op.Archive(ctx, in, verified)
			}
			return err
		}},
		{StepRespond, func() error {
			if op.Respond != nil {
				out, err = op.Respond(ctx, in, verified)
			}
			return err
		}},
	}

	for _, s := range steps {
		if stepErr := stage(s.step, s.run); stepErr != nil {
			var zero O
			return zero, stepErr
		}
	}

	logger.InfoContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return out, nil
}

// IsExecutionError reports whether err came out of Execute.
func IsExecutionError(err error) bool {
	_, ok := GetExecutionStep(err)
	return ok
}

// GetExecutionStep returns the stage at which err stopped an Operation.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
