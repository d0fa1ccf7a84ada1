package fn

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// tracerName identifies spans Pipeline emits under this module, not the
// package path they were adapted from.
const tracerName = "github.com/4thel00z/slurp-go/internal/fn"

// Stage is a function that transforms In to Out within a context.
type Stage[In, Out any] func(context.Context, In) Result[Out]

// Pipeline composes same-typed stages into one, running each under its
// own child span and short-circuiting on the first error.
func Pipeline[T any](stages ...Stage[T, T]) Stage[T, T] {
	return func(ctx context.Context, t T) Result[T] {
		r := Ok(t)
		for _, s := range stages {
			if r.IsErr() {
				return r
			}
			v, _ := r.Unwrap()
			stageCtx, span := otel.Tracer(tracerName).Start(ctx, "pipeline.stage")
			r = s(stageCtx, v)
			if r.IsErr() {
				_, err := r.Unwrap()
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			span.End()
		}
		return r
	}
}
