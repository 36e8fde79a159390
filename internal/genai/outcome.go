package genai

import (
	"context"

	"lead-radar/internal/models"
)

// Outcome is the explicit result of one gated classification attempt:
// either the service's validated verdict, or a synthesized non-relevant
// default after the single identical retry also failed. Propagating this
// as a value means callers cannot forget the degraded path.
type Outcome struct {
	Result Result
	Usage  Usage
	Status string // models.EvalStatusSuccess or models.EvalStatusFailed
	Err    error  // set only when degraded
}

// Degraded reports whether the outcome carries the synthesized default
// rather than a real verdict.
func (o Outcome) Degraded() bool {
	return o.Status == models.EvalStatusFailed
}

// EvaluateWithRetry invokes the classifier exactly once and, on failure,
// retries exactly once with the identical payload. No backoff and no
// payload mutation between attempts. If both attempts fail, the outcome
// degrades to relevant=0 with no draft and no detections, carrying the
// final error.
func EvaluateWithRetry(ctx context.Context, classifier Classifier, payload Payload) Outcome {
	result, usage, err := classifier.Evaluate(ctx, payload)
	if err == nil {
		return Outcome{Result: result, Usage: usage, Status: models.EvalStatusSuccess}
	}

	result, usage, err = classifier.Evaluate(ctx, payload)
	if err == nil {
		return Outcome{Result: result, Usage: usage, Status: models.EvalStatusSuccess}
	}

	return Outcome{
		Result: Result{Relevant: 0},
		Usage:  usage,
		Status: models.EvalStatusFailed,
		Err:    err,
	}
}
