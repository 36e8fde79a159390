package genai

import (
	"context"
	"errors"
	"testing"

	"lead-radar/internal/models"
)

// scriptedClassifier returns the queued responses in order, one per call.
type scriptedClassifier struct {
	calls     int
	responses []func() (Result, Usage, error)
}

func (s *scriptedClassifier) Evaluate(ctx context.Context, payload Payload) (Result, Usage, error) {
	idx := s.calls
	s.calls++
	if idx >= len(s.responses) {
		return Result{}, Usage{}, errors.New("no scripted response left")
	}
	return s.responses[idx]()
}

func TestEvaluateWithRetry(t *testing.T) {
	success := func() (Result, Usage, error) {
		return Result{Relevant: 1, DraftResponse: "Hi!"}, Usage{TokensIn: 100, TokensOut: 20}, nil
	}
	failure := func() (Result, Usage, error) {
		return Result{}, Usage{}, errors.New("upstream timeout")
	}

	t.Run("first attempt succeeds", func(t *testing.T) {
		classifier := &scriptedClassifier{responses: []func() (Result, Usage, error){success}}
		outcome := EvaluateWithRetry(context.Background(), classifier, Payload{})

		if classifier.calls != 1 {
			t.Errorf("Expected 1 call, got %d", classifier.calls)
		}
		if outcome.Degraded() {
			t.Error("Expected a successful outcome")
		}
		if outcome.Result.Relevant != 1 {
			t.Errorf("Expected relevant=1, got %d", outcome.Result.Relevant)
		}
	})

	t.Run("retry once then succeed", func(t *testing.T) {
		classifier := &scriptedClassifier{responses: []func() (Result, Usage, error){failure, success}}
		outcome := EvaluateWithRetry(context.Background(), classifier, Payload{})

		if classifier.calls != 2 {
			t.Errorf("Expected 2 calls, got %d", classifier.calls)
		}
		if outcome.Degraded() {
			t.Error("Expected the retry to recover")
		}
		if outcome.Status != models.EvalStatusSuccess {
			t.Errorf("Expected success status, got %q", outcome.Status)
		}
	})

	t.Run("both attempts fail degrades to non-relevant", func(t *testing.T) {
		classifier := &scriptedClassifier{responses: []func() (Result, Usage, error){failure, failure}}
		outcome := EvaluateWithRetry(context.Background(), classifier, Payload{})

		if classifier.calls != 2 {
			t.Errorf("Expected exactly 2 calls, got %d", classifier.calls)
		}
		if !outcome.Degraded() {
			t.Error("Expected a degraded outcome")
		}
		if outcome.Result.Relevant != 0 {
			t.Errorf("Expected synthesized relevant=0, got %d", outcome.Result.Relevant)
		}
		if outcome.Result.DraftResponse != "" || len(outcome.Result.DetectionItems) != 0 {
			t.Errorf("Expected empty degraded result, got %+v", outcome.Result)
		}
		if outcome.Err == nil {
			t.Error("Expected the final error to be carried")
		}
	})
}
