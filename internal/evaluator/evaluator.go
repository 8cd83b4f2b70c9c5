// Package evaluator runs one reasoning-engine call per dimension family.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/judge"
	"github.com/spboyer/ddbeval/internal/knowledge"
)

// RawOutputs are the engine's text outputs keyed by output field name.
type RawOutputs map[string]string

// Evaluator builds family requests and hands them to a judge engine. It holds
// no per-run state and is safe for concurrent use when its engine is.
type Evaluator struct {
	engine    judge.Engine
	knowledge knowledge.Source
}

func New(engine judge.Engine, source knowledge.Source) *Evaluator {
	return &Evaluator{engine: engine, knowledge: source}
}

// Evaluate scores section against the family's rubric. It makes exactly one
// engine call and never retries; failures wrap judge.ErrEngineInvocation.
func (e *Evaluator) Evaluate(ctx context.Context, family dimensions.Family, requirementSummary, section string) (RawOutputs, error) {
	req, err := e.Request(family, requirementSummary, section)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := e.engine.Evaluate(ctx, req)
	if err != nil {
		slog.Debug("Evaluation failed", "family", family, "duration", time.Since(start), "error", err)
		return nil, fmt.Errorf("%s evaluation: %w", family, asInvocationError(err))
	}

	slog.Debug("Evaluation finished", "family", family, "duration", time.Since(start), "fields", len(out))
	return RawOutputs(out), nil
}

// Request builds the engine request for a family without sending it.
func (e *Evaluator) Request(family dimensions.Family, requirementSummary, section string) (*judge.Request, error) {
	if !family.Valid() {
		return nil, fmt.Errorf("unknown dimension family %q", family)
	}

	values := []string{requirementSummary, section, e.knowledge.Knowledge()}
	fields := family.Inputs()

	req := &judge.Request{
		Name:         family.String(),
		Instructions: family.Instructions(),
		Outputs:      family.Outputs(),
	}
	for i, f := range fields {
		req.Inputs = append(req.Inputs, judge.Input{Field: f, Value: values[i]})
	}
	return req, nil
}

func asInvocationError(err error) error {
	if errors.Is(err, judge.ErrEngineInvocation) {
		return err
	}
	return fmt.Errorf("%w: %w", judge.ErrEngineInvocation, err)
}
