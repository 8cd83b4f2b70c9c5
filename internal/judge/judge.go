// Package judge is the boundary to the external reasoning engine that scores
// content against a rubric. Every engine takes named text inputs and returns
// named text outputs.
package judge

import (
	"context"
	"errors"
	"fmt"

	"github.com/spboyer/ddbeval/internal/dimensions"
)

// ErrEngineInvocation marks any failure to obtain outputs from an engine,
// timeouts included.
var ErrEngineInvocation = errors.New("reasoning engine invocation failed")

// Input is a named value handed to the engine.
type Input struct {
	dimensions.Field
	Value string
}

// Request is one structured evaluation call.
type Request struct {
	// Name identifies the evaluation in logs, e.g. "design".
	Name         string
	Instructions string
	Inputs       []Input
	Outputs      []dimensions.Field
}

// OutputNames lists the requested output field names in order.
func (r *Request) OutputNames() []string {
	names := make([]string, 0, len(r.Outputs))
	for _, o := range r.Outputs {
		names = append(names, o.Name)
	}
	return names
}

// Engine evaluates a request. Implementations return whatever fields the
// model produced; missing fields are the caller's concern.
type Engine interface {
	Evaluate(ctx context.Context, req *Request) (map[string]string, error)
}

// Func adapts a function to Engine.
type Func func(ctx context.Context, req *Request) (map[string]string, error)

func (f Func) Evaluate(ctx context.Context, req *Request) (map[string]string, error) {
	return f(ctx, req)
}

func invocationError(req *Request, err error) error {
	if errors.Is(err, ErrEngineInvocation) {
		return err
	}
	return fmt.Errorf("%w (%s): %w", ErrEngineInvocation, req.Name, err)
}
