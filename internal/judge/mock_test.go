package judge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockEngine(t *testing.T) {
	m := NewMockEngine("8")

	out, err := m.Evaluate(context.Background(), testRequest())
	require.NoError(t, err)

	for _, name := range testRequest().OutputNames() {
		require.Contains(t, out, name)
	}
	require.Equal(t, "8", out["completeness_score"])
	require.Equal(t, "Mock assessment for overall_assessment.", out["overall_assessment"])
	require.Equal(t, []string{testRequest().Name}, m.Requests())
}

func TestMockEngine_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockEngine("8").Evaluate(ctx, testRequest())
	require.ErrorIs(t, err, ErrEngineInvocation)
	require.True(t, errors.Is(err, context.Canceled))
}
