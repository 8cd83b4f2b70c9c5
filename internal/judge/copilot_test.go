package judge

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	copilot "github.com/github/copilot-sdk/go"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/execution"
)

var enableCopilotTests = os.Getenv("ENABLE_COPILOT_TESTS") == "true"

func newMockedJudge(clientMock execution.CopilotClient) *CopilotEngine {
	return NewCopilotEngine("gpt-4o", &CopilotEngineOptions{
		NewCopilotClient: func(*copilot.ClientOptions) execution.CopilotClient { return clientMock },
	})
}

func TestCopilotEngine_ToolSubmission(t *testing.T) {
	ctrl := gomock.NewController(t)
	clientMock := execution.NewMockCopilotClient(ctrl)
	sessionMock := execution.NewMockCopilotSession(ctrl)

	var tools []copilot.Tool

	clientMock.EXPECT().Start(gomock.Any())
	clientMock.EXPECT().CreateSession(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, config *copilot.SessionConfig) (execution.CopilotSession, error) {
			require.Equal(t, "gpt-4o", config.Model)
			tools = config.Tools
			return sessionMock, nil
		})

	sessionMock.EXPECT().SessionID().Return("judge-1").AnyTimes()
	sessionMock.EXPECT().On(gomock.Any()).Return(func() {})
	sessionMock.EXPECT().SendAndWait(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, opts copilot.MessageOptions) (*copilot.SessionEvent, error) {
			require.Contains(t, opts.Prompt, "completeness_score")
			require.Len(t, tools, 1)
			require.Equal(t, submitToolName, tools[0].Name)

			params := tools[0].Parameters["properties"].(map[string]any)
			require.Contains(t, params, "completeness_score")
			require.Contains(t, params, ReasoningField)

			_, err := tools[0].Handler(copilot.ToolInvocation{Arguments: map[string]any{
				"reasoning":          "looked at it",
				"completeness_score": "8",
				"overall_assessment": "good coverage",
			}})
			require.NoError(t, err)
			return &copilot.SessionEvent{}, nil
		})

	fields, err := newMockedJudge(clientMock).Evaluate(context.Background(), testRequest())
	require.NoError(t, err)
	require.Equal(t, "8", fields["completeness_score"])
	require.Equal(t, "good coverage", fields["overall_assessment"])
}

func TestCopilotEngine_FallsBackToInlineJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	clientMock := execution.NewMockCopilotClient(ctrl)
	sessionMock := execution.NewMockCopilotSession(ctrl)

	content := `Here you go: {"completeness_score": 6, "overall_assessment": "partial"}`

	clientMock.EXPECT().Start(gomock.Any())
	clientMock.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(sessionMock, nil)
	sessionMock.EXPECT().SessionID().Return("judge-2").AnyTimes()
	sessionMock.EXPECT().On(gomock.Any()).Return(func() {})
	sessionMock.EXPECT().SendAndWait(gomock.Any(), gomock.Any()).Return(
		&copilot.SessionEvent{Data: copilot.Data{Content: &content}}, nil)

	fields, err := newMockedJudge(clientMock).Evaluate(context.Background(), testRequest())
	require.NoError(t, err)
	require.Equal(t, "6", fields["completeness_score"])
}

func TestCopilotEngine_Failures(t *testing.T) {
	t.Run("start", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		clientMock := execution.NewMockCopilotClient(ctrl)
		clientMock.EXPECT().Start(gomock.Any()).Return(errors.New("no cli"))

		engine := newMockedJudge(clientMock)

		_, err := engine.Evaluate(context.Background(), testRequest())
		require.ErrorIs(t, err, ErrEngineInvocation)
		require.ErrorContains(t, err, "no cli")

		// start is only attempted once
		_, err = engine.Evaluate(context.Background(), testRequest())
		require.ErrorIs(t, err, ErrEngineInvocation)
	})

	t.Run("send", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		clientMock := execution.NewMockCopilotClient(ctrl)
		sessionMock := execution.NewMockCopilotSession(ctrl)

		clientMock.EXPECT().Start(gomock.Any())
		clientMock.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(sessionMock, nil)
		sessionMock.EXPECT().SessionID().Return("judge-3").AnyTimes()
		sessionMock.EXPECT().On(gomock.Any()).Return(func() {})
		sessionMock.EXPECT().SendAndWait(gomock.Any(), gomock.Any()).Return(nil, context.DeadlineExceeded)

		_, err := newMockedJudge(clientMock).Evaluate(context.Background(), testRequest())
		require.ErrorIs(t, err, ErrEngineInvocation)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("no submission", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		clientMock := execution.NewMockCopilotClient(ctrl)
		sessionMock := execution.NewMockCopilotSession(ctrl)

		clientMock.EXPECT().Start(gomock.Any())
		clientMock.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(sessionMock, nil)
		sessionMock.EXPECT().SessionID().Return("judge-4").AnyTimes()
		sessionMock.EXPECT().On(gomock.Any()).Return(func() {})
		sessionMock.EXPECT().SendAndWait(gomock.Any(), gomock.Any()).Return(&copilot.SessionEvent{}, nil)

		_, err := newMockedJudge(clientMock).Evaluate(context.Background(), testRequest())
		require.ErrorIs(t, err, ErrEngineInvocation)
		require.ErrorContains(t, err, submitToolName)
	})
}

func TestCopilotEngine_Live(t *testing.T) {
	if !enableCopilotTests {
		t.Skip("ENABLE_COPILOT_TESTS must be set in order to run live copilot tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	engine := NewCopilotEngine("gpt-4o-mini", nil)
	defer func() { require.NoError(t, engine.Close()) }()

	req := testRequest()
	req.Outputs = []dimensions.Field{{Name: "completeness_score", Description: "Score 1-10 for how complete the guidance is."}}

	fields, err := engine.Evaluate(ctx, req)
	require.NoError(t, err)
	require.NotEmpty(t, fields["completeness_score"])
}
