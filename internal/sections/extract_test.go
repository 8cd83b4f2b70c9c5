package sections

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	sessionBody = "# DynamoDB Modeling Session (dynamodb_requirement.md)\n## Access Patterns\n| # | Pattern | RPS |"
	designBody  = "# DynamoDB Data Model (dynamodb_data_model.md)\n## Table: Orders\nPK: CUSTOMER#<id>"
)

func jsonPayload(t *testing.T, text string) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"role":    "assistant",
		"content": []map[string]any{{"text": text}},
	})
	require.NoError(t, err)
	return string(b)
}

func TestExtract_WellFormedJSON(t *testing.T) {
	text := "Here is the guidance.\n```markdown\n" + sessionBody + "\n```\n\nand\n```markdown\n" + designBody + "\n```\ntrailing notes"

	got := Extract(jsonPayload(t, text))

	require.Equal(t, OK, got.Outcome)
	require.Equal(t, sessionBody, got.Session)
	require.Equal(t, designBody, got.Design)
	require.NotContains(t, got.Session, "```")
	require.NotContains(t, got.Design, "```")

	s := got.Sections()
	require.NotNil(t, s.Session)
	require.NotNil(t, s.Design)
}

func TestExtract_SingleQuotedLiteralWithEscapedNewlines(t *testing.T) {
	raw := `{'role': 'assistant', 'content': [{'text': 'Intro\n` + "```markdown\\n" +
		`# Session\n- entity: Order\n` + "```" + `\n` + "```markdown\\n" +
		`# Data Model\n- PK: ORDER#id\n` + "```" + `'}]}`

	got := Extract(raw)

	require.Equal(t, OK, got.Outcome, got.Detail)
	require.Equal(t, "# Session\n- entity: Order", got.Session)
	require.Equal(t, "# Data Model\n- PK: ORDER#id", got.Design)
}

func TestExtract_PayloadEncodings(t *testing.T) {
	blocks := "```markdown\\n# S\\n```\\n```markdown\\n# D\\n```"
	tests := []struct {
		name string
		raw  string
	}{
		{"json with escaped slash", `{"role":"assistant","content":[{"text":"a\/b ` + blocks + `"}]}`},
		{"json with unicode escape", `{"role":"assistant","content":[{"text":"caf\u00e9 ` + blocks + `"}]}`},
		{"literal with both quote kinds", `{'role': 'assistant', 'content': [{'text': 'It\'s "done" ` + blocks + `'}]}`},
		{"literal with double-quoted text", `{'role': 'assistant', 'content': [{'text': "It's done ` + blocks + `"}]}`},
		{"literal with None and True", `{'role': 'assistant', 'stop': None, 'final': True, 'content': [{'text': '` + blocks + `', 'cached': False}]}`},
		{"literal with trailing commas", `{'role': 'assistant', 'content': [{'text': '` + blocks + `',},],}`},
		{"literal with tuple content", `{'role': 'assistant', 'content': ({'text': '` + blocks + `'},)}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.raw)
			require.Equal(t, OK, got.Outcome, got.Detail)
			require.Equal(t, "# S", got.Session)
			require.Equal(t, "# D", got.Design)
		})
	}
}

func TestLiteralToJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{'a': 'it\'s'}`, `{"a": "it's"}`},
		{`{'a': "say \"hi\""}`, `{"a": "say \"hi\""}`},
		{`{'a': None, 'b': True, 'c': False}`, `{"a": null, "b": true, "c": false}`},
		{`{'a': 'None'}`, `{"a": "None"}`},
		{`{'a': [1, 2,]}`, `{"a": [1, 2]}`},
		{`{'a': (1, 2)}`, `{"a": [1, 2]}`},
		{`{'a': '\x41\u00e9\101'}`, `{"a": "Aé\u0041"}`},
		{`{'a': 'tab\there'}`, `{"a": "tab\there"}`},
		{`{'a': 'keep \d'}`, `{"a": "keep \\d"}`},
	}
	for _, tt := range tests {
		got, err := literalToJSON(tt.in)
		require.NoError(t, err, tt.in)

		var gotV, wantV any
		require.NoError(t, json.Unmarshal(got, &gotV), string(got))
		require.NoError(t, json.Unmarshal([]byte(tt.want), &wantV), tt.want)
		require.Equal(t, wantV, gotV, tt.in)
	}
}

func TestLiteralToJSON_Errors(t *testing.T) {
	for _, in := range []string{
		`{'a': 'unterminated}`,
		`{'a': 'bad \x4'}`,
		"{'a': 'line\nbreak\n'}",
	} {
		_, err := literalToJSON(in)
		require.Error(t, err, in)
	}
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Outcome
	}{
		{"conversation error text", "Error during conversation: boom", Malformed},
		{"empty", "", Malformed},
		{"broken mapping", "{'role': 'assistant', 'content': [", Malformed},
		{"no content key", `{"role": "assistant"}`, MissingPath},
		{"empty content list", `{"content": []}`, MissingPath},
		{"content without text", `{"content": [{"type": "text"}]}`, MissingPath},
		{"content not a list", `{"content": "hello"}`, MissingPath},
		{"missing second block", jsonPayload(t, "```markdown\n"+sessionBody+"\n```\nno design here"), WrongSectionCount},
		{"no blocks", jsonPayload(t, "plain answer"), WrongSectionCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.raw)
			require.Equal(t, tt.want, got.Outcome)
			require.False(t, got.OK())
			require.NotEmpty(t, got.Detail)

			s := got.Sections()
			require.Nil(t, s.Session)
			require.Nil(t, s.Design)
		})
	}
}

func TestSplit_IgnoresExtraBlocks(t *testing.T) {
	text := "```markdown\nfirst\n```\n```markdown\nsecond\n```\n```markdown\nthird\n```"

	got := Split(text)

	require.Equal(t, OK, got.Outcome)
	require.Equal(t, "first", got.Session)
	require.Equal(t, "second", got.Design)
}

func TestSplit_UnclosedBlockKeepsRemainder(t *testing.T) {
	got := Split("```markdown\n  session  \n```markdown\n  design tail  ")

	require.Equal(t, OK, got.Outcome)
	require.Equal(t, "session", got.Session)
	require.Equal(t, "design tail", got.Design)
}

func TestOutcome_String(t *testing.T) {
	require.Equal(t, "ok", OK.String())
	require.Equal(t, "wrong_section_count", WrongSectionCount.String())
	require.Equal(t, "outcome(0)", Outcome(0).String())
}
