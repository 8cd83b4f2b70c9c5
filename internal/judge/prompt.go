package judge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ReasoningField is the extra output that carries the engine's step by step
// reasoning.
const ReasoningField = "reasoning"

type responseStyle int

const (
	respondWithTool responseStyle = iota
	respondWithJSON
)

// renderPrompt lays out the instructions, every input, and the output
// contract in a fixed order.
func renderPrompt(req *Request, style responseStyle) string {
	var b strings.Builder

	b.WriteString(req.Instructions)
	b.WriteString("\n\n## Inputs\n")
	for _, in := range req.Inputs {
		fmt.Fprintf(&b, "\n### %s\n%s\n\n%s\n", in.Name, in.Description, in.Value)
	}

	b.WriteString("\n## Outputs\n\n")
	b.WriteString("Reason through the evaluation step by step before deciding on any value. Then produce every field below.\n\n")
	fmt.Fprintf(&b, "- %s: Your step by step reasoning.\n", ReasoningField)
	for _, out := range req.Outputs {
		fmt.Fprintf(&b, "- %s: %s\n", out.Name, out.Description)
	}

	b.WriteString("\n")
	switch style {
	case respondWithTool:
		fmt.Fprintf(&b, "Call the `%s` tool exactly once with all of the fields above. Do not reply with the fields as text.\n", submitToolName)
	case respondWithJSON:
		b.WriteString("Respond ONLY with a JSON object whose keys are exactly the field names above. Every value must be a string. No additional text.\n")
	}
	return b.String()
}

// parseFields reads the first JSON object embedded in text.
func parseFields(text string) (map[string]string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, errors.New("no JSON object in response")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decoding response JSON: %w", err)
	}
	return stringify(raw), nil
}

// stringify renders every value as text; numbers keep their shortest form.
func stringify(raw map[string]any) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			out[k] = strconv.Itoa(t)
		case int64:
			out[k] = strconv.FormatInt(t, 10)
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}
