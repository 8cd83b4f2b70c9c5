// Package sections splits an assistant's final guidance payload into the
// modeling-session section and the data-model section.
package sections

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

const (
	openFence  = "```markdown\n"
	closeFence = "```"
)

// Outcome enumerates every way an extraction can end.
type Outcome int

const (
	// Malformed means the payload could not be deserialized into a mapping.
	Malformed Outcome = iota + 1
	// MissingPath means the mapping had no content[0].text string.
	MissingPath
	// WrongSectionCount means fewer than two fenced markdown blocks were found.
	WrongSectionCount
	// OK means both sections were found.
	OK
)

func (o Outcome) String() string {
	switch o {
	case Malformed:
		return "malformed"
	case MissingPath:
		return "missing_path"
	case WrongSectionCount:
		return "wrong_section_count"
	case OK:
		return "ok"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Extraction is the result of Extract. Session and Design are only set when
// Outcome is OK.
type Extraction struct {
	Outcome Outcome
	Session string
	Design  string
	// Detail explains a failed outcome.
	Detail string
}

// OK reports whether both sections were extracted.
func (e Extraction) OK() bool { return e.Outcome == OK }

// Sections projects the extraction onto its two sections: both present or
// both absent.
func (e Extraction) Sections() ExtractedSections {
	if !e.OK() {
		return ExtractedSections{}
	}
	session, design := e.Session, e.Design
	return ExtractedSections{Session: &session, Design: &design}
}

// ExtractedSections holds the two content sections of a transcript.
type ExtractedSections struct {
	Session *string
	Design  *string
}

// payload is the message shape the conversational engine returns:
// {"role": "assistant", "content": [{"text": "..."}]}
type payload struct {
	Content []struct {
		Text *string `mapstructure:"text"`
	} `mapstructure:"content"`
}

// Extract deserializes raw, locates content[0].text and splits it into the
// first two fenced markdown blocks. Raw is JSON or, failing that, a Python
// literal mapping.
func Extract(raw string) Extraction {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return Extraction{Outcome: Malformed, Detail: "payload is not a mapping"}
	}

	decoded, err := decodeMapping(trimmed)
	if err != nil {
		return Extraction{Outcome: Malformed, Detail: err.Error()}
	}

	var p payload
	if err := mapstructure.Decode(decoded, &p); err != nil {
		return Extraction{Outcome: MissingPath, Detail: err.Error()}
	}
	if len(p.Content) == 0 || p.Content[0].Text == nil {
		return Extraction{Outcome: MissingPath, Detail: "content[0].text not found"}
	}

	return Split(*p.Content[0].Text)
}

func decodeMapping(raw string) (map[string]any, error) {
	var decoded map[string]any
	jsonErr := json.Unmarshal([]byte(raw), &decoded)
	if jsonErr == nil {
		return decoded, nil
	}

	converted, err := literalToJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding payload: %w", errors.Join(jsonErr, err))
	}
	if err := json.Unmarshal(converted, &decoded); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", errors.Join(jsonErr, err))
	}
	return decoded, nil
}

// Split finds the session and design blocks in already-decoded markdown text.
// Additional fenced blocks after the second are ignored.
func Split(content string) Extraction {
	content = strings.ReplaceAll(content, `\n`, "\n")

	blocks := strings.Split(content, openFence)
	if len(blocks) < 3 {
		return Extraction{
			Outcome: WrongSectionCount,
			Detail:  fmt.Sprintf("found %d fenced markdown blocks, need 2", len(blocks)-1),
		}
	}

	return Extraction{
		Outcome: OK,
		Session: untilFence(blocks[1]),
		Design:  untilFence(blocks[2]),
	}
}

func untilFence(block string) string {
	body, _, _ := strings.Cut(block, closeFence)
	return strings.TrimSpace(body)
}
