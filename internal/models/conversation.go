package models

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one exchange in the simulated conversation. Turns are
// appended in order and never modified afterwards.
type ConversationTurn struct {
	Role       Role    `json:"role" yaml:"role"`
	Content    string  `json:"content" yaml:"content"`
	TurnNumber int     `json:"turn_number" yaml:"turn_number"`
	Timestamp  float64 `json:"timestamp" yaml:"timestamp"`
}

// Conversation is an append-only turn log.
type Conversation struct {
	turns []ConversationTurn
	now   func() float64
}

// NewConversation starts an empty conversation; now supplies turn timestamps
// in fractional Unix seconds.
func NewConversation(now func() float64) *Conversation {
	return &Conversation{now: now}
}

// Append records a turn and assigns its 1-based turn number.
func (c *Conversation) Append(role Role, content string) ConversationTurn {
	turn := ConversationTurn{
		Role:       role,
		Content:    content,
		TurnNumber: len(c.turns) + 1,
		Timestamp:  c.now(),
	}
	c.turns = append(c.turns, turn)
	return turn
}

// Turns returns a copy of the recorded turns.
func (c *Conversation) Turns() []ConversationTurn {
	return append([]ConversationTurn{}, c.turns...)
}

func (c *Conversation) Len() int { return len(c.turns) }
