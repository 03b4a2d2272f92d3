package dossier

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message exchange unit inside a dossier transcript.
// Turns are immutable once appended; their order is conversation
// chronology and is replayed verbatim into the model context.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
