package store

// ConversationLog is one persisted chat turn: the user utterance, the reply
// the bot produced, and the classification that drove the decision.
// Rows are append-only; the pipeline never updates a logged turn.
type ConversationLog struct {
	UID            string
	UserID         string
	ConversationID string
	UserMessage    string
	BotReply       string
	Intent         string
	Confidence     float64
	Entities       string // JSON-encoded slot map
	CreatedTs      int64
	ID             int64
}

type FindConversationLog struct {
	ConversationID *string
	UserID         *string
	// Limit caps the result to the most recent N rows (by id descending).
	Limit *int
}
