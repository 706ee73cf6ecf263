package domain

// Prompt is a round's creative challenge. Text has any player-name
// placeholders already bound by the content library at selection time.
type Prompt struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
