package services

import "context"

// ChatMessage is one prior turn handed to a backend adapter. Role is "user"
// or "assistant"; each adapter maps it to its own wire vocabulary.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ProviderClient is the uniform adapter contract: send the composed message
// body plus prior turns, get back the reply text or a transport/protocol
// error. Calls are synchronous and single-attempt.
type ProviderClient interface {
	Invoke(ctx context.Context, body string, history []ChatMessage) (string, error)
}
