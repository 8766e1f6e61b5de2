package usecase

import "context"

// RealtimeEmitter is the live delivery channel. Emission is best-effort:
// no live connection for the user is a no-op, never an error.
type RealtimeEmitter interface {
	EmitToUser(userID, event string, payload interface{})
}

// PushSender dispatches one multicast push and reports tokens the provider
// declared permanently invalid.
type PushSender interface {
	SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]string, error)
}
