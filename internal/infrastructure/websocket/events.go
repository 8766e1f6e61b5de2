package websocket

// Server -> client event names.
const (
	EventNewMessage      = "new_message"
	EventMessagesRead    = "messages_read"
	EventNewNotification = "new_notification"
	EventNewRequest      = "new_request"
	EventPong            = "pong"
)

// Client -> server event names. Everything that mutates state goes through
// the REST API; the socket only accepts keepalives.
const (
	EventPing = "ping"
)

// Envelope is the wire format for every server-to-client event.
type Envelope struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}
