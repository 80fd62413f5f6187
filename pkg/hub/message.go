// Package hub provides a thread-safe websocket broadcast hub using
// the channel-based fan-out pattern. The monitor runs one hub per
// stream: triage records as JSON, annotated frames as binary.
package hub

// MessageType indicates the websocket message format.
type MessageType int

const (
	// JSONMessage is a JSON-encoded message.
	JSONMessage MessageType = iota
	// BinaryMessage is raw binary data (JPEG frames).
	BinaryMessage
)

// Message is one payload to be fanned out to watchers.
type Message struct {
	Type MessageType
	Data []byte
}

// NewJSONMessage wraps pre-encoded JSON bytes.
func NewJSONMessage(data []byte) Message {
	return Message{Type: JSONMessage, Data: data}
}

// NewBinaryMessage wraps binary data.
func NewBinaryMessage(data []byte) Message {
	return Message{Type: BinaryMessage, Data: data}
}
