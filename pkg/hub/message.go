// Package hub fans caption events and frame bytes out to connected
// websocket viewers using the channel-based broadcast pattern.
package hub

// MessageType indicates the websocket message format
type MessageType int

const (
	// JSONMessage is a JSON-encoded event, such as a new caption.
	JSONMessage MessageType = iota
	// BinaryMessage is raw binary data, such as a JPEG frame.
	BinaryMessage
)

// Message is one payload queued for every connected viewer.
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
