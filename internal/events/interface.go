package events

// Client publishes and decodes team events. Messages are encoded with
// MessagePack.
type Client interface {
	SendMessage(topic string, data any) error
	ProcessMessage(data []byte, returnValue any) error
}
