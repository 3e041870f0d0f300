package pubsub

// PubSubClient publishes domain events for downstream consumers (notification
// workers, analytics). The points core only emits; it never renders.
type PubSubClient interface {
	SendMessage(topic EventType, data any) error
	ProcessMessage(data []byte, returnValue any) error
}
