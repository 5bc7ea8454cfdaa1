package trevent

// Handler is an event handler that is capable of processing events in
// Trellis.
type Handler interface {
	Name() string
	Handle(Record) error
}
