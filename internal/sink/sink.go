package sink

import "fmt"

// Sink identifies one audio render endpoint.
// It holds no native resources and is safe to copy.
type Sink struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// New creates a sink from an endpoint id and its friendly name
func New(id, name string) Sink {
	return Sink{ID: id, Name: name}
}

// Empty returns the sentinel used when no endpoint matched
func Empty() Sink {
	return Sink{}
}

// IsEmpty reports whether s is the sentinel (it has no settable id)
func (s Sink) IsEmpty() bool {
	return s.ID == ""
}

// SameEndpoint compares by id only
func (s Sink) SameEndpoint(other Sink) bool {
	return s.ID == other.ID
}

func (s Sink) String() string {
	if s.IsEmpty() {
		return "<none>"
	}
	return fmt.Sprintf("%s (%s)", s.Name, s.ID)
}
