package filter

import (
	"context"

	"github.com/pinctl/pinctl/pinapi"
)

// ExtensionKey is the namespace the search extension registers under.
const ExtensionKey = "search"

// Searcher is a pin API extension that combines a meta-group fetch with a
// compiled filter expression. It only ever talks to the API through the
// bound operations it was constructed with.
type Searcher struct {
	ops pinapi.Operations
}

// NewSearcher constructs a Searcher from the client's bound operations.
func NewSearcher(ops pinapi.Operations) *Searcher {
	return &Searcher{ops: ops}
}

// Extension returns the descriptor to pass to pinapi.WithExtensions.
func Extension() pinapi.ExtensionDescriptor {
	return pinapi.ExtensionDescriptor{
		Key: ExtensionKey,
		New: func(ops pinapi.Operations) any {
			return NewSearcher(ops)
		},
	}
}

// Search fetches the pins for metaID and returns those matching the
// expression.
func (s *Searcher) Search(ctx context.Context, metaID, expression string) ([]pinapi.Pin, error) {
	compiled, err := Compile(expression)
	if err != nil {
		return nil, err
	}

	pins, err := s.ops.GetPins(ctx, metaID)
	if err != nil {
		return nil, err
	}

	return compiled.Apply(pins), nil
}
