package pinapi

import (
	"context"
	"encoding/json"
)

// Operations is the set of pin CRUD primitives the client exposes.
// Extensions receive this interface bound to the constructing client, so
// every call they make carries the client's own authentication and
// configuration.
type Operations interface {
	// CreatePins creates the given pins and returns them with server-assigned IDs
	CreatePins(ctx context.Context, pins []CreatePin) ([]Pin, error)

	// GetPins retrieves all pins sharing the given meta ID
	GetPins(ctx context.Context, metaID string) ([]Pin, error)

	// UpdatePins applies partial updates and returns the updated pins
	UpdatePins(ctx context.Context, pins []UpdatePin) ([]Pin, error)

	// DeletePins removes pins by ID and reports how many were deleted
	DeletePins(ctx context.Context, ids []string) (*DeleteResult, error)

	// GetMetadata retrieves the opaque metadata record for a meta ID
	GetMetadata(ctx context.Context, metaID string) (json.RawMessage, error)
}
