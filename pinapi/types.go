package pinapi

// Vector3 is a 3D coordinate used for pin positions and offsets.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pin is a positioned annotation record as stored by the remote API.
// The server assigns ID on creation and applies the documented defaults
// for omitted optional fields; the client never fills them in itself.
type Pin struct {
	ID         string  `json:"id"`
	MetaID     string  `json:"meta_id"`
	Position   Vector3 `json:"position"`
	Offset     Vector3 `json:"offset"`
	HTML       string  `json:"html"`
	Opacity    float64 `json:"opacity"`
	EnableLine bool    `json:"enableLine"`
	Alert      bool    `json:"alert"`
	Icon       string  `json:"icon,omitempty"`
	Color      string  `json:"color,omitempty"`
}

// CreatePin is the payload for creating a pin. MetaID, Position and HTML
// are required; everything else is optional and defaulted server-side
// (offset {0,0,0}, opacity 1, enableLine false, alert false).
type CreatePin struct {
	MetaID     string   `json:"meta_id"`
	Position   Vector3  `json:"position"`
	HTML       string   `json:"html"`
	Offset     *Vector3 `json:"offset,omitempty"`
	Opacity    *float64 `json:"opacity,omitempty"`
	EnableLine *bool    `json:"enableLine,omitempty"`
	Alert      *bool    `json:"alert,omitempty"`
	Icon       string   `json:"icon,omitempty"`
	Color      string   `json:"color,omitempty"`
}

// UpdatePin is a partial pin update. ID identifies the pin to mutate;
// only non-nil fields are sent and changed.
type UpdatePin struct {
	ID         string   `json:"id"`
	MetaID     *string  `json:"meta_id,omitempty"`
	Position   *Vector3 `json:"position,omitempty"`
	Offset     *Vector3 `json:"offset,omitempty"`
	HTML       *string  `json:"html,omitempty"`
	Opacity    *float64 `json:"opacity,omitempty"`
	EnableLine *bool    `json:"enableLine,omitempty"`
	Alert      *bool    `json:"alert,omitempty"`
	Icon       *string  `json:"icon,omitempty"`
	Color      *string  `json:"color,omitempty"`
}

// DeleteResult reports how many pins the server removed.
type DeleteResult struct {
	Deleted int `json:"deleted"`
}
