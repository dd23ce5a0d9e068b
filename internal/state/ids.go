package state

import "github.com/google/uuid"

// newID hands out sticker ids. Tests replace it for deterministic output.
var newID = uuid.NewString
