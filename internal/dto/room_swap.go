package dto

// RoomSwapRequest asks for a cascading room reassignment. Overrides
// pin displaced entries to caller-chosen rooms instead of the
// automatic alternative.
type RoomSwapRequest struct {
	EntryID      string            `json:"entryId" validate:"required"`
	TargetRoomID string            `json:"targetRoomId" validate:"required"`
	DryRun       bool              `json:"dryRun"`
	Overrides    map[string]string `json:"overrides"`
}

// RoomMove is one step of a swap chain.
type RoomMove struct {
	EntryID    string `json:"entryId"`
	FromRoomID string `json:"fromRoomId"`
	ToRoomID   string `json:"toRoomId"`
}

// RoomSwapResponse describes a proposed or executed swap chain.
type RoomSwapResponse struct {
	CanAutoResolve bool       `json:"canAutoResolve"`
	Executed       bool       `json:"executed"`
	Moves          []RoomMove `json:"moves"`
	Reason         string     `json:"reason,omitempty"`
}
