package messages

// JoinRequest is sent by a client to enter a room. Presence is the JSON-encoded
// initial PresenceRecord.
type JoinRequest struct {
	RoomKind string
	RoomID   string
	Token    string
	Presence []byte
}

// JoinAccepted is sent by the relay once the client is a member of the room.
type JoinAccepted struct {
	PeerID   string
	RoomKind string
	RoomID   string
}

// JoinRejected is sent by the relay when a join request cannot be served at all.
type JoinRejected struct {
	Reason string
}

// LeaveRequest asks the relay to drop the sender from its current room.
type LeaveRequest struct{}
