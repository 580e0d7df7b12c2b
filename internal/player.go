package internal

// Connection is the narrow capability a room needs from a participant's
// transport. The room references it but never owns it.
type Connection interface {
	ID() string
	Send(event Event, payload any) error
	Close(reason string)
	// OnClose registers a callback run once the connection has terminated.
	// If it already has, the callback runs asynchronously right away.
	OnClose(callback func())
}

// Participant is a value record; status changes produce a new value.
type Participant struct {
	ID       string
	Username string
	Status   ParticipantStatus
	Conn     Connection
}

func NewParticipant(conn Connection, username string) Participant {
	return Participant{
		ID:       conn.ID(),
		Username: username,
		Status:   StatusWaiting,
		Conn:     conn,
	}
}

func (p Participant) WithStatus(status ParticipantStatus) Participant {
	p.Status = status
	return p
}

func (p Participant) Summary() ParticipantSummary {
	return ParticipantSummary{
		Username: p.Username,
		IsReady:  p.Status == StatusReady,
	}
}
