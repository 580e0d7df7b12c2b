package game

import (
	"github.com/scythe504/guessit-backend/internal"
)

// =============================================================================
// BROADCASTING
// =============================================================================

// broadcast and friends are called with the room lock held. Sends only
// enqueue, so a slow participant never stalls the room; a failed send is
// logged and the participant is left to its own close handling.

func (r *Room) broadcast(event internal.Event, payload any) {
	for _, p := range r.participants {
		r.send(p, event, payload)
	}
}

func (r *Room) broadcastExcept(excludeID string, event internal.Event, payload any) {
	for _, p := range r.participants {
		if p.ID == excludeID {
			continue
		}
		r.send(p, event, payload)
	}
}

func (r *Room) send(p internal.Participant, event internal.Event, payload any) {
	if err := p.Conn.Send(event, payload); err != nil {
		r.log.Warn().Err(err).Str("participant", p.ID).Str("event", string(event)).
			Msg("[send] failed to deliver event")
	}
}
