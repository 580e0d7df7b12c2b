package internal

// Participants keeps insertion order, which is also broadcast order.
type Participants []Participant

func (ps Participants) Find(id string) (int, bool) {
	for i, p := range ps {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (ps Participants) HasUsername(username string) bool {
	for _, p := range ps {
		if p.Username == username {
			return true
		}
	}
	return false
}

// AllReady reports whether enough participants are present and every one
// of them is ready.
func (ps Participants) AllReady() bool {
	if len(ps) < MinPlayersToStart {
		return false
	}
	for _, p := range ps {
		if p.Status != StatusReady {
			return false
		}
	}
	return true
}

func (ps Participants) AllGuessed() bool {
	for _, p := range ps {
		if p.Status != StatusGuessed {
			return false
		}
	}
	return true
}

// Remove returns the removed participant and the remaining list.
func (ps Participants) Remove(id string) (Participant, Participants, bool) {
	i, ok := ps.Find(id)
	if !ok {
		return Participant{}, ps, false
	}
	removed := ps[i]
	rest := make(Participants, 0, len(ps)-1)
	rest = append(rest, ps[:i]...)
	rest = append(rest, ps[i+1:]...)
	return removed, rest, true
}

func (ps Participants) ResetStatus() {
	for i := range ps {
		ps[i] = ps[i].WithStatus(StatusWaiting)
	}
}

func (ps Participants) Summaries() []ParticipantSummary {
	out := make([]ParticipantSummary, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Summary())
	}
	return out
}
