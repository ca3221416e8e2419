package game

type PlayerSnapshot struct {
	Name       string
	Seat       int
	Room       string
	Role       string
	Rank       int
	Dollars    int
	Credits    int
	Rehearsals int
	Score      int
	Image      string
	Moved      bool
	Worked     bool
	Performed  bool
	Turns      int
}

type SetSnapshot struct {
	Room  string
	Scene string
	Shots int
}

// Snapshot is a comparable copy of everything the board owns, for
// presentation layers and state-equality checks.
type Snapshot struct {
	Day           int
	ScenesActive  int
	DeckRemaining int
	Over          bool
	Active        string
	Queue         []string
	Players       []PlayerSnapshot
	Sets          []SetSnapshot
}

func (b *Board) Snapshot() Snapshot {
	s := Snapshot{
		Day:           b.day,
		ScenesActive:  b.scenesActive,
		DeckRemaining: b.deck.Remaining(),
		Over:          b.over,
	}
	if b.active != nil {
		s.Active = b.active.Name
	}
	for _, p := range b.queue {
		s.Queue = append(s.Queue, p.Name)
	}
	for _, p := range b.players {
		ps := PlayerSnapshot{
			Name:       p.Name,
			Seat:       p.Seat,
			Room:       p.room.String(),
			Rank:       p.rank,
			Dollars:    p.dollars,
			Credits:    p.credits,
			Rehearsals: p.rehearsals,
			Score:      p.Score(),
			Image:      p.Image(),
			Moved:      p.moved,
			Worked:     p.worked,
			Performed:  p.performed,
			Turns:      p.turns,
		}
		if p.role != nil {
			ps.Role = p.role.Name
		}
		s.Players = append(s.Players, ps)
	}
	for _, r := range b.lot.SceneRooms() {
		set := SetSnapshot{Room: r.name}
		if scene := r.set.Scene(); scene != nil {
			set.Scene = scene.Name
			set.Shots = r.set.Shots()
		}
		s.Sets = append(s.Sets, set)
	}
	return s
}
