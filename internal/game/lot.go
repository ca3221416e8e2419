package game

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

var (
	ErrDuplicateRoom = errors.New("duplicate room")
	ErrDanglingRoom  = errors.New("adjacency references unknown room")
	ErrOneWayPath    = errors.New("adjacency is not symmetric")
	ErrMissingStart  = errors.New("start room not found")
	ErrMissingOffice = errors.New("casting office not found")
	ErrNoSceneRooms  = errors.New("lot has no scene rooms")
	ErrStartNotPlain = errors.New("start room must not host scenes")
	ErrEmptyRoomName = errors.New("room name is required")
	ErrSelfAdjacent  = errors.New("room cannot connect to itself")
)

type RoomDef struct {
	Name     string
	Scene    bool
	Adjacent []string
}

type LotDef struct {
	Rooms  []RoomDef
	Start  string
	Office string
}

// Lot is the room registry for one game. It is built once and never
// changes shape afterwards; only the Sets inside scene rooms mutate.
type Lot struct {
	rooms  map[string]*Room
	order  []*Room
	start  *Room
	office *Room
}

func NewLot(def LotDef) (*Lot, error) {
	lot := &Lot{rooms: make(map[string]*Room, len(def.Rooms))}

	for _, rd := range def.Rooms {
		name := strings.TrimSpace(rd.Name)
		if name == "" {
			return nil, ErrEmptyRoomName
		}
		key := nameKey(name)
		if _, ok := lot.rooms[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoom, name)
		}
		room := &Room{name: name, kind: RoomPlain}
		if rd.Scene {
			room.kind = RoomScene
			room.set = &Set{}
		}
		lot.rooms[key] = room
		lot.order = append(lot.order, room)
	}

	for i, rd := range def.Rooms {
		room := lot.order[i]
		for _, adj := range rd.Adjacent {
			target, ok := lot.rooms[nameKey(adj)]
			if !ok {
				return nil, fmt.Errorf("%w: %s -> %s", ErrDanglingRoom, room.name, adj)
			}
			if target == room {
				return nil, fmt.Errorf("%w: %s", ErrSelfAdjacent, room.name)
			}
			if !room.IsAdjacent(target) {
				room.adjacent = append(room.adjacent, target)
			}
		}
	}

	for _, room := range lot.order {
		for _, adj := range room.adjacent {
			if !adj.IsAdjacent(room) {
				return nil, fmt.Errorf("%w: %s -> %s", ErrOneWayPath, room.name, adj.name)
			}
		}
	}

	start, ok := lot.Room(def.Start)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingStart, def.Start)
	}
	if start.kind != RoomPlain {
		return nil, fmt.Errorf("%w: %s", ErrStartNotPlain, start.name)
	}
	lot.start = start

	if strings.TrimSpace(def.Office) != "" {
		office, ok := lot.Room(def.Office)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingOffice, def.Office)
		}
		lot.office = office
	}

	if len(lot.SceneRooms()) == 0 {
		return nil, ErrNoSceneRooms
	}
	return lot, nil
}

// Room looks a room up by name, ignoring case and repeated whitespace.
func (l *Lot) Room(name string) (*Room, bool) {
	room, ok := l.rooms[nameKey(name)]
	return room, ok
}

func (l *Lot) Rooms() []*Room {
	return append([]*Room(nil), l.order...)
}

func (l *Lot) SceneRooms() []*Room {
	out := make([]*Room, 0, len(l.order))
	for _, r := range l.order {
		if r.kind == RoomScene {
			out = append(out, r)
		}
	}
	return out
}

func (l *Lot) Names() []string {
	names := make([]string, 0, len(l.order))
	for _, r := range l.order {
		names = append(names, r.name)
	}
	return names
}

func (l *Lot) Start() *Room {
	return l.start
}

// Office is where upgrades are bought; nil when the lot has no casting office,
// in which case upgrades are allowed anywhere.
func (l *Lot) Office() *Room {
	return l.office
}

// ActiveScenes counts scene rooms still holding a card.
func (l *Lot) ActiveScenes() int {
	n := 0
	for _, r := range l.order {
		if r.kind == RoomScene && r.set.scene != nil {
			n++
		}
	}
	return n
}

func nameKey(name string) string {
	return strings.Join(strings.Fields(cases.Fold().String(name)), " ")
}
