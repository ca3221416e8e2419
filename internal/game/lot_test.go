package game

import (
	"errors"
	"testing"
)

func TestNewLotValidatesTopology(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LotDef)
		want   error
	}{
		{
			name: "dangling edge",
			mutate: func(d *LotDef) {
				d.Rooms[0].Adjacent = append(d.Rooms[0].Adjacent, "Bank")
			},
			want: ErrDanglingRoom,
		},
		{
			name: "one way edge",
			mutate: func(d *LotDef) {
				d.Rooms[4].Adjacent = append(d.Rooms[4].Adjacent, "Saloon")
			},
			want: ErrOneWayPath,
		},
		{
			name: "duplicate room",
			mutate: func(d *LotDef) {
				d.Rooms = append(d.Rooms, RoomDef{Name: "SALOON"})
			},
			want: ErrDuplicateRoom,
		},
		{
			name: "missing start",
			mutate: func(d *LotDef) {
				d.Start = "Jail"
			},
			want: ErrMissingStart,
		},
		{
			name: "start hosts scenes",
			mutate: func(d *LotDef) {
				d.Start = "Hotel"
			},
			want: ErrStartNotPlain,
		},
		{
			name: "missing office",
			mutate: func(d *LotDef) {
				d.Office = "Bank"
			},
			want: ErrMissingOffice,
		},
		{
			name: "self edge",
			mutate: func(d *LotDef) {
				d.Rooms[1].Adjacent = append(d.Rooms[1].Adjacent, "Casting Office")
			},
			want: ErrSelfAdjacent,
		},
		{
			name: "blank name",
			mutate: func(d *LotDef) {
				d.Rooms = append(d.Rooms, RoomDef{Name: "  "})
			},
			want: ErrEmptyRoomName,
		},
		{
			name: "no scene rooms",
			mutate: func(d *LotDef) {
				for i := range d.Rooms {
					d.Rooms[i].Scene = false
				}
			},
			want: ErrNoSceneRooms,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := testLotDef()
			tc.mutate(&def)
			if _, err := NewLot(def); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLotLookupIgnoresCaseAndSpacing(t *testing.T) {
	lot := newTestLot(t)
	for _, name := range []string{"main street", "MAIN STREET", "  Main   Street "} {
		room, ok := lot.Room(name)
		if !ok || room.Name() != "Main Street" {
			t.Fatalf("lookup %q = %v, %v", name, room, ok)
		}
	}
	if _, ok := lot.Room("Bank"); ok {
		t.Fatalf("expected unknown room lookup to fail")
	}
}

func TestLotAdjacencyIsSymmetric(t *testing.T) {
	lot := newTestLot(t)
	for _, r := range lot.Rooms() {
		for _, n := range r.Adjacent() {
			if !n.IsAdjacent(r) {
				t.Fatalf("%s -> %s has no return path", r, n)
			}
		}
	}
	if lot.Start().Name() != "Trailers" || lot.Office().Name() != "Casting Office" {
		t.Fatalf("unexpected start/office: %s / %s", lot.Start(), lot.Office())
	}
	if got := len(lot.SceneRooms()); got != 3 {
		t.Fatalf("expected 3 scene rooms, got %d", got)
	}
	if lot.ActiveScenes() != 0 {
		t.Fatalf("fresh lot should have no active scenes")
	}
}

func TestRoomDescribe(t *testing.T) {
	lot := newTestLot(t)
	hotel, _ := lot.Room("Hotel")
	if got, want := hotel.Describe(), "Hotel, scene wrapped (connects to Casting Office)"; got != want {
		t.Fatalf("Describe() = %q, want %q", got, want)
	}
	hotel.Set().Assign(NewScene("Shootout", 4, 2, nil))
	if got, want := hotel.Describe(), "Hotel, shooting Shootout ($4M budget), 2 shots left (connects to Casting Office)"; got != want {
		t.Fatalf("Describe() = %q, want %q", got, want)
	}
	if hotel.Kind() != RoomScene || hotel.Kind().String() != "scene" {
		t.Fatalf("expected scene room, got %s", hotel.Kind())
	}
}
