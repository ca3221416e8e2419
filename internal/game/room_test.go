package game

import "testing"

func TestWrapDealsBonusDiceByRoleRank(t *testing.T) {
	lot := newTestLot(t)
	street, _ := lot.Room("Main Street")
	scene := testScenes(1, 3, 1)[0]
	street.Set().Assign(scene)

	lead := newPlayer("Lead", 0, street)
	support := newPlayer("Support", 1, street)
	extra := newPlayer("Extra", 2, street)
	lead.takeRole(scene.Roles[0])
	support.takeRole(scene.Roles[1])
	extra.takeRole(NewExtra("Town Drunk", "Hic!", 2))

	dice := &seqDice{rolls: []int{2, 5, 4}}
	if !street.Wrap([]*Player{lead, support, extra}, dice) {
		t.Fatalf("expected bonus to be paid")
	}

	// Sorted rolls 5,4,2 go to rank 3 first: Support 5+2, Lead 4.
	if support.Dollars() != 7 || lead.Dollars() != 4 {
		t.Fatalf("unexpected bonus split: support $%d, lead $%d", support.Dollars(), lead.Dollars())
	}
	if extra.Dollars() != 2 {
		t.Fatalf("expected extra to earn role rank, got $%d", extra.Dollars())
	}
	for _, p := range []*Player{lead, support, extra} {
		if p.Role() != nil {
			t.Fatalf("%s still holds a role", p)
		}
	}
	if street.Scene() != nil || street.Set().Active() {
		t.Fatalf("expected set cleared after wrap")
	}
}

func TestWrapLosesDiceOnUnheldRoles(t *testing.T) {
	lot := newTestLot(t)
	street, _ := lot.Room("Main Street")
	scene := testScenes(1, 3, 1)[0]
	street.Set().Assign(scene)

	lead := newPlayer("Lead", 0, street)
	lead.takeRole(scene.Roles[0])

	dice := &seqDice{rolls: []int{2, 5, 4}}
	if !street.Wrap([]*Player{lead}, dice) {
		t.Fatalf("expected bonus to be paid")
	}

	// Sorted rolls 5,4,2: Support is unheld so 5 and 2 are lost.
	if lead.Dollars() != 4 {
		t.Fatalf("expected lead to collect only their tier, got $%d", lead.Dollars())
	}
	if lead.Role() != nil {
		t.Fatalf("expected lead released after wrap")
	}
}

func TestWrapWithoutOnCardHoldersPaysNobody(t *testing.T) {
	lot := newTestLot(t)
	street, _ := lot.Room("Main Street")
	street.Set().Assign(testScenes(1, 3, 1)[0])

	extra := newPlayer("Extra", 0, street)
	extra.takeRole(NewExtra("Town Drunk", "Hic!", 2))
	bystander := newPlayer("Bystander", 1, lot.Start())

	if street.Wrap([]*Player{extra, bystander}, constDice(6)) {
		t.Fatalf("expected no bonus without on-card holders")
	}
	if extra.Dollars() != 0 || extra.Role() != nil {
		t.Fatalf("expected extra released unpaid, got $%d holding %v", extra.Dollars(), extra.Role())
	}
}

func TestSetDecrementShots(t *testing.T) {
	var set Set
	if set.DecrementShots() {
		t.Fatalf("empty set cannot wrap")
	}
	set.Assign(NewScene("Card", 2, 2, nil))
	if set.DecrementShots() {
		t.Fatalf("expected one shot left")
	}
	if !set.DecrementShots() {
		t.Fatalf("expected wrap on last shot")
	}
	if set.Active() {
		t.Fatalf("no shots left should not be active")
	}
}
