package engine

import "testing"

func testPlayer(name string, team Team) *Player {
	return &Player{ID: "id-" + name, Name: name, Team: team, Role: RolePlayer}
}

func names(players []*Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.Name)
	}
	return out
}

func assertOrder(t *testing.T, got []*Player, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d players, got %d (%v)", len(want), len(got), names(got))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("Position %d: expected %s, got %s (full order %v)", i, name, got[i].Name, names(got))
		}
	}
}

func TestArrangeRGB(t *testing.T) {
	t.Run("interleaves red green blue round-robin", func(t *testing.T) {
		players := []*Player{
			testPlayer("a", TeamBlue),
			testPlayer("b", TeamRed),
			testPlayer("c", TeamGreen),
			testPlayer("d", TeamBlue),
			testPlayer("e", TeamRed),
			testPlayer("f", TeamGreen),
		}

		assertOrder(t, ArrangeRGB(players), "b", "c", "a", "e", "f", "d")
	})

	t.Run("exhausted buckets are skipped", func(t *testing.T) {
		players := []*Player{
			testPlayer("alice", TeamRed),
			testPlayer("bob", TeamGreen),
			testPlayer("carl", TeamRed),
		}

		assertOrder(t, ArrangeRGB(players), "alice", "bob", "carl")
	})

	t.Run("teamless players keep join order at the end", func(t *testing.T) {
		players := []*Player{
			testPlayer("a", TeamNone),
			testPlayer("b", TeamBlue),
			testPlayer("c", TeamNone),
			testPlayer("d", TeamRed),
		}

		assertOrder(t, ArrangeRGB(players), "d", "b", "a", "c")
	})

	t.Run("no teams returns input unchanged", func(t *testing.T) {
		players := []*Player{
			testPlayer("a", TeamNone),
			testPlayer("b", TeamNone),
		}

		got := ArrangeRGB(players)
		assertOrder(t, got, "a", "b")
		if &got[0] != &players[0] {
			// same backing slice, not a reordered copy
			t.Error("Expected the input slice back when nobody has a team")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		players := []*Player{
			testPlayer("a", TeamGreen),
			testPlayer("b", TeamRed),
			testPlayer("c", TeamNone),
			testPlayer("d", TeamRed),
			testPlayer("e", TeamBlue),
		}

		once := ArrangeRGB(players)
		twice := ArrangeRGB(once)
		assertOrder(t, twice, names(once)...)
	})

	t.Run("empty roster", func(t *testing.T) {
		if got := ArrangeRGB(nil); len(got) != 0 {
			t.Errorf("Expected empty result, got %v", names(got))
		}
	})
}
