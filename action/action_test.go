package action_test

import (
	"testing"

	"github.com/dronegrid/dronegrid/action"
)

func TestOffsets(t *testing.T) {
	cases := []struct {
		a      action.Action
		dy, dx int
	}{
		{action.Left, 0, -1},
		{action.Down, 1, 0},
		{action.Right, 0, 1},
		{action.Up, -1, 0},
		{action.Stay, 0, 0},
	}

	for _, c := range cases {
		dy, dx := c.a.Offset()
		if dy != c.dy || dx != c.dx {
			t.Errorf("%v.Offset() = (%d,%d), want (%d,%d)", c.a, dy, dx, c.dy, c.dx)
		}
	}
}

func TestValid(t *testing.T) {
	for i := 0; i < action.NumActions; i++ {
		if !action.Action(i).Valid() {
			t.Errorf("Action(%d) should be valid", i)
		}
	}
	if action.Action(-1).Valid() {
		t.Error("Action(-1) should not be valid")
	}
	if action.Action(5).Valid() {
		t.Error("Action(5) should not be valid")
	}
}

func TestFormat(t *testing.T) {
	s, err := action.Format(int(action.Left))
	if err != nil || s != "LEFT" {
		t.Errorf("Format(LEFT) = %q, %v", s, err)
	}

	if _, err := action.Format(99); err == nil {
		t.Error("Format(99) should return an error")
	}
}
