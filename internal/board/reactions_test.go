package board

import "testing"

func TestCountDelta(t *testing.T) {
	tests := []struct {
		name     string
		removing bool
		wrote    bool
		want     int64
	}{
		{"add that landed increments", false, true, 1},
		{"add lost to concurrent duplicate", false, false, 0},
		{"remove that landed decrements", true, true, -1},
		{"remove lost to concurrent removal", true, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countDelta(tt.removing, tt.wrote); got != tt.want {
				t.Errorf("countDelta(%v, %v) = %d, want %d", tt.removing, tt.wrote, got, tt.want)
			}
		})
	}
}

// Two full toggles of the same triple must cancel out even when one leg loses
// a race: the losing leg contributes zero, never a second decrement.
func TestCountDeltaInvolution(t *testing.T) {
	if d := countDelta(false, true) + countDelta(true, true); d != 0 {
		t.Errorf("add then remove drifts count by %d", d)
	}
	if d := countDelta(true, true) + countDelta(true, false); d != -1 {
		t.Errorf("concurrent removals drift count by %d, want -1 total", d)
	}
}
