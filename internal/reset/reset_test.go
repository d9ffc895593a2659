package reset

import (
	"testing"
	"time"
)

func TestShouldFire(t *testing.T) {
	at := func(s string) time.Time {
		ts, err := time.Parse("2006-01-02 15:04:05", s)
		if err != nil {
			t.Fatalf("bad test time %q: %v", s, err)
		}
		return ts
	}

	tests := []struct {
		name       string
		now        time.Time
		resetTime  string
		lastFired  string
		wantFire   bool
		wantMinute string
	}{
		{
			name:       "matching minute fires",
			now:        at("2026-03-01 03:00:00"),
			resetTime:  "03:00",
			lastFired:  "",
			wantFire:   true,
			wantMinute: "2026-03-01 03:00",
		},
		{
			name:       "late in matching minute still fires",
			now:        at("2026-03-01 03:00:59"),
			resetTime:  "03:00",
			lastFired:  "",
			wantFire:   true,
			wantMinute: "2026-03-01 03:00",
		},
		{
			name:       "non-matching minute does not fire",
			now:        at("2026-03-01 03:01:00"),
			resetTime:  "03:00",
			lastFired:  "",
			wantFire:   false,
			wantMinute: "",
		},
		{
			name:       "second tick in same minute is latched",
			now:        at("2026-03-01 03:00:30"),
			resetTime:  "03:00",
			lastFired:  "2026-03-01 03:00",
			wantFire:   false,
			wantMinute: "2026-03-01 03:00",
		},
		{
			name:       "same clock time next day fires again",
			now:        at("2026-03-02 03:00:00"),
			resetTime:  "03:00",
			lastFired:  "2026-03-01 03:00",
			wantFire:   true,
			wantMinute: "2026-03-02 03:00",
		},
		{
			name:       "malformed reset time never fires",
			now:        at("2026-03-01 03:00:00"),
			resetTime:  "3am",
			lastFired:  "",
			wantFire:   false,
			wantMinute: "",
		},
		{
			name:       "empty reset time never fires",
			now:        at("2026-03-01 03:00:00"),
			resetTime:  "",
			lastFired:  "",
			wantFire:   false,
			wantMinute: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fire, minute := shouldFire(tt.now, tt.resetTime, tt.lastFired)
			if fire != tt.wantFire {
				t.Errorf("shouldFire() fire = %v, want %v", fire, tt.wantFire)
			}
			if minute != tt.wantMinute {
				t.Errorf("shouldFire() minute = %q, want %q", minute, tt.wantMinute)
			}
		})
	}
}

func TestRunnerOverlapGuard(t *testing.T) {
	r := &Runner{}
	if !r.running.CompareAndSwap(false, true) {
		t.Fatal("expected idle runner to acquire the guard")
	}
	if r.running.CompareAndSwap(false, true) {
		t.Error("expected running runner to reject a second acquisition")
	}
	r.running.Store(false)
	if !r.running.CompareAndSwap(false, true) {
		t.Error("expected released runner to acquire the guard again")
	}
}
