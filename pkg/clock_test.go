package pkg

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	now := time.Unix(0, 0)
	cl := NewClock()
	cl.now = func() time.Time { return now }

	cl.Start()
	now = now.Add(90 * time.Second)
	if cl.Elapsed() != 90*time.Second || cl.String() != "1:30" {
		t.Errorf("running clock shows %v (%s)", cl.Elapsed(), cl)
	}
	cl.Pause()
	now = now.Add(time.Hour)
	cl.Start()
	now = now.Add(5 * time.Second)
	cl.Pause()
	if cl.Elapsed() != 95*time.Second {
		t.Errorf("elapsed %v, want 1m35s", cl.Elapsed())
	}
	cl.Reset()
	if cl.Elapsed() != 0 || cl.Running() {
		t.Errorf("reset clock shows %v", cl.Elapsed())
	}
}
