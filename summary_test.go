package avatargen

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSummary_Counts(t *testing.T) {
	s := &Summary{Mode: ModeInitial, Total: 4, UnitPrice: 0.039}
	s.add(Outcome{Name: "Plato", State: StateSucceeded})
	s.add(Outcome{Name: "Kant", State: StateSkipped})
	s.add(Outcome{Name: "Hume", State: StateFailed, Err: errors.New("boom")})
	s.add(Outcome{Name: "Locke", State: StateSucceeded})

	if s.Succeeded != 2 || s.Skipped != 1 || s.Failed != 1 || s.Processed() != 4 {
		t.Errorf("unexpected counts %+v", s)
	}
	if len(s.Errors) != 1 || s.Errors[0].Name != "Hume" {
		t.Errorf("unexpected errors %v", s.Errors)
	}
	if got := s.EstimatedCost(); got < 0.0779 || got > 0.0781 {
		t.Errorf("EstimatedCost = %v, want 0.078", got)
	}
	if s.Errors[0].Error() != "Hume: boom" {
		t.Errorf("ItemError = %q", s.Errors[0].Error())
	}
}

func TestSummary_Duration(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Summary{Started: start}
	if s.Duration() != 0 {
		t.Error("unfinished run should report zero duration")
	}
	s.Finished = start.Add(90 * time.Second)
	if s.Duration() != 90*time.Second {
		t.Errorf("Duration = %v", s.Duration())
	}
}

func TestSummary_Guidance(t *testing.T) {
	initial := (&Summary{Mode: ModeInitial}).Guidance()
	if !strings.Contains(strings.Join(initial, "\n"), "skipped") {
		t.Errorf("initial guidance should mention re-running: %v", initial)
	}

	targeted := &Summary{Mode: ModeTargeted, Failed: 1, Interrupted: true}
	text := strings.Join(targeted.Guidance(), "\n")
	for _, want := range []string{".backup.png", "Failed authors", "interrupted"} {
		if !strings.Contains(text, want) {
			t.Errorf("targeted guidance missing %q:\n%s", want, text)
		}
	}
}
