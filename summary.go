package avatargen

import "time"

// Summary aggregates the outcomes of one run.
type Summary struct {
	Mode        Mode
	Total       int
	Succeeded   int
	Skipped     int
	Failed      int
	Errors      []ItemError
	Outcomes    []Outcome
	UnitPrice   float64
	Interrupted bool
	Started     time.Time
	Finished    time.Time
}

func (s *Summary) add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.State {
	case StateSucceeded:
		s.Succeeded++
	case StateSkipped:
		s.Skipped++
	case StateFailed:
		s.Failed++
		s.Errors = append(s.Errors, ItemError{Name: o.Name, Err: o.Err})
	}
}

// Processed is the number of items that reached a final state.
func (s *Summary) Processed() int {
	return s.Succeeded + s.Skipped + s.Failed
}

// EstimatedCost is Succeeded × UnitPrice. It is a reporting estimate only.
func (s *Summary) EstimatedCost() float64 {
	return float64(s.Succeeded) * s.UnitPrice
}

// Duration is the wall time of the run.
func (s *Summary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}

// Guidance returns the follow-up steps printed after a run.
func (s *Summary) Guidance() []string {
	var lines []string
	switch s.Mode {
	case ModeInitial:
		lines = append(lines,
			"Review the new avatars in the output directory before publishing them.",
			"Re-run the same command to retry failures: existing avatars are skipped.",
		)
	case ModeTargeted:
		lines = append(lines,
			"Compare each regenerated avatar with its *"+BackupSuffix+AvatarExt+" copy.",
			"Delete the backups once you are happy; only the latest previous version is kept.",
		)
	}
	if s.Failed > 0 {
		lines = append(lines, "Failed authors are listed above and in the run log.")
	}
	if s.Interrupted {
		lines = append(lines, "The run was interrupted; the manifest reflects every avatar saved before that point.")
	}
	return lines
}
