package flightstatus

import "fmt"

// BadgeCategory drives badge colouring only.
type BadgeCategory string

const (
	BadgeInfo    BadgeCategory = "info"
	BadgeWarning BadgeCategory = "warning"
	BadgeSuccess BadgeCategory = "success"
	BadgeDanger  BadgeCategory = "danger"
	BadgeNeutral BadgeCategory = "neutral"
)

// Description is the label and badge for a phase.
type Description struct {
	Label string        `json:"label"`
	Badge BadgeCategory `json:"badgeCategory"`
}

var descriptions = map[Phase]Description{
	PhaseNotDeparted: {Label: "Not Departed", Badge: BadgeNeutral},
	PhaseOut:         {Label: "Departed Gate", Badge: BadgeWarning},
	PhaseOff:         {Label: "In Flight", Badge: BadgeInfo},
	PhaseOn:          {Label: "Landed", Badge: BadgeInfo},
	PhaseIn:          {Label: "Arrived", Badge: BadgeSuccess},
	PhaseCanceled:    {Label: "Canceled", Badge: BadgeDanger},
}

// Describe looks up the label and badge for p.
func Describe(p Phase) Description {
	if d, ok := descriptions[p]; ok {
		return d
	}
	return Description{Label: "Unknown", Badge: BadgeNeutral}
}

// Status is the subset of a flight record that decides its status text.
// A nil delay counts as zero.
type Status struct {
	StatusCode            string
	IsCanceled            bool
	DepartureDelayMinutes *int
}

// Canceled reports whether the flag is set or the code itself is a
// cancellation.
func (s Status) Canceled() bool {
	if s.IsCanceled {
		return true
	}
	p, _ := ParsePhase(s.StatusCode, false)
	return p == PhaseCanceled
}

// DisplayStatus picks the status text: canceled, then a strictly positive
// departure delay, then the phase label.
func (c *Classifier) DisplayStatus(s Status) string {
	if s.Canceled() {
		return descriptions[PhaseCanceled].Label
	}
	if delay := DelayMinutes(s.DepartureDelayMinutes); delay > 0 {
		return fmt.Sprintf("Delayed %d min", delay)
	}
	return Describe(c.Classify(s.StatusCode, s.IsCanceled)).Label
}

// DelayMinutes dereferences an optional delay, treating nil as zero.
func DelayMinutes(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
