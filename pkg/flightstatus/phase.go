// Package flightstatus classifies raw flight status codes into canonical
// phases and derives the text shown for them.
package flightstatus

import (
	"strings"

	"flightwatch-service/pkg/logger"
)

// Phase is the canonical lifecycle stage of a flight.
//
// not_departed -> out -> off -> on -> in, with canceled reachable from any
// phase and terminal. Transitions only happen when upstream data changes.
type Phase string

const (
	PhaseNotDeparted Phase = "not_departed"
	PhaseOut         Phase = "out"
	PhaseOff         Phase = "off"
	PhaseOn          Phase = "on"
	PhaseIn          Phase = "in"
	PhaseCanceled    Phase = "canceled"
)

var phaseByCode = map[string]Phase{
	"ndpt":         PhaseNotDeparted,
	"not_departed": PhaseNotDeparted,
	"out":          PhaseOut,
	"off":          PhaseOff,
	"on":           PhaseOn,
	"in":           PhaseIn,
	"arrv":         PhaseIn,
	"cncl":         PhaseCanceled,
	"canceled":     PhaseCanceled,
}

var tokenByPhase = map[Phase]string{
	PhaseNotDeparted: "NDPT",
	PhaseOut:         "OUT",
	PhaseOff:         "OFF",
	PhaseOn:          "ON",
	PhaseIn:          "IN",
	PhaseCanceled:    "CNCL",
}

var order = map[Phase]int{
	PhaseNotDeparted: 0,
	PhaseOut:         1,
	PhaseOff:         2,
	PhaseOn:          3,
	PhaseIn:          4,
}

// Token returns the upper-case display token (NDPT, OUT, ...).
func (p Phase) Token() string {
	if t, ok := tokenByPhase[p]; ok {
		return t
	}
	return tokenByPhase[PhaseNotDeparted]
}

// Valid reports whether p is one of the canonical phases.
func (p Phase) Valid() bool {
	_, ok := tokenByPhase[p]
	return ok
}

// CanTransition reports whether next may follow p. Canceled is terminal.
// Repeating the current phase is allowed since refetches often return it.
func (p Phase) CanTransition(next Phase) bool {
	if !p.Valid() || !next.Valid() {
		return false
	}
	if p == PhaseCanceled {
		return next == PhaseCanceled
	}
	if next == PhaseCanceled {
		return true
	}
	return order[next] >= order[p]
}

// ParsePhase maps a raw status code to a phase. Cancellation always wins.
// The second result is false when the code was not recognised, in which case
// the phase is PhaseNotDeparted.
func ParsePhase(statusCode string, isCanceled bool) (Phase, bool) {
	if isCanceled {
		return PhaseCanceled, true
	}
	p, ok := phaseByCode[strings.ToLower(strings.TrimSpace(statusCode))]
	if !ok {
		return PhaseNotDeparted, false
	}
	return p, true
}

// Classifier wraps ParsePhase with a warning for unknown codes.
type Classifier struct {
	logger    logger.Logger
	onUnknown func(code string)
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithUnknownHook registers fn to be called for every unrecognised code.
func WithUnknownHook(fn func(code string)) Option {
	return func(c *Classifier) {
		c.onUnknown = fn
	}
}

// NewClassifier creates a classifier that reports unknown codes to log.
func NewClassifier(log logger.Logger, opts ...Option) *Classifier {
	c := &Classifier{logger: log}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the phase for a status code. Unknown codes fall back to
// PhaseNotDeparted.
func (c *Classifier) Classify(statusCode string, isCanceled bool) Phase {
	p, ok := ParsePhase(statusCode, isCanceled)
	if !ok {
		if c.logger != nil {
			c.logger.Warn("Unknown flight status code, falling back to not departed", "statusCode", statusCode)
		}
		if c.onUnknown != nil {
			c.onUnknown(statusCode)
		}
	}
	return p
}
