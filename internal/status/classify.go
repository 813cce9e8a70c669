package status

import (
	"time"

	"github.com/goodtune/qqhelper/internal/session"
)

// State is the derived play state of an account.
type State string

const (
	StateUnknown State = "unknown"
	StateInPlay  State = "in-play"
	StatePaused  State = "paused"
	StateRested  State = "rested"
)

// States lists every state in display order.
var States = []State{StateInPlay, StatePaused, StateRested, StateUnknown}

// Classification is the result of classifying one account's latest session.
// At most one of PauseTime and InPlayTime is set.
type Classification struct {
	State      State
	InGame     bool
	PauseTime  string
	InPlayTime string
}

// Classify derives the state of s at now. A closed session counts as rested
// once at least restThreshold has passed since it ended.
func Classify(s *session.Resolved, now time.Time, restThreshold time.Duration) Classification {
	if s == nil {
		return Classification{State: StateUnknown}
	}

	if s.Open() {
		return Classification{
			State:      StateInPlay,
			InGame:     true,
			InPlayTime: FormatDuration(minutesBetween(s.Start, now)),
		}
	}

	since := now.Sub(*s.End).Milliseconds()
	elapsedHours := float64(since) / float64(time.Hour/time.Millisecond)

	state := StatePaused
	if elapsedHours >= restThreshold.Hours() {
		state = StateRested
	}

	return Classification{
		State:     state,
		PauseTime: FormatDuration(minutesBetween(*s.End, now)),
	}
}

func minutesBetween(from, to time.Time) float64 {
	return float64(to.Sub(from).Milliseconds()) / float64(time.Minute/time.Millisecond)
}
