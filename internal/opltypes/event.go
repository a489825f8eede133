package opltypes

import (
	"fmt"
	"strings"
)

// Event is a 3-bit set of {Squat, Bench, Deadlift}, describing which
// disciplines a lifter contested at a given entry.
type Event uint8

const (
	flagSquat    Event = 0b100
	flagBench    Event = 0b010
	flagDeadlift Event = 0b001
	flagPushPull Event = flagBench | flagDeadlift
	flagFullPow  Event = flagSquat | flagBench | flagDeadlift
)

// SBD constructs the full-power event.
func SBD() Event { return flagFullPow }

// BD constructs the push-pull event.
func BD() Event { return flagPushPull }

// SB constructs squat+bench only.
func SB() Event { return flagSquat | flagBench }

// SD constructs squat+deadlift only.
func SD() Event { return flagSquat | flagDeadlift }

// SOnly constructs squat-only.
func SOnly() Event { return flagSquat }

// BOnly constructs bench-only.
func BOnly() Event { return flagBench }

// DOnly constructs deadlift-only.
func DOnly() Event { return flagDeadlift }

func (e Event) HasSquat() bool    { return e&flagSquat != 0 }
func (e Event) HasBench() bool    { return e&flagBench != 0 }
func (e Event) HasDeadlift() bool { return e&flagDeadlift != 0 }
func (e Event) HasPushPull() bool { return e&flagPushPull == flagPushPull }
func (e Event) IsFullPower() bool { return e == flagFullPow }
func (e Event) IsPushPull() bool  { return e == flagPushPull }
func (e Event) IsSquatOnly() bool { return e == flagSquat }
func (e Event) IsBenchOnly() bool { return e == flagBench }
func (e Event) IsDeadliftOnly() bool { return e == flagDeadlift }

// String renders the event as its canonical letter combination, e.g. "SBD".
func (e Event) String() string {
	var b strings.Builder
	if e.HasSquat() {
		b.WriteByte('S')
	}
	if e.HasBench() {
		b.WriteByte('B')
	}
	if e.HasDeadlift() {
		b.WriteByte('D')
	}
	return b.String()
}

// ParseEvent parses the canonical letter-combination encoding of an
// Event, rejecting empty strings, unknown characters, and duplicates.
func ParseEvent(s string) (Event, error) {
	if s == "" {
		return 0, fmt.Errorf("opltypes: empty event")
	}
	var bits Event
	for _, c := range s {
		var flag Event
		switch c {
		case 'S':
			flag = flagSquat
		case 'B':
			flag = flagBench
		case 'D':
			flag = flagDeadlift
		default:
			return 0, fmt.Errorf("opltypes: unexpected event character %q", c)
		}
		if bits&flag != 0 {
			return 0, fmt.Errorf("opltypes: duplicate %q character in event %q", c, s)
		}
		bits |= flag
	}
	return bits, nil
}
