package tempo

import (
	"fmt"
	"math"
	"slices"

	"gitlab.com/gomidi/midi/v2/smf"
)

// DefaultMicrosPerQuarter is the tempo assumed before the first tempo event
// of a file, per the SMF default of 120 BPM.
const DefaultMicrosPerQuarter = 500000

// Change is one entry of a tempo map: from Tick on, each quarter note lasts
// MicrosPerQuarter microseconds until the next entry takes over.
type Change struct {
	Tick             int64
	MicrosPerQuarter int64
}

// BPM returns the tempo of this entry in beats per minute.
func (c Change) BPM() float64 {
	return 60000000 / float64(c.MicrosPerQuarter)
}

// Map is the ordered tempo map of a document. A map built by Extract always
// starts at tick 0.
type Map []Change

// micros decodes a tempo meta event into microseconds per quarter note.
func micros(msg smf.Message) (int64, error) {
	var bpm float64
	if !msg.GetMetaTempo(&bpm) {
		return 0, fmt.Errorf("%w: % X", ErrMalformedTempoEvent, []byte(msg))
	}
	if math.IsInf(bpm, 0) || bpm <= 0 {
		return 0, fmt.Errorf("%w: %v bpm is not encodable", ErrMalformedTempoEvent, bpm)
	}
	us := int64(math.Round(60000000 / bpm))
	if us <= 0 {
		return 0, fmt.Errorf("%w: %d µs per quarter note", ErrMalformedTempoEvent, us)
	}
	return us, nil
}

// Extract scans every track of the document and builds its tempo map.
// Entries are sorted by tick; of several changes at the same tick, the last
// one in scan order wins, matching event stream semantics. A document with
// no tempo event before tick 0 gets the implicit 120 BPM default.
func Extract(mid *smf.SMF) (Map, error) {
	var m Map
	for _, t := range mid.Tracks {
		var time int64
		for _, ev := range t {
			time += int64(ev.Delta)
			if !ev.Message.Is(smf.MetaTempoMsg) {
				continue
			}
			us, err := micros(ev.Message)
			if err != nil {
				return nil, fmt.Errorf("at tick %d: %w", time, err)
			}
			m = append(m, Change{Tick: time, MicrosPerQuarter: us})
		}
	}
	// If there are multiple tempo changes at the same tick, only keep the
	// LAST one. As CompactFunc keeps the first of a set of duplicates, we
	// first reverse and then sort stably.
	slices.Reverse(m)
	slices.SortStableFunc(m, func(a, b Change) int {
		if a.Tick < b.Tick {
			return -1
		}
		if a.Tick > b.Tick {
			return +1
		}
		return 0
	})
	m = slices.CompactFunc(m, func(a, b Change) bool {
		return a.Tick == b.Tick
	})
	if len(m) == 0 || m[0].Tick > 0 {
		m = append(Map{{Tick: 0, MicrosPerQuarter: DefaultMicrosPerQuarter}}, m...)
	}
	// Consecutive identical tempos are redundant.
	m = slices.CompactFunc(m, func(a, b Change) bool {
		return a.MicrosPerQuarter == b.MicrosPerQuarter
	})
	return m, nil
}
