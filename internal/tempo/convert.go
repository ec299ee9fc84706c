package tempo

import (
	"fmt"
	"math"

	"gitlab.com/gomidi/midi/v2/smf"
)

// secondsPerTick returns the real-time length of one tick at the given
// tempo and resolution.
func secondsPerTick(us int64, ppq smf.MetricTicks) float64 {
	return float64(us) / 1000000 / float64(ppq)
}

// TickToSeconds converts an absolute tick position to absolute seconds by
// accumulating the real-time length of each constant-tempo segment before
// it. The map must start at tick 0, as maps built by Extract do.
func (m Map) TickToSeconds(tick int64, ppq smf.MetricTicks) float64 {
	var secs float64
	for i, c := range m {
		if c.Tick >= tick {
			break
		}
		end := tick
		if i+1 < len(m) && m[i+1].Tick < end {
			end = m[i+1].Tick
		}
		secs += float64(end-c.Tick) * secondsPerTick(c.MicrosPerQuarter, ppq)
	}
	return secs
}

// SecondsToTick is the inverse of TickToSeconds. The residual offset within
// the final segment is rounded to the nearest tick, not truncated, so
// repeated round trips do not drift; a single round trip may still be off
// by one tick.
func (m Map) SecondsToTick(seconds float64, ppq smf.MetricTicks) int64 {
	var secs float64
	for i, c := range m {
		spt := secondsPerTick(c.MicrosPerQuarter, ppq)
		if i+1 < len(m) {
			d := float64(m[i+1].Tick-c.Tick) * spt
			if secs+d < seconds {
				secs += d
				continue
			}
		}
		return c.Tick + int64(math.Round((seconds-secs)/spt))
	}
	return 0
}

// lastEventTick returns the absolute tick of the last event of the
// document, not counting end-of-track markers.
func lastEventTick(mid *smf.SMF) int64 {
	var last int64
	ForEachEventWithTime(mid, func(time int64, track int, msg smf.Message) error {
		if time > last {
			last = time
		}
		return nil
	})
	return last
}

// Duration returns the real-time length of the document in seconds.
func Duration(mid *smf.SMF) (float64, error) {
	ppq, ok := mid.TimeFormat.(smf.MetricTicks)
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedDivision, mid.TimeFormat)
	}
	m, err := Extract(mid)
	if err != nil {
		return 0, err
	}
	return m.TickToSeconds(lastEventTick(mid), ppq), nil
}
