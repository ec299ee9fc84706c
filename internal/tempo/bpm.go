package tempo

import (
	"fmt"
	"math"

	"gitlab.com/gomidi/midi/v2/smf"
)

// RoundBPM rounds a tempo to two decimals, the precision used when
// reporting tempos to callers.
func RoundBPM(bpm float64) float64 {
	return math.Round(bpm*100) / 100
}

// FirstBPM returns the first tempo of the document in scan order (track
// index, then event order), or the 120 BPM default if the document has no
// tempo event at all.
func FirstBPM(mid *smf.SMF) (float64, error) {
	for _, t := range mid.Tracks {
		for _, ev := range t {
			if !ev.Message.Is(smf.MetaTempoMsg) {
				continue
			}
			us, err := micros(ev.Message)
			if err != nil {
				return 0, err
			}
			return Change{MicrosPerQuarter: us}.BPM(), nil
		}
	}
	return Change{MicrosPerQuarter: DefaultMicrosPerQuarter}.BPM(), nil
}

// AverageBPM returns the mean tempo of the document, weighted by the
// real-time length of each constant-tempo segment. The last segment only
// counts up to the last event of the piece.
func AverageBPM(mid *smf.SMF) (float64, error) {
	ppq, ok := mid.TimeFormat.(smf.MetricTicks)
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedDivision, mid.TimeFormat)
	}
	m, err := Extract(mid)
	if err != nil {
		return 0, err
	}
	end := lastEventTick(mid)
	var total, weighted float64
	for i, c := range m {
		if c.Tick >= end {
			break
		}
		segEnd := end
		if i+1 < len(m) && m[i+1].Tick < segEnd {
			segEnd = m[i+1].Tick
		}
		d := float64(segEnd-c.Tick) * secondsPerTick(c.MicrosPerQuarter, ppq)
		total += d
		weighted += d * c.BPM()
	}
	if total == 0 {
		return 0, fmt.Errorf("%w: nothing to average over", ErrEmptyDocument)
	}
	return weighted / total, nil
}
