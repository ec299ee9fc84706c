package tempo

import (
	"fmt"
	"math"

	"gitlab.com/gomidi/midi/v2/smf"
)

// Shift replaces the payload of every tempo event with the target tempo,
// leaving every tick position and delta untouched. The real-time duration
// of the piece scales accordingly. If the file has several tempo changes,
// all of them collapse to the one target tempo. A document without any
// tempo event keeps playing at the implicit 120 BPM default, so none is
// inserted.
func Shift(mid *smf.SMF, bpm float64) error {
	if bpm <= 0 || math.IsInf(bpm, 0) || math.IsNaN(bpm) {
		return fmt.Errorf("%w: %v bpm", ErrInvalidTempo, bpm)
	}
	for ti, t := range mid.Tracks {
		var time int64
		for ei, ev := range t {
			time += int64(ev.Delta)
			if !ev.Message.Is(smf.MetaTempoMsg) {
				continue
			}
			if _, err := micros(ev.Message); err != nil {
				return fmt.Errorf("at tick %d: %w", time, err)
			}
			mid.Tracks[ti][ei].Message = smf.MetaTempo(bpm)
		}
	}
	return nil
}
