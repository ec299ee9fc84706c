package tempo

import (
	"fmt"
	"math"

	"gitlab.com/gomidi/midi/v2/smf"
)

// Normalize rewrites the document to a single constant tempo while keeping
// the real-time offset of every event: each event's tick position is
// recomputed from its absolute time under the original tempo map. All
// existing tempo events are dropped in favor of one event at tick 0.
func Normalize(mid *smf.SMF, bpm float64) error {
	if bpm <= 0 || math.IsInf(bpm, 0) || math.IsNaN(bpm) {
		return fmt.Errorf("%w: %v bpm", ErrInvalidTempo, bpm)
	}
	ppq, ok := mid.TimeFormat.(smf.MetricTicks)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnsupportedDivision, mid.TimeFormat)
	}
	m, err := Extract(mid)
	if err != nil {
		return err
	}
	tempoMsg := smf.MetaTempo(bpm)
	// Derive the tick length from the event as encoded, so that our
	// positions agree exactly with what a player of the output will see.
	us, err := micros(tempoMsg)
	if err != nil {
		return fmt.Errorf("%w: %v bpm", ErrInvalidTempo, bpm)
	}
	spt := secondsPerTick(us, ppq)

	numTracks := len(mid.Tracks)
	if numTracks == 0 {
		numTracks = 1
	}
	tracks := make([]smf.Track, numTracks)
	trackTime := make([]int64, numTracks)
	tracks[0] = append(tracks[0], smf.Event{
		Delta:   0,
		Message: tempoMsg,
	})
	err = ForEachEventWithTime(mid, func(time int64, track int, msg smf.Message) error {
		if msg.Is(smf.MetaTempoMsg) {
			return nil
		}
		newTick := int64(math.Round(m.TickToSeconds(time, ppq) / spt))
		tracks[track] = append(tracks[track], smf.Event{
			Delta:   uint32(newTick - trackTime[track]),
			Message: msg,
		})
		trackTime[track] = newTick
		return nil
	})
	if err != nil {
		return err
	}
	mid.Tracks = tracks
	return nil
}
