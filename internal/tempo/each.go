package tempo

import (
	"errors"

	"gitlab.com/gomidi/midi/v2/smf"
)

// StopIteration can be returned to return without failure.
var StopIteration = errors.New("ForEachEventWithTime: StopIteration")

// ForEachEventWithTime runs the given function for each event of each track
// in absolute time order, skipping end-of-track markers. Events at the same
// tick come in track order, and in event order within a track.
func ForEachEventWithTime(mid *smf.SMF, yield func(time int64, track int, msg smf.Message) error) error {
	// trackPos is the index of the NEXT event from each track.
	trackPos := make([]int, len(mid.Tracks))
	// trackTime is the time of the LAST event from each track.
	trackTime := make([]int64, len(mid.Tracks))
	for {
		earliestTrack := -1
		var earliestTime int64
		for i, t := range mid.Tracks {
			p := trackPos[i]
			if p >= len(t) {
				// End of track.
				continue
			}
			time := trackTime[i] + int64(t[p].Delta)
			if earliestTrack < 0 || time < earliestTime {
				earliestTime = time
				earliestTrack = i
			}
		}
		if earliestTrack < 0 {
			// End of MIDI.
			return nil
		}
		msg := mid.Tracks[earliestTrack][trackPos[earliestTrack]].Message
		trackPos[earliestTrack]++
		trackTime[earliestTrack] = earliestTime
		if msg.Is(smf.MetaEndOfTrackMsg) {
			continue
		}
		err := yield(earliestTime, earliestTrack, msg)
		if errors.Is(err, StopIteration) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
