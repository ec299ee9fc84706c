package tempo

import (
	"log"

	"gitlab.com/gomidi/midi/v2/smf"
)

// Dump prints the tempo map of the document in concise form.
func Dump(prefix string, mid *smf.SMF) error {
	m, err := Extract(mid)
	if err != nil {
		return err
	}
	for _, c := range m {
		log.Printf("%s: @ %d: tempo is %.2f bpm.", prefix, c.Tick, c.BPM())
	}
	d, err := Duration(mid)
	if err != nil {
		return err
	}
	log.Printf("%s: %d events, %.3f seconds.", prefix, countEvents(mid), d)
	return nil
}

func countEvents(mid *smf.SMF) int {
	var n int
	ForEachEventWithTime(mid, func(time int64, track int, msg smf.Message) error {
		n++
		return nil
	})
	return n
}
