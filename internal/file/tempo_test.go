package file

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/tempotools/miditempo/internal/tempo"
)

// writeTestSMF writes a two-track document with the given tempos to dir
// and returns its path. Tempo ticks are absolute; one note runs from tick
// 960 to tick 1920.
func writeTestSMF(t *testing.T, dir, name string, tempos []tempo.Change) string {
	t.Helper()
	var tr smf.Track
	var last int64
	for _, c := range tempos {
		tr.Add(uint32(c.Tick-last), smf.MetaTempo(c.BPM()))
		last = c.Tick
	}
	tr.Close(0)
	var notes smf.Track
	notes.Add(960, midi.NoteOn(0, 60, 100))
	notes.Add(960, midi.NoteOff(0, 60))
	notes.Close(0)
	mid := smf.NewSMF1()
	mid.TimeFormat = smf.MetricTicks(480)
	mid.Add(tr)
	mid.Add(notes)
	path := filepath.Join(dir, name)
	if err := mid.WriteFile(path); err != nil {
		t.Fatalf("WriteFile(%v): %v", path, err)
	}
	return path
}

func TestGetMidiBPM(t *testing.T) {
	path := writeTestSMF(t, t.TempDir(), "in.mid", []tempo.Change{
		{Tick: 0, MicrosPerQuarter: 428571},
		{Tick: 960, MicrosPerQuarter: 500000},
	})
	bpm, err := GetMidiBPM(path)
	if err != nil {
		t.Fatalf("GetMidiBPM: %v", err)
	}
	if bpm != 140 {
		t.Errorf("GetMidiBPM = %v, want 140", bpm)
	}
}

func TestGetMidiBPMNotFound(t *testing.T) {
	_, err := GetMidiBPM(filepath.Join(t.TempDir(), "missing.mid"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("GetMidiBPM = %v, want fs.ErrNotExist", err)
	}
}

func TestAllTempoChanges(t *testing.T) {
	path := writeTestSMF(t, t.TempDir(), "in.mid", []tempo.Change{
		{Tick: 0, MicrosPerQuarter: 500000},
		{Tick: 960, MicrosPerQuarter: 250000},
	})
	changes, err := AllTempoChanges(path)
	if err != nil {
		t.Fatalf("AllTempoChanges: %v", err)
	}
	want := []TempoChange{
		{Tick: 0, BPM: 120},
		{Tick: 960, BPM: 240},
	}
	if !reflect.DeepEqual(changes, want) {
		t.Errorf("AllTempoChanges = %v, want %v", changes, want)
	}
}

func TestAverageBPMFile(t *testing.T) {
	path := writeTestSMF(t, t.TempDir(), "in.mid", []tempo.Change{
		{Tick: 0, MicrosPerQuarter: 500000},
		{Tick: 960, MicrosPerQuarter: 250000},
	})
	bpm, err := AverageBPM(path)
	if err != nil {
		t.Fatalf("AverageBPM: %v", err)
	}
	if bpm != 160 {
		t.Errorf("AverageBPM = %v, want 160", bpm)
	}
}

func TestNormalizeTempoFile(t *testing.T) {
	dir := t.TempDir()
	in := writeTestSMF(t, dir, "in.mid", []tempo.Change{
		{Tick: 0, MicrosPerQuarter: 500000},
	})
	out := filepath.Join(dir, "out.mid")
	if err := NormalizeTempo(in, 240, out); err != nil {
		t.Fatalf("NormalizeTempo: %v", err)
	}
	changes, err := AllTempoChanges(out)
	if err != nil {
		t.Fatalf("AllTempoChanges: %v", err)
	}
	if len(changes) != 1 || changes[0].BPM != 240 {
		t.Errorf("tempo map of output = %v, want single 240 bpm entry", changes)
	}
	// Real-time offsets survive: the note that was at 1.0s is still at
	// 1.0s, which at 240 bpm is tick 1920.
	mid, err := ReadSMF(out)
	if err != nil {
		t.Fatalf("ReadSMF: %v", err)
	}
	m, err := tempo.Extract(mid)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	var noteTick int64 = -1
	tempo.ForEachEventWithTime(mid, func(time int64, track int, msg smf.Message) error {
		if noteTick < 0 && msg.Is(midi.NoteOnMsg) {
			noteTick = time
		}
		return nil
	})
	if noteTick != 1920 {
		t.Errorf("note starts at tick %d, want 1920", noteTick)
	}
	if got := m.TickToSeconds(noteTick, 480); got != 1.0 {
		t.Errorf("note starts at %vs, want 1.0s", got)
	}
}

func TestNormalizeTempoOverwritesInput(t *testing.T) {
	dir := t.TempDir()
	in := writeTestSMF(t, dir, "in.mid", []tempo.Change{
		{Tick: 0, MicrosPerQuarter: 500000},
	})
	if err := NormalizeTempo(in, 90, ""); err != nil {
		t.Fatalf("NormalizeTempo: %v", err)
	}
	bpm, err := GetMidiBPM(in)
	if err != nil {
		t.Fatalf("GetMidiBPM: %v", err)
	}
	if bpm != 90 {
		t.Errorf("GetMidiBPM after overwrite = %v, want 90", bpm)
	}
}

func TestChangeMidiBPMFile(t *testing.T) {
	dir := t.TempDir()
	in := writeTestSMF(t, dir, "in.mid", []tempo.Change{
		{Tick: 0, MicrosPerQuarter: 500000},
	})
	out := filepath.Join(dir, "out.mid")
	result, err := ChangeMidiBPM(in, out, 150)
	if err != nil {
		t.Fatalf("ChangeMidiBPM: %v", err)
	}
	if result.OriginalBPM != 120 || result.NewBPM != 150 || result.Path != out {
		t.Errorf("ChangeMidiBPM = %+v, want 120 -> 150 at %v", result, out)
	}
	bpm, err := GetMidiBPM(out)
	if err != nil {
		t.Fatalf("GetMidiBPM: %v", err)
	}
	if bpm != 150 {
		t.Errorf("GetMidiBPM = %v, want 150", bpm)
	}
}

func TestTempoFromMidiDerivesName(t *testing.T) {
	dir := t.TempDir()
	in := writeTestSMF(t, dir, "song.mid", []tempo.Change{
		{Tick: 0, MicrosPerQuarter: 500000},
	})
	out, err := TempoFromMidi(in, 145, "")
	if err != nil {
		t.Fatalf("TempoFromMidi: %v", err)
	}
	want := filepath.Join(dir, "song_tempo145.mid")
	if out != want {
		t.Errorf("TempoFromMidi = %v, want %v", out, want)
	}
	bpm, err := GetMidiBPM(out)
	if err != nil {
		t.Fatalf("GetMidiBPM: %v", err)
	}
	if bpm != 145 {
		t.Errorf("GetMidiBPM = %v, want 145", bpm)
	}
}

func TestInvalidTempoLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeTestSMF(t, dir, "in.mid", []tempo.Change{
		{Tick: 0, MicrosPerQuarter: 500000},
	})
	out := filepath.Join(dir, "out.mid")

	if err := NormalizeTempo(in, 0, out); !errors.Is(err, tempo.ErrInvalidTempo) {
		t.Errorf("NormalizeTempo(0) = %v, want ErrInvalidTempo", err)
	}
	if _, err := ChangeMidiBPM(in, out, -3); !errors.Is(err, tempo.ErrInvalidTempo) {
		t.Errorf("ChangeMidiBPM(-3) = %v, want ErrInvalidTempo", err)
	}
	if _, err := TempoFromMidi(in, 0, out); !errors.Is(err, tempo.ErrInvalidTempo) {
		t.Errorf("TempoFromMidi(0) = %v, want ErrInvalidTempo", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("output file exists after failed transforms (stat: %v)", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("stray files left behind: %v", entries)
	}
}
