package file

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/tempotools/miditempo/internal/tempo"
)

// ReadSMF loads a MIDI file fully into memory. Only ticks-based time
// divisions are accepted.
func ReadSMF(path string) (*smf.SMF, error) {
	inBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %v: %w", path, err)
	}
	mid, err := smf.ReadFrom(bytes.NewReader(inBytes))
	if err != nil {
		return nil, fmt.Errorf("could not parse %v: %v", path, err)
	}
	if _, ok := mid.TimeFormat.(smf.MetricTicks); !ok {
		return nil, fmt.Errorf("%v: %w: %v", path, tempo.ErrUnsupportedDivision, mid.TimeFormat)
	}
	return mid, nil
}

// WriteSMF serializes the document fully in memory and then replaces path
// in one rename, so a failed write never leaves a partial file behind.
func WriteSMF(mid *smf.SMF, path string) (err error) {
	var buf bytes.Buffer
	if _, err := mid.WriteTo(&buf); err != nil {
		return fmt.Errorf("could not serialize %v: %v", path, err)
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".miditempo-*")
	if err != nil {
		return fmt.Errorf("could not create a temp file in %v: %w", dir, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()
	if _, err = f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("could not write %v: %w", tmp, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("could not close %v: %w", tmp, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("could not replace %v: %w", path, err)
	}
	return nil
}

// GetMidiBPM returns the primary tempo of the file, rounded to two
// decimals. Files without any tempo event report the 120 bpm default.
func GetMidiBPM(path string) (float64, error) {
	mid, err := ReadSMF(path)
	if err != nil {
		return 0, err
	}
	bpm, err := tempo.FirstBPM(mid)
	if err != nil {
		return 0, err
	}
	return tempo.RoundBPM(bpm), nil
}

// AverageBPM returns the time-weighted mean tempo of the file.
func AverageBPM(path string) (float64, error) {
	mid, err := ReadSMF(path)
	if err != nil {
		return 0, err
	}
	bpm, err := tempo.AverageBPM(mid)
	if err != nil {
		return 0, err
	}
	return tempo.RoundBPM(bpm), nil
}

// TempoChange is one tempo change reported to callers.
type TempoChange struct {
	Tick int64
	BPM  float64
}

// AllTempoChanges returns every tempo change of the file in tick order.
func AllTempoChanges(path string) ([]TempoChange, error) {
	mid, err := ReadSMF(path)
	if err != nil {
		return nil, err
	}
	m, err := tempo.Extract(mid)
	if err != nil {
		return nil, err
	}
	changes := make([]TempoChange, 0, len(m))
	for _, c := range m {
		changes = append(changes, TempoChange{
			Tick: c.Tick,
			BPM:  tempo.RoundBPM(c.BPM()),
		})
	}
	return changes, nil
}

// NormalizeTempo rewrites the file to the one target tempo, keeping the
// real-time offset of every event. An empty outPath overwrites the input.
func NormalizeTempo(inPath string, targetBPM float64, outPath string) error {
	if outPath == "" {
		outPath = inPath
	}
	mid, err := ReadSMF(inPath)
	if err != nil {
		return err
	}
	if err := tempo.Normalize(mid, targetBPM); err != nil {
		return err
	}
	return WriteSMF(mid, outPath)
}

// BPMChange reports a completed tempo change.
type BPMChange struct {
	OriginalBPM float64
	NewBPM      float64
	Path        string
}

// ChangeMidiBPM replaces every tempo event of the file with the target
// tempo, keeping all tick positions, and reports the original and new
// tempo. An empty outPath overwrites the input.
func ChangeMidiBPM(inPath, outPath string, targetBPM float64) (*BPMChange, error) {
	if outPath == "" {
		outPath = inPath
	}
	mid, err := ReadSMF(inPath)
	if err != nil {
		return nil, err
	}
	orig, err := tempo.FirstBPM(mid)
	if err != nil {
		return nil, err
	}
	if err := tempo.Shift(mid, targetBPM); err != nil {
		return nil, err
	}
	if err := WriteSMF(mid, outPath); err != nil {
		return nil, err
	}
	newBPM, err := tempo.FirstBPM(mid)
	if err != nil {
		return nil, err
	}
	return &BPMChange{
		OriginalBPM: tempo.RoundBPM(orig),
		NewBPM:      tempo.RoundBPM(newBPM),
		Path:        outPath,
	}, nil
}

// TempoFromMidi replaces every tempo event of the file with newTempo,
// keeping all tick positions. This fits transcription files that are
// nominally at 120 bpm while the intended tempo is something else. An
// empty outPath derives the name from the input, e.g. song.mid at 145 bpm
// becomes song_tempo145.mid. Returns the path written.
func TempoFromMidi(inPath string, newTempo float64, outPath string) (string, error) {
	mid, err := ReadSMF(inPath)
	if err != nil {
		return "", err
	}
	if err := tempo.Shift(mid, newTempo); err != nil {
		return "", err
	}
	if outPath == "" {
		outPath = derivedName(inPath, newTempo)
	}
	if err := WriteSMF(mid, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

// derivedName appends the target tempo to the input's stem.
func derivedName(path string, bpm float64) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s_tempo%s%s", stem, strconv.FormatFloat(bpm, 'f', -1, 64), ext)
}
