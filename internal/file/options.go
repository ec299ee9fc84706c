package file

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Job modes.
const (
	ModeNormalize = "normalize"
	ModeShift     = "shift"
)

// Options describes one tempo rewrite job.
type Options struct {
	// InputFile is the SMF file to rewrite.
	InputFile string `yaml:"input_file"`

	// InputFileSHA256 pins the input to a known checksum; empty skips the
	// check.
	InputFileSHA256 string `yaml:"input_file_sha256,omitempty"`

	// OutputFile is where the result goes; empty overwrites the input.
	OutputFile string `yaml:"output_file,omitempty"`

	// TargetBPM is the tempo to rewrite to.
	TargetBPM float64 `yaml:"target_bpm"`

	// Mode selects normalize (keep real-time offsets) or shift (keep
	// ticks).
	Mode string `yaml:"mode"`
}

func ReadOptions(fsys fs.FS, optionsFile string) (*Options, error) {
	f, err := fsys.Open(optionsFile)
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %w", optionsFile, err)
	}
	defer f.Close()
	var options Options
	err = yaml.NewDecoder(f).Decode(&options)
	if err != nil {
		return nil, fmt.Errorf("could not decode %v: %v", optionsFile, err)
	}
	return &options, nil
}

func WriteOptions(optionsFile string, options *Options) (err error) {
	f, err := os.Create(optionsFile)
	if err != nil {
		return fmt.Errorf("could not recreate %v: %w", optionsFile, err)
	}
	defer func() {
		closeErr := f.Close()
		if closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2) // Match yq.
	return enc.Encode(options)
}
