package file

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
)

// Process runs the tempo rewrite job described by the given options file.
// With addChecksum set, a missing input checksum is computed and recorded
// back into the job file after a successful run.
func Process(fsys fs.FS, optionsFile string, addChecksum bool) (*BPMChange, error) {
	options, err := ReadOptions(fsys, optionsFile)
	if err != nil {
		return nil, err
	}

	inBytes, err := os.ReadFile(options.InputFile)
	if err != nil {
		return nil, fmt.Errorf("could not read %v: %w", options.InputFile, err)
	}
	sum := fmt.Sprintf("%x", sha256.Sum256(inBytes))
	if options.InputFileSHA256 != "" && options.InputFileSHA256 != sum {
		return nil, fmt.Errorf("mismatching checksum of %v: got %v, want %v", options.InputFile, sum, options.InputFileSHA256)
	}

	outPath := options.OutputFile
	if outPath == "" {
		outPath = options.InputFile
	}

	var result *BPMChange
	switch options.Mode {
	case ModeNormalize:
		orig, err := GetMidiBPM(options.InputFile)
		if err != nil {
			return nil, err
		}
		if err := NormalizeTempo(options.InputFile, options.TargetBPM, outPath); err != nil {
			return nil, err
		}
		newBPM, err := GetMidiBPM(outPath)
		if err != nil {
			return nil, err
		}
		result = &BPMChange{OriginalBPM: orig, NewBPM: newBPM, Path: outPath}
	case ModeShift:
		result, err = ChangeMidiBPM(options.InputFile, outPath, options.TargetBPM)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown mode %q in %v", options.Mode, optionsFile)
	}

	if options.InputFileSHA256 == "" && addChecksum {
		options.InputFileSHA256 = sum
		if err := WriteOptions(optionsFile, options); err != nil {
			return nil, err
		}
	}

	return result, nil
}
