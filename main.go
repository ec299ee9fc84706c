package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tempotools/miditempo/internal/file"
	"github.com/tempotools/miditempo/internal/tempo"
	"github.com/tempotools/miditempo/internal/version"
)

var (
	i           = flag.String("i", "", "input file name")
	o           = flag.String("o", "", "output file name (empty: overwrite the input, or derive a name in derive mode)")
	targetBPM   = flag.Float64("bpm", 0, "target tempo in beats per minute")
	mode        = flag.String("mode", "bpm", "operation: bpm, changes, average, normalize, shift or derive")
	dump        = flag.Bool("dump", false, "log the tempo map of the input")
	showVersion = flag.Bool("version", false, "print the version and exit")
)

func Main() error {
	if *showVersion {
		fmt.Println(version.Version())
		return nil
	}
	if *i == "" {
		return fmt.Errorf("missing -i flag")
	}
	if *dump {
		mid, err := file.ReadSMF(*i)
		if err != nil {
			return err
		}
		err = tempo.Dump(*i, mid)
		if err != nil {
			return err
		}
	}
	switch *mode {
	case "bpm":
		bpm, err := file.GetMidiBPM(*i)
		if err != nil {
			return err
		}
		fmt.Printf("%.2f\n", bpm)
	case "changes":
		changes, err := file.AllTempoChanges(*i)
		if err != nil {
			return err
		}
		for _, c := range changes {
			fmt.Printf("%d\t%.2f\n", c.Tick, c.BPM)
		}
	case "average":
		bpm, err := file.AverageBPM(*i)
		if err != nil {
			return err
		}
		fmt.Printf("%.2f\n", bpm)
	case "normalize":
		err := file.NormalizeTempo(*i, *targetBPM, *o)
		if err != nil {
			return err
		}
	case "shift":
		result, err := file.ChangeMidiBPM(*i, *o, *targetBPM)
		if err != nil {
			return err
		}
		log.Printf("Rewrote %v from %.2f to %.2f bpm.", result.Path, result.OriginalBPM, result.NewBPM)
	case "derive":
		out, err := file.TempoFromMidi(*i, *targetBPM, *o)
		if err != nil {
			return err
		}
		log.Printf("Wrote %v.", out)
	default:
		return fmt.Errorf("unknown -mode %q", *mode)
	}
	return nil
}

func main() {
	flag.Parse()
	err := Main()
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
