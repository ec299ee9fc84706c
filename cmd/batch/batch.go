package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tempotools/miditempo/internal/file"
)

var (
	i           = flag.String("i", "", "job file name (YAML)")
	addChecksum = flag.Bool("add_checksum", false, "automatically add checksum to the job YAML")
)

func Main() error {
	if *i == "" {
		return fmt.Errorf("missing -i flag")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %v", err)
	}
	fsys := os.DirFS(cwd)

	result, err := file.Process(fsys, *i, *addChecksum)
	if err != nil {
		return fmt.Errorf("failed to process: %v", err)
	}

	log.Printf("Rewrote %v from %.2f to %.2f bpm.", result.Path, result.OriginalBPM, result.NewBPM)
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
