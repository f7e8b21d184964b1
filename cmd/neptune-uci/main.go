package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/neptune-chess/neptune/internal/engine"
	"github.com/neptune-chess/neptune/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	depth      = flag.Int("depth", engine.DefaultDepth, "search depth in plies")
	parallel   = flag.Bool("parallel", false, "search root moves concurrently")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	eng := engine.NewEngine(*depth)
	eng.Parallel = *parallel

	// Create and run UCI protocol handler
	protocol := uci.New(eng, os.Stdin, os.Stdout)
	if err := protocol.Run(); err != nil {
		log.Printf("reading commands: %v", err)
	}
}
