// ABOUTME: Entry point for the offline song renderer
// ABOUTME: Parses CLI flags, wires the engine to the disk writer and reports progress
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/Stepline-Audio/stepline-go/internal/driver"
	"github.com/Stepline-Audio/stepline-go/internal/event"
	"github.com/Stepline-Audio/stepline-go/internal/song"
	"github.com/Stepline-Audio/stepline-go/internal/synth"
	"github.com/Stepline-Audio/stepline-go/internal/timing"
)

var (
	songPath = flag.String("song", "", "Song file (JSON). If empty, renders the built-in demo song")
	outPath  = flag.String("o", "render.wav", "Destination file (.wav, .aiff, .flac)")
	rate     = flag.Int("rate", 44100, "Sample rate in Hz")
	depth    = flag.Int("depth", 16, "Sample bit depth (8, 16, 24, 32)")
	buffer   = flag.Int("buffer", 1024, "Processing buffer length in frames")
	play     = flag.Bool("play", false, "Preview on the default audio device instead of rendering to a file")
	logFile  = flag.String("log-file", "", "Log file path (in addition to stderr)")
)

func main() {
	flag.Parse()

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	var (
		sng *song.Song
		err error
	)
	if *songPath == "" {
		sng = song.Demo()
		log.Printf("No song file given, rendering built-in demo song")
	} else {
		sng, err = song.Load(*songPath)
		if err != nil {
			log.Fatalf("error loading song: %v", err)
		}
	}

	engine := synth.New(sng, *rate)

	if *play {
		preview(sng, engine)
		return
	}

	log.Printf("Rendering %q: %d columns at %g BPM to %s", sng.Name, len(sng.Columns), sng.BPM, *outPath)

	events := event.NewQueue(256)

	cfg := driver.Config{
		Path:       *outPath,
		SampleRate: *rate,
		BitDepth:   *depth,
	}
	dw := driver.NewDiskWriter(cfg, sng, engine, engine.Process, events)
	engine.Bind(dw)

	if err := dw.Init(*buffer); err != nil {
		log.Fatalf("error configuring render: %v", err)
	}
	if err := dw.Connect(); err != nil {
		log.Fatalf("error starting render: %v", err)
	}

	for {
		select {
		case ev := <-events.C():
			report(ev)
		case <-dw.Done():
			// completion events were queued before Done closed
			for {
				select {
				case ev := <-events.C():
					report(ev)
				default:
					dw.Disconnect()
					if err := dw.Err(); err != nil {
						log.Fatalf("render failed: %v", err)
					}
					log.Printf("Wrote %s", *outPath)
					return
				}
			}
		}
	}
}

// preview plays the song once on the default sound device, driving the
// engine through the same Output contract the disk writer uses.
func preview(sng *song.Song, engine *synth.Engine) {
	lp := driver.NewLivePlayer(*rate, engine.Process)
	engine.Bind(lp)

	if err := lp.Init(*buffer); err != nil {
		log.Fatalf("error configuring playback: %v", err)
	}
	if err := lp.Connect(); err != nil {
		log.Fatalf("error opening audio device: %v", err)
	}
	engine.Play()

	d := time.Duration(songFrames(sng, *rate)) * time.Second / time.Duration(*rate)
	log.Printf("Playing %q (%s)", sng.Name, d.Round(time.Millisecond))
	time.Sleep(d + 500*time.Millisecond)

	lp.Disconnect()
	engine.Stop()
}

// songFrames totals the song's column frame lengths at the given rate.
func songFrames(s *song.Song, rate int) uint64 {
	var total uint64
	for i, col := range s.Columns {
		framesPerTick := timing.FramesPerTick(rate, s.BPMAt(i), s.Resolution)
		total += uint64(timing.ColumnFrames(framesPerTick, col.LengthTicks()))
	}
	return total
}

func report(ev event.Event) {
	switch ev.Kind {
	case event.Progress:
		log.Printf("Rendering: %3d%%", ev.Percent)
	case event.Finished:
		if ev.ShortWrites > 0 {
			log.Printf("Render finished with %d short writes", ev.ShortWrites)
		}
	case event.Failed:
		log.Printf("Render failed: %v", ev.Err)
	}
}
