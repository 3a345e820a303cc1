// ABOUTME: Minimal pattern synthesizer implementing the processing callback
// ABOUTME: Turns scheduled notes into decaying sine voices, filling sink buffers
package synth

import (
	"math"
	"sort"
	"sync/atomic"

	"github.com/Stepline-Audio/stepline-go/internal/driver"
	"github.com/Stepline-Audio/stepline-go/internal/song"
	"github.com/Stepline-Audio/stepline-go/internal/timing"
)

// noteEvent is a note resolved to an absolute frame position.
type noteEvent struct {
	frame uint64
	freq  float64
	vel   float64
}

// voice is one sounding note: a sine with exponential decay.
type voice struct {
	phase float64
	step  float64
	amp   float64
	decay float64
}

// Engine is a small synthesis engine satisfying both the processing
// callback and Transport contracts, standing in for a full mixer. It
// schedules every note up front, so later Process calls are pure playback.
type Engine struct {
	sink       driver.Output
	sampleRate int
	events     []noteEvent
	next       int
	pos        uint64
	voices     []voice
	playing    atomic.Bool
}

// New builds the engine's note schedule from the song, using the same
// tick-to-frame translation the render driver walks columns with.
func New(s *song.Song, sampleRate int) *Engine {
	e := &Engine{sampleRate: sampleRate}

	var columnStart uint64
	for pos, col := range s.Columns {
		framesPerTick := timing.FramesPerTick(sampleRate, s.BPMAt(pos), s.Resolution)
		ticks := col.LengthTicks()

		for _, p := range col.Patterns {
			for _, n := range p.Notes {
				if n.Position >= ticks {
					continue
				}
				e.events = append(e.events, noteEvent{
					frame: columnStart + uint64(framesPerTick*float64(n.Position)),
					freq:  midiFreq(n.Pitch),
					vel:   n.Velocity,
				})
			}
		}

		columnStart += uint64(timing.ColumnFrames(framesPerTick, ticks))
	}

	sort.Slice(e.events, func(i, j int) bool { return e.events[i].frame < e.events[j].frame })
	return e
}

// Bind points the engine at the sink whose buffers it fills.
func (e *Engine) Bind(sink driver.Output) {
	e.sink = sink
}

// Play starts the transport rolling.
func (e *Engine) Play() { e.playing.Store(true) }

// Stop halts the transport; Process reports not-ready until Play.
func (e *Engine) Stop() { e.playing.Store(false) }

// Process fills the sink's planar buffers with frames frames. Returns 0
// when the buffers are ready, nonzero when the transport is not rolling.
func (e *Engine) Process(frames int) int {
	if !e.playing.Load() {
		return 1
	}

	outL := e.sink.OutL()
	outR := e.sink.OutR()

	// 60 dB of decay over 0.3 s
	decay := math.Pow(0.001, 1.0/(0.3*float64(e.sampleRate)))

	for i := 0; i < frames; i++ {
		for e.next < len(e.events) && e.events[e.next].frame <= e.pos {
			ev := e.events[e.next]
			e.voices = append(e.voices, voice{
				step:  2 * math.Pi * ev.freq / float64(e.sampleRate),
				amp:   0.5 * ev.vel,
				decay: decay,
			})
			e.next++
		}

		var sample float64
		alive := e.voices[:0]
		for _, v := range e.voices {
			sample += v.amp * math.Sin(v.phase)
			v.phase += v.step
			v.amp *= v.decay
			if v.amp > 1e-4 {
				alive = append(alive, v)
			}
		}
		e.voices = alive

		outL[i] = float32(sample)
		outR[i] = float32(sample)
		e.pos++
	}

	return 0
}

// midiFreq converts a MIDI note number to Hz (A4 = 69 = 440 Hz).
func midiFreq(pitch int) float64 {
	return 440.0 * math.Pow(2, float64(pitch-69)/12.0)
}
